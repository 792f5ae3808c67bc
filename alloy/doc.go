// Copyright 2025 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package alloy represents Alloy instances: the bounded relational
// structures found by the Alloy analyzer.
//
// An [Instance] holds a forest of signatures rooted at univ. Each
// [Signature] owns a set of atoms and a list of subtype signatures.
// A [Field] or [Skolem] is an n-ary relation with a declared signature per
// column. Relations can be combined with [Relation.Join].
//
// Instances are not modified after construction. [Instance.Clone] copies
// an instance, and [Instance.Project] binds one atom per top-level
// signature and returns a reduced copy.
//
// A [Proxy] assigns the entities of one instance graph variable names
// that are valid CUE identifiers, so that they can be bound in a script.
package alloy
