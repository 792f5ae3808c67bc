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

// Package encoding contains subpackages to convert Alloy instances to and
// from byte-level and textual representations.
//
// We adopt the following naming convention:
//
//    Name        Direction     Example
//    Decode      x -> Alloy    Read an instance written by the Alloy analyzer
//    Encode      Alloy -> x    Convert an instance to CUE syntax
//
// Parse and Marshal are used if the respective Decoder and Encoder decode
// and encode from and to a stream of bytes.
package encoding
