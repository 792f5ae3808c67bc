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

package alloy

import (
	"slices"
)

// Project binds each of the given atoms to the top-level signature it
// belongs to and returns a copy of i in which every field and skolem is
// reduced accordingly: for each bound signature, the first column whose
// type belongs to that signature is matched against the bound atom.
// Tuples that disagree are removed and the matched columns are dropped
// from the tuples that remain. A relation all of whose columns are matched
// is left out of the result.
//
// At most one atom may be given per top-level signature. i is not
// modified.
func (i *Instance) Project(atoms ...*Atom) (*Instance, error) {
	for _, a := range atoms {
		if i.Atom(a.label) == nil {
			return nil, structuralf("cannot project over atom %s: not in instance", a.label)
		}
	}
	c, err := i.Clone()
	if err != nil {
		return nil, err
	}

	// Map every signature below univ to its top-level ancestor.
	top := make(map[*Signature]*Signature)
	for _, t := range c.TopLevel() {
		top[t] = t
		for _, s := range t.SubSignatures(true) {
			top[s] = t
		}
	}

	bound := make(map[*Signature]*Atom)
	for _, a := range atoms {
		ca := c.Atom(a.label)
		var owner *Signature
		for _, t := range c.TopLevel() {
			if t.Atom(ca.label) != nil {
				owner = t
				break
			}
		}
		if owner == nil {
			return nil, structuralf("cannot project over atom %s: not in a top-level signature", a.label)
		}
		if prev, ok := bound[owner]; ok && prev != ca {
			return nil, structuralf("cannot project over multiple atoms from the same signature: %s and %s in %s",
				prev.label, ca.label, owner.id)
		}
		bound[owner] = ca
	}
	if len(bound) == 0 {
		return c, nil
	}

	fields := c.fields[:0]
	for _, f := range c.fields {
		if f.project(top, bound) {
			fields = append(fields, f)
		}
	}
	c.fields = fields
	skolems := c.skolems[:0]
	for _, s := range c.skolems {
		if s.project(top, bound) {
			skolems = append(skolems, s)
		}
	}
	c.skolems = skolems
	return c, nil
}

// project rewrites the types and tuples of t in place. It reports false if
// every column is bound.
func (t *typedSet) project(top map[*Signature]*Signature, bound map[*Signature]*Atom) bool {
	var cols []int
	var want []*Atom
	used := make(map[*Signature]bool)
	for col, typ := range t.types {
		sig := top[typ]
		if sig == nil || used[sig] {
			continue
		}
		if a, ok := bound[sig]; ok {
			used[sig] = true
			cols = append(cols, col)
			want = append(want, a)
		}
	}
	if len(cols) == 0 {
		return true
	}
	if len(cols) == len(t.types) {
		return false
	}
	types := make([]*Signature, 0, len(t.types)-len(cols))
	for col, typ := range t.types {
		if !slices.Contains(cols, col) {
			types = append(types, typ)
		}
	}
	var tuples []Tuple
next:
	for _, u := range t.tuples {
		for k, col := range cols {
			if u.atoms[col] != want[k] {
				continue next
			}
		}
		tuples = append(tuples, u.without(cols))
	}
	t.types = types
	t.tuples = tuples
	return true
}
