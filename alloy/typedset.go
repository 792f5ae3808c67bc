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

// typedSet is a named n-ary relation with a declared type per column.
type typedSet struct {
	handle Handle
	id     string
	types  []*Signature
	tuples []Tuple
}

func newTypedSet(id string, types []*Signature, tuples []Tuple) typedSet {
	return typedSet{
		handle: newHandle(),
		id:     id,
		types:  slices.Clone(types),
		tuples: slices.Clone(tuples),
	}
}

func (t *typedSet) Handle() Handle { return t.handle }

// ID returns the label of the relation.
func (t *typedSet) ID() string { return t.id }

// Types returns the declared type of each column.
func (t *typedSet) Types() []*Signature { return slices.Clone(t.types) }

// Arity reports the number of columns.
func (t *typedSet) Arity() int { return len(t.types) }

// Tuples returns the tuples of the relation.
func (t *typedSet) Tuples() []Tuple { return slices.Clone(t.tuples) }

// Relation returns the tuples as a Relation.
func (t *typedSet) Relation() *Relation {
	r := &Relation{arity: len(t.types)}
	for _, u := range t.tuples {
		r.add(u)
	}
	return r
}

// resolve maps the types and tuples of t onto the signatures sigs, by
// signature id and atom label.
func (t *typedSet) resolve(sigs []*Signature) (types []*Signature, tuples []Tuple, err error) {
	sigByID, atomByID := indexSignatures(sigs)
	types = make([]*Signature, len(t.types))
	for i, typ := range t.types {
		if types[i] = sigByID[typ.id]; types[i] == nil {
			return nil, nil, structuralf("cannot clone %s: type %s not found", t.id, typ.id)
		}
	}
	tuples = make([]Tuple, len(t.tuples))
	for i, u := range t.tuples {
		atoms := make([]*Atom, len(u.atoms))
		for j, a := range u.atoms {
			if atoms[j] = atomByID[a.label]; atoms[j] == nil {
				return nil, nil, structuralf("cannot clone %s: atom %s not found", t.id, a.label)
			}
		}
		tuples[i] = Tuple{atoms: atoms}
	}
	return types, tuples, nil
}

// rebind binds the clone c in to under the name bound to t in from.
func (t *typedSet) rebind(c Entity, from, to *Proxy) error {
	if to == nil {
		return nil
	}
	var name string
	ok := false
	if from != nil {
		name, ok = from.Name(t)
	}
	if !ok {
		return structuralf("cannot clone %s: no variable binding", t.id)
	}
	to.BindAs(c, name)
	return nil
}

func indexSignatures(sigs []*Signature) (map[string]*Signature, map[string]*Atom) {
	sigByID := make(map[string]*Signature)
	atomByID := make(map[string]*Atom)
	for _, s := range sigs {
		sigByID[s.id] = s
		for _, a := range s.Atoms(true) {
			atomByID[a.label] = a
		}
	}
	return sigByID, atomByID
}

// A Field is a relation declared in the model, owned by a parent
// signature.
type Field struct {
	typedSet
	parent *Signature
}

// NewField returns a field with the given column types and tuples. The
// tuples are not checked against the types.
func NewField(id string, parent *Signature, types []*Signature, tuples []Tuple) *Field {
	return &Field{typedSet: newTypedSet(id, types, tuples), parent: parent}
}

// Parent returns the signature declaring f.
func (f *Field) Parent() *Signature { return f.parent }

// Clone returns a copy of f whose parent, types and atoms are resolved
// against sigs. If to is not nil, the copy is bound in to under the name f
// has in from.
func (f *Field) Clone(sigs []*Signature, from, to *Proxy) (*Field, error) {
	types, tuples, err := f.resolve(sigs)
	if err != nil {
		return nil, err
	}
	var parent *Signature
	if f.parent != nil {
		for _, s := range sigs {
			if s.id == f.parent.id {
				parent = s
				break
			}
		}
		if parent == nil {
			return nil, structuralf("cannot clone %s: parent %s not found", f.id, f.parent.id)
		}
	}
	c := &Field{typedSet: typedSet{handle: newHandle(), id: f.id, types: types, tuples: tuples}, parent: parent}
	if err := f.rebind(c, from, to); err != nil {
		return nil, err
	}
	return c, nil
}

func (f *Field) String() string {
	if f.parent == nil {
		return f.id
	}
	return f.parent.id + "<:" + f.id
}

// A Skolem is a relation introduced by the solver as a witness of an
// existential quantifier.
type Skolem struct {
	typedSet
}

// NewSkolem returns a skolem with the given column types and tuples.
func NewSkolem(id string, types []*Signature, tuples []Tuple) *Skolem {
	return &Skolem{typedSet: newTypedSet(id, types, tuples)}
}

// Clone returns a copy of s resolved against sigs. See Field.Clone.
func (s *Skolem) Clone(sigs []*Signature, from, to *Proxy) (*Skolem, error) {
	types, tuples, err := s.resolve(sigs)
	if err != nil {
		return nil, err
	}
	c := &Skolem{typedSet: typedSet{handle: newHandle(), id: s.id, types: types, tuples: tuples}}
	if err := s.rebind(c, from, to); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Skolem) String() string { return s.id }
