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
	"strings"
)

// A Tuple is an ordered, fixed-arity sequence of atoms.
// The zero Tuple has arity zero and is only valid as a placeholder.
type Tuple struct {
	atoms []*Atom
}

// NewTuple returns a tuple of the given atoms. It panics if no atoms are
// given: a tuple has at least one column.
func NewTuple(atoms ...*Atom) Tuple {
	if len(atoms) == 0 {
		panic("alloy: tuple must have at least one atom")
	}
	return Tuple{atoms: slices.Clone(atoms)}
}

// Arity reports the number of atoms in t.
func (t Tuple) Arity() int { return len(t.atoms) }

// Atoms returns the atoms of t in column order.
func (t Tuple) Atoms() []*Atom { return slices.Clone(t.atoms) }

// Atom returns the atom in column i.
func (t Tuple) Atom(i int) *Atom { return t.atoms[i] }

// Equal reports whether t and u hold the same atom sequence.
func (t Tuple) Equal(u Tuple) bool {
	if len(t.atoms) != len(u.atoms) {
		return false
	}
	for i, a := range t.atoms {
		if a.label != u.atoms[i].label {
			return false
		}
	}
	return true
}

// Relation returns the singleton relation holding t.
func (t Tuple) Relation() *Relation {
	return &Relation{arity: len(t.atoms), tuples: []Tuple{t}}
}

func (t Tuple) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range t.atoms {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.label)
	}
	b.WriteByte(')')
	return b.String()
}

// key identifies the atom sequence of t. Atom labels are unique within an
// instance, so the key compares tuples by atom identity.
func (t Tuple) key() string {
	var b strings.Builder
	for i, a := range t.atoms {
		if i > 0 {
			b.WriteByte(0)
		}
		b.WriteString(a.label)
	}
	return b.String()
}

// without returns a copy of t with the given sorted columns removed.
func (t Tuple) without(cols []int) Tuple {
	atoms := make([]*Atom, 0, len(t.atoms)-len(cols))
	for i, a := range t.atoms {
		if _, found := slices.BinarySearch(cols, i); !found {
			atoms = append(atoms, a)
		}
	}
	return Tuple{atoms: atoms}
}

// A Relation is a collection of tuples that all have the same arity.
// Tuples are kept in construction order.
type Relation struct {
	arity  int
	tuples []Tuple
}

// NewRelation returns a relation holding the given tuples in order.
// It panics if the tuples do not share one arity.
func NewRelation(tuples ...Tuple) *Relation {
	r := &Relation{}
	for _, t := range tuples {
		r.add(t)
	}
	return r
}

func (r *Relation) add(t Tuple) {
	switch {
	case t.Arity() == 0:
		panic("alloy: relation cannot hold an empty tuple")
	case r.arity == 0:
		r.arity = t.Arity()
	case r.arity != t.Arity():
		panic("alloy: mixed arity in relation")
	}
	r.tuples = append(r.tuples, t)
}

// Empty reports whether r holds no tuples.
func (r *Relation) Empty() bool { return len(r.tuples) == 0 }

// Len reports the number of tuples in r.
func (r *Relation) Len() int { return len(r.tuples) }

// Arity reports the arity of the tuples of r. The arity of a relation
// that never held a tuple is zero.
func (r *Relation) Arity() int { return r.arity }

// Tuples returns the tuples of r in construction order.
func (r *Relation) Tuples() []Tuple { return slices.Clone(r.tuples) }

// Contains reports whether r holds a tuple equal to t.
func (r *Relation) Contains(t Tuple) bool {
	for _, u := range r.tuples {
		if u.Equal(t) {
			return true
		}
	}
	return false
}

// In reports whether every tuple of r has an equal counterpart in s.
func (r *Relation) In(s *Relation) bool {
	index := s.index()
	for _, t := range r.tuples {
		if !index[t.key()] {
			return false
		}
	}
	return true
}

// Equal reports whether r and s list the same tuples in the same order.
// It is a structural comparison: use SameSet for set equality.
func (r *Relation) Equal(s *Relation) bool {
	if len(r.tuples) != len(s.tuples) {
		return false
	}
	for i, t := range r.tuples {
		if !t.Equal(s.tuples[i]) {
			return false
		}
	}
	return true
}

// SameSet reports whether r and s hold the same tuples, ignoring order.
func (r *Relation) SameSet(s *Relation) bool {
	return r.In(s) && s.In(r)
}

// Join computes the relational join of r and s: the last column of r is
// matched against the first column of s, and each matching pair of tuples
// contributes their concatenation without the two matched columns.
// Duplicate result tuples are dropped.
//
// Joining with an empty relation yields an empty relation of arity zero.
// Joining two unary relations is an error, as every result tuple would
// have no columns left.
func (r *Relation) Join(s *Relation) (*Relation, error) {
	if r.Empty() || s.Empty() {
		return &Relation{}, nil
	}
	arity := r.arity + s.arity - 2
	if arity < 1 {
		return nil, structuralf("cannot join %d-ary relation with %d-ary relation", r.arity, s.arity)
	}
	byFirst := make(map[string][]Tuple)
	for _, u := range s.tuples {
		first := u.atoms[0].label
		byFirst[first] = append(byFirst[first], u)
	}
	res := &Relation{arity: arity}
	seen := make(map[string]bool)
	for _, t := range r.tuples {
		last := t.atoms[len(t.atoms)-1].label
		for _, u := range byFirst[last] {
			atoms := make([]*Atom, 0, arity)
			atoms = append(atoms, t.atoms[:len(t.atoms)-1]...)
			atoms = append(atoms, u.atoms[1:]...)
			nt := Tuple{atoms: atoms}
			if k := nt.key(); !seen[k] {
				seen[k] = true
				res.tuples = append(res.tuples, nt)
			}
		}
	}
	return res, nil
}

// Union returns the tuples of r followed by those tuples of s not in r.
func (r *Relation) Union(s *Relation) (*Relation, error) {
	if r.arity != 0 && s.arity != 0 && r.arity != s.arity {
		return nil, structuralf("cannot union %d-ary relation with %d-ary relation", r.arity, s.arity)
	}
	res := &Relation{arity: r.arity, tuples: slices.Clone(r.tuples)}
	if res.arity == 0 {
		res.arity = s.arity
	}
	index := r.index()
	for _, t := range s.tuples {
		if k := t.key(); !index[k] {
			index[k] = true
			res.tuples = append(res.tuples, t)
		}
	}
	return res, nil
}

func (r *Relation) index() map[string]bool {
	m := make(map[string]bool, len(r.tuples))
	for _, t := range r.tuples {
		m[t.key()] = true
	}
	return m
}

func (r *Relation) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, t := range r.tuples {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte('}')
	return b.String()
}
