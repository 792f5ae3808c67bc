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
	"strconv"
	"strings"
)

// An Atom is an indivisible element of an instance's universe. Its label is
// unique within an instance and it belongs to exactly one signature.
type Atom struct {
	handle Handle
	label  string
	sig    *Signature
}

func (a *Atom) Handle() Handle { return a.handle }

// ID returns the label of a.
func (a *Atom) ID() string { return a.label }

// Signature returns the signature that owns a.
func (a *Atom) Signature() *Signature { return a.sig }

// IsNumeric reports whether a belongs to the Int signature.
func (a *Atom) IsNumeric() bool { return a.sig != nil && a.sig.id == IntID }

// Relation returns the unary relation holding just a.
func (a *Atom) Relation() *Relation { return NewTuple(a).Relation() }

func (a *Atom) String() string { return a.label }

// Well-known signature identifiers.
const (
	UnivID = "univ"
	IntID  = "Int"
)

// MaxBitwidth bounds the size of the synthesized Int signature.
const MaxBitwidth = 16

// SigFlags records the declaration modifiers of a signature.
type SigFlags uint16

const (
	Abstract SigFlags = 1 << iota
	One
	Lone
	Some
	Builtin
	Private
	MetaSig
	Enum
)

var flagNames = []string{"abstract", "one", "lone", "some", "builtin", "private", "meta", "enum"}

// FlagByName returns the flag with the given name as it appears in
// instance files, such as "abstract".
func FlagByName(name string) (SigFlags, bool) {
	for i, n := range flagNames {
		if n == name {
			return 1 << i, true
		}
	}
	return 0, false
}

func (f SigFlags) String() string {
	var names []string
	for i, n := range flagNames {
		if f&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, " ")
}

// A forest is the arena holding a tree of signatures. Signatures are
// addressed by their index; the root is always at index 0.
type forest struct {
	sigs []*Signature
}

// A Signature is a named set of atoms together with its subtype
// signatures.
type Signature struct {
	handle   Handle
	id       string
	flags    SigFlags
	atoms    []*Atom
	children []int

	index  int
	forest *forest
}

// NewSignature returns a parentless signature owning new atoms with the
// given labels.
func NewSignature(id string, flags SigFlags, atoms ...string) *Signature {
	s := &Signature{handle: newHandle(), id: id, flags: flags}
	s.forest = &forest{sigs: []*Signature{s}}
	s.atoms = make([]*Atom, 0, len(atoms))
	for _, label := range atoms {
		s.atoms = append(s.atoms, &Atom{handle: newHandle(), label: label, sig: s})
	}
	return s
}

// NewIntSignature returns the Int signature for the given bitwidth. It owns
// 2^bitwidth atoms labeled with the integers from -2^(bitwidth-1) to
// 2^(bitwidth-1)-1.
func NewIntSignature(bitwidth int) (*Signature, error) {
	if bitwidth < 1 || bitwidth > MaxBitwidth {
		return nil, structuralf("invalid bitwidth %d", bitwidth)
	}
	lo, hi := -(1 << (bitwidth - 1)), 1<<(bitwidth-1)
	labels := make([]string, 0, hi-lo)
	for i := lo; i < hi; i++ {
		labels = append(labels, strconv.Itoa(i))
	}
	return NewSignature(IntID, Builtin, labels...), nil
}

func (s *Signature) Handle() Handle { return s.handle }

// ID returns the label of s, such as "this/A".
func (s *Signature) ID() string { return s.id }

// Name returns the label of s without the "this/" prefix of the main module.
func (s *Signature) Name() string { return strings.TrimPrefix(s.id, "this/") }

// Flags returns the declaration modifiers of s.
func (s *Signature) Flags() SigFlags { return s.flags }

// Is reports whether all the given flags are set for s.
func (s *Signature) Is(f SigFlags) bool { return s.flags&f == f }

// Atoms returns the atoms of s. If recursive is set, the atoms of all
// descendant signatures follow, depth-first.
func (s *Signature) Atoms(recursive bool) []*Atom {
	atoms := append([]*Atom(nil), s.atoms...)
	if recursive {
		for _, c := range s.SubSignatures(false) {
			atoms = append(atoms, c.Atoms(true)...)
		}
	}
	return atoms
}

// Atom returns the atom with the given label owned by s or one of its
// descendants, or nil if there is none.
func (s *Signature) Atom(id string) *Atom {
	for _, a := range s.atoms {
		if a.label == id {
			return a
		}
	}
	for _, c := range s.SubSignatures(false) {
		if a := c.Atom(id); a != nil {
			return a
		}
	}
	return nil
}

// Parent returns the signature s is a direct subtype of, or nil if s is a
// root.
func (s *Signature) Parent() *Signature {
	for _, p := range s.forest.sigs {
		if slices.Contains(p.children, s.index) {
			return p
		}
	}
	return nil
}

// SubSignatures returns the direct children of s, or, if recursive is set,
// all its descendants in pre-order.
func (s *Signature) SubSignatures(recursive bool) []*Signature {
	var sigs []*Signature
	for _, i := range s.children {
		c := s.forest.sigs[i]
		sigs = append(sigs, c)
		if recursive {
			sigs = append(sigs, c.SubSignatures(true)...)
		}
	}
	return sigs
}

// AddChild makes c a subtype of s. The forest of c is grafted onto the
// forest of s. It is an error if c already has a parent or if c is an
// ancestor of s.
func (s *Signature) AddChild(c *Signature) error {
	if c.forest.sigs[0] != c {
		return structuralf("signature %s already has a parent", c.id)
	}
	if c.forest == s.forest {
		return structuralf("adding %s to %s creates a cycle", c.id, s.id)
	}
	f := s.forest
	base := len(f.sigs)
	for _, m := range c.forest.sigs {
		for i := range m.children {
			m.children[i] += base
		}
		m.index += base
		m.forest = f
		f.sigs = append(f.sigs, m)
	}
	s.children = append(s.children, c.index)
	return nil
}

// Relation returns the unary relation of the atoms of s.
func (s *Signature) Relation(recursive bool) *Relation {
	r := &Relation{}
	for _, a := range s.Atoms(recursive) {
		r.add(NewTuple(a))
	}
	return r
}

// Clone returns a deep copy of s, its atoms and all its descendants. The
// copy is the root of a new forest. If p is not nil, every new signature
// and atom is bound in p.
func (s *Signature) Clone(p *Proxy) *Signature {
	return s.cloneInto(&forest{}, p)
}

func (s *Signature) cloneInto(f *forest, p *Proxy) *Signature {
	c := &Signature{
		handle: newHandle(),
		id:     s.id,
		flags:  s.flags,
		index:  len(f.sigs),
		forest: f,
	}
	f.sigs = append(f.sigs, c)
	if p != nil {
		p.Bind(c)
	}
	c.atoms = make([]*Atom, 0, len(s.atoms))
	for _, a := range s.atoms {
		na := &Atom{handle: newHandle(), label: a.label, sig: c}
		c.atoms = append(c.atoms, na)
		if p != nil {
			p.Bind(na)
		}
	}
	for _, i := range s.children {
		child := s.forest.sigs[i].cloneInto(f, p)
		c.children = append(c.children, child.index)
	}
	return c
}

func (s *Signature) String() string { return s.id }
