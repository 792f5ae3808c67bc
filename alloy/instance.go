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
	"strings"
)

// Meta holds the scalar properties of an instance.
type Meta struct {
	// Bitwidth determines the range of the Int signature.
	Bitwidth int

	// Command is the command that produced the instance.
	Command string

	// Filename is the model file the command was run on.
	Filename string

	// MaxSeq is the maximum sequence length.
	MaxSeq int
}

// An Instance is a bounded relational structure: a forest of signatures
// and their atoms, together with the fields and skolems over them.
//
// An Instance is not modified after construction; Clone and Project return
// new instances.
type Instance struct {
	meta    Meta
	univ    *Signature
	sigs    []*Signature
	atoms   []*Atom
	fields  []*Field
	skolems []*Skolem
	proxy   *Proxy

	sigByID  map[string]*Signature
	atomByID map[string]*Atom
}

// NewInstance returns an instance built from its constituents. The
// signature list holds every signature of the instance, not just roots.
// Entities not yet bound in proxy are bound to derived names; a nil proxy
// is replaced by a new one.
func NewInstance(meta Meta, sigs []*Signature, fields []*Field, skolems []*Skolem, proxy *Proxy) (*Instance, error) {
	if meta.Bitwidth < 1 {
		return nil, structuralf("invalid bitwidth %d", meta.Bitwidth)
	}
	if proxy == nil {
		proxy = NewProxy()
	}
	inst := &Instance{
		meta:     meta,
		sigs:     sigs,
		fields:   fields,
		skolems:  skolems,
		proxy:    proxy,
		sigByID:  make(map[string]*Signature, len(sigs)),
		atomByID: make(map[string]*Atom),
	}
	for _, s := range sigs {
		if _, dup := inst.sigByID[s.id]; dup {
			return nil, structuralf("duplicate signature %s", s.id)
		}
		inst.sigByID[s.id] = s
		if s.id == UnivID {
			inst.univ = s
		}
		proxy.Bind(s)
		for _, a := range s.atoms {
			if other, dup := inst.atomByID[a.label]; dup {
				return nil, structuralf("atom %s is in both %s and %s", a.label, other.sig.id, s.id)
			}
			inst.atomByID[a.label] = a
			inst.atoms = append(inst.atoms, a)
			proxy.Bind(a)
		}
	}
	for _, f := range fields {
		proxy.Bind(f)
	}
	for _, s := range skolems {
		proxy.Bind(s)
	}
	return inst, nil
}

// Meta returns the scalar properties of i.
func (i *Instance) Meta() Meta { return i.meta }

func (i *Instance) Bitwidth() int { return i.meta.Bitwidth }

func (i *Instance) Command() string { return i.meta.Command }

func (i *Instance) Filename() string { return i.meta.Filename }

func (i *Instance) MaxSeq() int { return i.meta.MaxSeq }

// Proxy returns the proxy holding the variable names of the entities of i.
func (i *Instance) Proxy() *Proxy { return i.proxy }

// Univ returns the root signature, or nil if i has none.
func (i *Instance) Univ() *Signature { return i.univ }

// Signatures returns all signatures of i.
func (i *Instance) Signatures() []*Signature { return append([]*Signature(nil), i.sigs...) }

// TopLevel returns the direct children of univ.
func (i *Instance) TopLevel() []*Signature {
	if i.univ == nil {
		return nil
	}
	return i.univ.SubSignatures(false)
}

// Atoms returns all atoms of i.
func (i *Instance) Atoms() []*Atom { return append([]*Atom(nil), i.atoms...) }

// Fields returns the fields of i.
func (i *Instance) Fields() []*Field { return append([]*Field(nil), i.fields...) }

// Skolems returns the skolems of i.
func (i *Instance) Skolems() []*Skolem { return append([]*Skolem(nil), i.skolems...) }

// Signature returns the signature with the given id, or nil. An id without
// a module prefix also matches a signature of the model itself, so "A"
// finds "this/A".
func (i *Instance) Signature(id string) *Signature {
	if s, ok := i.sigByID[id]; ok {
		return s
	}
	return i.sigByID["this/"+id]
}

// Atom returns the atom with the given label, or nil.
func (i *Instance) Atom(id string) *Atom { return i.atomByID[id] }

// Field returns the first field with the given label, or nil. A label of
// the form "parent<:label" selects the field declared by parent.
func (i *Instance) Field(id string) *Field {
	parent, label, qualified := strings.Cut(id, "<:")
	if !qualified {
		label = id
	}
	for _, f := range i.fields {
		if f.id != label {
			continue
		}
		if !qualified || (f.parent != nil && f.parent.id == parent) {
			return f
		}
	}
	return nil
}

// Skolem returns the skolem with the given label, or nil.
func (i *Instance) Skolem(id string) *Skolem {
	for _, s := range i.skolems {
		if s.id == id {
			return s
		}
	}
	return nil
}

// Clone returns a copy of i that shares no signature, atom, field or
// skolem with i. The copy has its own proxy, in which every entity keeps
// the variable name it has in i.
func (i *Instance) Clone() (*Instance, error) {
	if i.univ == nil {
		return nil, structuralf("cannot clone instance without %s signature", UnivID)
	}
	p := NewProxy()
	univ := i.univ.Clone(nil)
	sigs := append([]*Signature{univ}, univ.SubSignatures(true)...)

	// Signatures and atoms keep the names they have in i. Both trees are
	// walked in the same order, so sigs[k] is the copy of orig[k].
	orig := append([]*Signature{i.univ}, i.univ.SubSignatures(true)...)
	for k, s := range orig {
		if name, ok := i.proxy.Name(s); ok {
			p.BindAs(sigs[k], name)
		}
		for j, a := range s.atoms {
			if name, ok := i.proxy.Name(a); ok {
				p.BindAs(sigs[k].atoms[j], name)
			}
		}
	}
	fields := make([]*Field, 0, len(i.fields))
	for _, f := range i.fields {
		c, err := f.Clone(sigs, i.proxy, p)
		if err != nil {
			return nil, err
		}
		fields = append(fields, c)
	}
	skolems := make([]*Skolem, 0, len(i.skolems))
	for _, s := range i.skolems {
		c, err := s.Clone(sigs, i.proxy, p)
		if err != nil {
			return nil, err
		}
		skolems = append(skolems, c)
	}
	return NewInstance(i.meta, sigs, fields, skolems, p)
}

// Validate reports an error if the atom in some column of a field or
// skolem tuple does not belong to the declared type of that column.
func (i *Instance) Validate() error {
	check := func(kind string, ts *typedSet) error {
		for _, t := range ts.tuples {
			if len(t.atoms) != len(ts.types) {
				return structuralf("%s %s: tuple %v does not have arity %d", kind, ts.id, t, len(ts.types))
			}
			for col, a := range t.atoms {
				typ := ts.types[col]
				if typ.id != UnivID && typ.Atom(a.label) != a {
					return structuralf("%s %s: atom %s in tuple %v is not a %s", kind, ts.id, a.label, t, typ.id)
				}
			}
		}
		return nil
	}
	for _, f := range i.fields {
		if err := check("field", &f.typedSet); err != nil {
			return err
		}
	}
	for _, s := range i.skolems {
		if err := check("skolem", &s.typedSet); err != nil {
			return err
		}
	}
	return nil
}
