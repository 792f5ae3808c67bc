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

package alloyxml

import (
	"cuelang.org/go/cue/token"

	"alloyviz.dev/go/alloy"
)

// A builder turns the element tree of an instance into an alloy.Instance.
type builder struct {
	dec *Decoder

	intSig      *alloy.Signature
	intAttached bool

	sigs    []*alloy.Signature // in document order
	byID    map[string]*alloy.Signature
	aliases map[string]string // subset signature ID to type ID
	links   []link
	atoms   map[string]*alloy.Atom
	proxy   *alloy.Proxy
}

// A link records a declared parent of a signature.
type link struct {
	child, parent string
	pos           token.Pos
}

func (b *builder) build(inst *element) (*alloy.Instance, error) {
	var meta alloy.Meta
	var err error
	if meta.Bitwidth, err = inst.intAttr("bitwidth"); err != nil {
		return nil, err
	}
	if meta.Command, err = inst.required("command"); err != nil {
		return nil, err
	}
	if meta.Filename, err = inst.required("filename"); err != nil {
		return nil, err
	}
	if meta.MaxSeq, err = inst.intAttr("maxseq"); err != nil {
		return nil, err
	}
	if meta.Bitwidth < 1 || meta.Bitwidth > alloy.MaxBitwidth {
		return nil, alloy.Errorf(alloy.Structural, inst.pos,
			"invalid bitwidth %d: must be between 1 and %d", meta.Bitwidth, alloy.MaxBitwidth)
	}
	if b.intSig, err = alloy.NewIntSignature(meta.Bitwidth); err != nil {
		return nil, err
	}

	if err := b.signatures(inst); err != nil {
		return nil, err
	}
	if err := b.attach(); err != nil {
		return nil, err
	}

	b.atoms = make(map[string]*alloy.Atom)
	b.proxy = alloy.NewProxy()
	for _, s := range b.sigs {
		b.proxy.Bind(s)
		for _, a := range s.Atoms(false) {
			b.atoms[a.ID()] = a
			b.proxy.Bind(a)
		}
	}

	fields, err := b.fields(inst)
	if err != nil {
		return nil, err
	}
	skolems, err := b.skolems(inst)
	if err != nil {
		return nil, err
	}
	return alloy.NewInstance(meta, b.sigs, fields, skolems, b.proxy)
}

// signatures creates a signature for each <sig> element and records the
// declared parents.
func (b *builder) signatures(inst *element) error {
	b.byID = make(map[string]*alloy.Signature)
	b.aliases = make(map[string]string)
	intListed := false
	for _, e := range inst.childrenNamed("sig") {
		label, err := e.required("label")
		if err != nil {
			return err
		}
		if label == "seq/Int" {
			continue
		}
		id, err := e.required("ID")
		if err != nil {
			return err
		}
		if _, dup := b.byID[id]; dup {
			return alloy.Errorf(alloy.Structural, e.pos, "duplicate signature ID %s", id)
		}
		parentID, hasParent := e.attrValue("parentID")

		if label == alloy.IntID {
			b.byID[id] = b.intSig
			if !intListed {
				b.sigs = append(b.sigs, b.intSig)
				intListed = true
			}
			if hasParent && !b.intAttached {
				b.links = append(b.links, link{child: id, parent: parentID, pos: e.pos})
				b.intAttached = true
			}
			continue
		}

		if !hasParent && label != alloy.UnivID {
			// A subset signature: its atoms belong to the signatures it
			// is declared in.
			if types := e.childrenNamed("type"); len(types) > 0 {
				typeID, err := types[0].required("ID")
				if err != nil {
					return err
				}
				b.aliases[id] = typeID
				continue
			}
		}

		var flags alloy.SigFlags
		for _, a := range e.attr {
			if f, ok := alloy.FlagByName(a.Name.Local); ok && a.Value == "yes" {
				flags |= f
			}
		}
		var labels []string
		for _, a := range e.childrenNamed("atom") {
			l, err := a.required("label")
			if err != nil {
				return err
			}
			labels = append(labels, l)
		}
		s := alloy.NewSignature(label, flags, labels...)
		b.byID[id] = s
		b.sigs = append(b.sigs, s)
		if hasParent {
			b.links = append(b.links, link{child: id, parent: parentID, pos: e.pos})
		}
	}
	if !intListed {
		b.sigs = append(b.sigs, b.intSig)
	}
	return nil
}

// attach builds the signature forest from the recorded parents. An Int
// signature without a declared parent is placed under univ.
func (b *builder) attach() error {
	for _, l := range b.links {
		parent := b.resolve(l.parent)
		if parent == nil {
			return alloy.Errorf(alloy.Structural, l.pos, "unresolved parent signature ID %s", l.parent)
		}
		if err := parent.AddChild(b.byID[l.child]); err != nil {
			return at(err, l.pos)
		}
	}
	if !b.intAttached {
		for _, s := range b.sigs {
			if s.ID() == alloy.UnivID {
				return s.AddChild(b.intSig)
			}
		}
	}
	return nil
}

// resolve returns the signature with the given ID. Subset signature IDs
// resolve to the signature they are declared in.
func (b *builder) resolve(id string) *alloy.Signature {
	for i := 0; i <= len(b.aliases); i++ {
		if s := b.byID[id]; s != nil {
			return s
		}
		next, ok := b.aliases[id]
		if !ok {
			return nil
		}
		id = next
	}
	return nil
}

func (b *builder) fields(inst *element) ([]*alloy.Field, error) {
	elems := inst.childrenNamed("field")
	count := make(map[string]int)
	for _, e := range elems {
		if l, ok := e.attrValue("label"); ok {
			count[l]++
		}
	}
	var fields []*alloy.Field
	for _, e := range elems {
		label, err := e.required("label")
		if err != nil {
			return nil, err
		}
		parentID, err := e.required("parentID")
		if err != nil {
			return nil, at(err, e.pos, "field", label)
		}
		parent := b.resolve(parentID)
		if parent == nil {
			return nil, alloy.Errorf(alloy.Structural, e.pos,
				"unresolved parent signature ID %s", parentID).At("field", label)
		}
		types, tuples, err := b.typedSet(e)
		if err != nil {
			return nil, at(err, token.NoPos, "field", label)
		}
		f := alloy.NewField(label, parent, types, tuples)
		name := label
		if count[label] > 1 {
			// The same label is declared by several signatures.
			name = alloy.QualifiedName(parent.ID(), label)
		}
		b.proxy.BindAs(f, name)
		fields = append(fields, f)
	}
	return fields, nil
}

func (b *builder) skolems(inst *element) ([]*alloy.Skolem, error) {
	var skolems []*alloy.Skolem
	for _, e := range inst.childrenNamed("skolem") {
		label, err := e.required("label")
		if err != nil {
			return nil, err
		}
		types, tuples, err := b.typedSet(e)
		if err != nil {
			return nil, at(err, token.NoPos, "skolem", label)
		}
		s := alloy.NewSkolem(label, types, tuples)
		b.proxy.Bind(s)
		skolems = append(skolems, s)
	}
	return skolems, nil
}

// typedSet resolves the declared types and the tuples of a field or
// skolem element.
func (b *builder) typedSet(e *element) ([]*alloy.Signature, []alloy.Tuple, error) {
	te := e.child("types")
	if te == nil {
		return nil, nil, alloy.Errorf(alloy.MissingElement, e.pos, "<%s> has no <types> element", e.name)
	}
	var types []*alloy.Signature
	for _, t := range te.childrenNamed("type") {
		id, err := t.required("ID")
		if err != nil {
			return nil, nil, err
		}
		s := b.resolve(id)
		if s == nil {
			return nil, nil, alloy.Errorf(alloy.Structural, t.pos, "unresolved type ID %s", id)
		}
		types = append(types, s)
	}
	if len(types) == 0 {
		return nil, nil, alloy.Errorf(alloy.Structural, te.pos, "no types declared")
	}
	var tuples []alloy.Tuple
	for _, tu := range e.childrenNamed("tuple") {
		var atoms []*alloy.Atom
		for _, ae := range tu.childrenNamed("atom") {
			label, err := ae.required("label")
			if err != nil {
				return nil, nil, err
			}
			a := b.atoms[label]
			if a == nil {
				return nil, nil, alloy.Errorf(alloy.Structural, ae.pos, "unknown atom %q", label)
			}
			atoms = append(atoms, a)
		}
		if len(atoms) != len(types) {
			return nil, nil, alloy.Errorf(alloy.Structural, tu.pos,
				"tuple has %d atoms, but %d types are declared", len(atoms), len(types))
		}
		tuples = append(tuples, alloy.NewTuple(atoms...))
	}
	return types, tuples, nil
}

// at sets the position, if valid, and element path of an alloy.Error.
func at(err error, pos token.Pos, path ...string) error {
	e, ok := err.(*alloy.Error)
	if !ok {
		return err
	}
	x := *e
	if pos.IsValid() {
		x.Pos = pos
	}
	if len(path) > 0 {
		x.ElemPath = path
	}
	return &x
}
