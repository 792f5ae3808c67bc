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

// An ItemKind tells which variant an Item holds.
type ItemKind int

const (
	SignatureItem ItemKind = iota
	FieldItem
	SkolemItem
)

func (k ItemKind) String() string {
	switch k {
	case SignatureItem:
		return "sig"
	case FieldItem:
		return "field"
	case SkolemItem:
		return "skolem"
	}
	return "unknown"
}

// An Item is a signature, field or skolem viewed as a relation.
type Item struct {
	kind   ItemKind
	sig    *Signature
	field  *Field
	skolem *Skolem
}

func SignatureAsItem(s *Signature) Item { return Item{kind: SignatureItem, sig: s} }

func FieldAsItem(f *Field) Item { return Item{kind: FieldItem, field: f} }

func SkolemAsItem(s *Skolem) Item { return Item{kind: SkolemItem, skolem: s} }

func (it Item) Kind() ItemKind { return it.kind }

// Signature returns the signature held by it, or nil.
func (it Item) Signature() *Signature { return it.sig }

// Field returns the field held by it, or nil.
func (it Item) Field() *Field { return it.field }

// Skolem returns the skolem held by it, or nil.
func (it Item) Skolem() *Skolem { return it.skolem }

// Entity returns the entity held by it.
func (it Item) Entity() Entity {
	switch it.kind {
	case SignatureItem:
		return it.sig
	case FieldItem:
		return it.field
	}
	return it.skolem
}

func (it Item) ID() string { return it.Entity().ID() }

// Name returns a short display name: signatures drop the "this/" prefix.
func (it Item) Name() string {
	if it.kind == SignatureItem {
		return it.sig.Name()
	}
	return it.ID()
}

func (it Item) Arity() int {
	switch it.kind {
	case SignatureItem:
		return 1
	case FieldItem:
		return it.field.Arity()
	}
	return it.skolem.Arity()
}

// Tuples returns the tuples of it; a signature yields one unary tuple per
// atom, including the atoms of its descendants.
func (it Item) Tuples() []Tuple { return it.Relation().Tuples() }

func (it Item) Relation() *Relation {
	switch it.kind {
	case SignatureItem:
		return it.sig.Relation(true)
	case FieldItem:
		return it.field.Relation()
	}
	return it.skolem.Relation()
}

// Items returns the signatures, fields and skolems of i as items.
func (i *Instance) Items() []Item {
	items := make([]Item, 0, len(i.sigs)+len(i.fields)+len(i.skolems))
	for _, s := range i.sigs {
		items = append(items, SignatureAsItem(s))
	}
	for _, f := range i.fields {
		items = append(items, FieldAsItem(f))
	}
	for _, s := range i.skolems {
		items = append(items, SkolemAsItem(s))
	}
	return items
}
