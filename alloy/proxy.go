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
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"
)

// A Handle identifies an entity of an instance graph. Handles are unique
// within a process.
type Handle uint64

var lastHandle atomic.Uint64

func newHandle() Handle { return Handle(lastHandle.Add(1)) }

// An Entity is a node of an instance graph that can be bound to a
// variable name: a *Signature, *Atom, *Field or *Skolem.
type Entity interface {
	Handle() Handle
	ID() string
}

// A Binding pairs a variable name with the entity it denotes.
type Binding struct {
	Name   string
	Entity Entity
}

// A Proxy assigns variable names to the entities of one instance graph, so
// that they can be exposed as identifiers to a script. Names are valid CUE
// identifiers and unique within the proxy.
//
// A Proxy is safe for concurrent use.
type Proxy struct {
	mu    sync.Mutex
	names map[Handle]string
	owner map[string]Handle
}

// NewProxy returns an empty Proxy.
func NewProxy() *Proxy {
	return &Proxy{
		names: make(map[Handle]string),
		owner: make(map[string]Handle),
	}
}

// Bind returns the variable name of e, deriving one from its id if e has
// not been bound before.
func (p *Proxy) Bind(e Entity) string {
	return p.bind(e.Handle(), VarName(e.ID()))
}

// BindAs is like Bind, but uses name instead of deriving one from the id
// of e. If name is owned by another entity, a numeric suffix is added.
func (p *Proxy) BindAs(e Entity, name string) string {
	return p.bind(e.Handle(), VarName(name))
}

func (p *Proxy) bind(h Handle, name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.names[h]; ok {
		return n
	}
	unique := name
	for i := 2; ; i++ {
		if _, taken := p.owner[unique]; !taken {
			break
		}
		unique = name + "$" + strconv.Itoa(i)
	}
	p.names[h] = unique
	p.owner[unique] = h
	return unique
}

// Name returns the variable name bound to e, if any.
func (p *Proxy) Name(e Entity) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.names[e.Handle()]
	return n, ok
}

// Len reports the number of bound entities.
func (p *Proxy) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.names)
}

// Bindings binds the signatures, non-numeric atoms, fields and skolems of
// inst, in that order, and returns the resulting bindings.
func (p *Proxy) Bindings(inst *Instance) []Binding {
	var bs []Binding
	add := func(e Entity) {
		bs = append(bs, Binding{Name: p.Bind(e), Entity: e})
	}
	for _, s := range inst.sigs {
		add(s)
	}
	for _, a := range inst.atoms {
		if !a.IsNumeric() {
			add(a)
		}
	}
	for _, f := range inst.fields {
		add(f)
	}
	for _, s := range inst.skolems {
		add(s)
	}
	return bs
}

// predeclared lists the CUE keywords and predeclared identifiers that a
// variable name must not shadow.
var predeclared = map[string]bool{
	"package": true, "import": true, "for": true, "in": true, "if": true,
	"let": true, "true": true, "false": true, "null": true,
	"bool": true, "int": true, "float": true, "string": true, "bytes": true,
	"number": true, "len": true, "close": true, "and": true, "or": true,
	"div": true, "mod": true, "quo": true, "rem": true, "error": true,
}

// VarName derives a variable name from an entity id: a leading "this/" is
// dropped, path separators become '$' and other runes that cannot appear
// in an identifier become '_'.
func VarName(id string) string {
	id = strings.TrimPrefix(id, "this/")
	var b strings.Builder
	for i, r := range id {
		switch {
		case r == '/':
			b.WriteByte('$')
		case r == '$' || r == '_' || unicode.IsLetter(r):
			b.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('$')
			}
			b.WriteRune(r)
		default:
			if i == 0 {
				b.WriteByte('$')
			}
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" || name[0] == '_' || predeclared[name] {
		name = "$" + name
	}
	return name
}

// QualifiedName returns the variable name of a field label qualified by
// the id of its parent signature.
func QualifiedName(parent, label string) string {
	return VarName(parent) + "$" + VarName(label)
}
