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

// Package alloycue converts Alloy instances to CUE syntax.
//
// An instance is rendered as data:
//
//	bitwidth: 1
//	maxseq:   0
//	command:  "Run show"
//	filename: "/m.als"
//	sigs: {
//		univ: {flags: ["builtin"], atoms: []}
//		"this/A": {parent: "univ", atoms: ["a0", "a1"]}
//	}
//	fields: {
//		"this/A<:r": {types: ["this/A", "this/A"], tuples: [["a0", "a1"]]}
//	}
//	skolems: {}
//
// Numeric atoms are rendered as integers, all other atoms as strings.
package alloycue

import (
	"strconv"
	"strings"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/format"
	"cuelang.org/go/cue/token"

	"alloyviz.dev/go/alloy"
)

// Encode returns the CUE rendering of inst.
func Encode(inst *alloy.Instance) *ast.File {
	meta := inst.Meta()
	sigs := &ast.StructLit{}
	for _, s := range inst.Signatures() {
		sigs.Elts = append(sigs.Elts, field(s.ID(), signature(s)))
	}
	fields := &ast.StructLit{}
	for _, f := range inst.Fields() {
		fields.Elts = append(fields.Elts, field(f.String(), relation(f.Types(), f.Tuples())))
	}
	skolems := &ast.StructLit{}
	for _, s := range inst.Skolems() {
		skolems.Elts = append(skolems.Elts, field(s.ID(), relation(s.Types(), s.Tuples())))
	}
	return &ast.File{Decls: []ast.Decl{
		field("bitwidth", ast.NewLit(token.INT, strconv.Itoa(meta.Bitwidth))),
		field("maxseq", ast.NewLit(token.INT, strconv.Itoa(meta.MaxSeq))),
		field("command", ast.NewString(meta.Command)),
		field("filename", ast.NewString(meta.Filename)),
		field("sigs", sigs),
		field("fields", fields),
		field("skolems", skolems),
	}}
}

// Marshal returns the formatted CUE rendering of inst.
func Marshal(inst *alloy.Instance) ([]byte, error) {
	return format.Node(Encode(inst), format.Simplify())
}

// Bindings returns a struct with a field for each binding. The value of
// each field is the value of the bound entity as returned by Value.
func Bindings(bs []alloy.Binding) *ast.StructLit {
	s := &ast.StructLit{}
	for _, b := range bs {
		s.Elts = append(s.Elts, field(b.Name, Value(b.Entity)))
	}
	return s
}

// Value returns the value of an entity: an atom is a scalar, a signature
// the list of all its atoms, including those of its subtypes, and a field
// or skolem the list of its tuples.
func Value(e alloy.Entity) ast.Expr {
	switch x := e.(type) {
	case *alloy.Atom:
		return atom(x)
	case *alloy.Signature:
		return atoms(x.Atoms(true))
	case *alloy.Field:
		return tuples(x.Tuples())
	case *alloy.Skolem:
		return tuples(x.Tuples())
	}
	return &ast.BottomLit{}
}

func signature(s *alloy.Signature) *ast.StructLit {
	st := &ast.StructLit{}
	if p := s.Parent(); p != nil {
		st.Elts = append(st.Elts, field("parent", ast.NewString(p.ID())))
	}
	if f := s.Flags(); f != 0 {
		var names []ast.Expr
		for _, n := range strings.Fields(f.String()) {
			names = append(names, ast.NewString(n))
		}
		st.Elts = append(st.Elts, field("flags", ast.NewList(names...)))
	}
	st.Elts = append(st.Elts, field("atoms", atoms(s.Atoms(false))))
	return st
}

func relation(types []*alloy.Signature, ts []alloy.Tuple) *ast.StructLit {
	ids := make([]ast.Expr, len(types))
	for i, t := range types {
		ids[i] = ast.NewString(t.ID())
	}
	return &ast.StructLit{Elts: []ast.Decl{
		field("types", ast.NewList(ids...)),
		field("tuples", tuples(ts)),
	}}
}

func tuples(ts []alloy.Tuple) *ast.ListLit {
	l := &ast.ListLit{}
	for _, t := range ts {
		l.Elts = append(l.Elts, atoms(t.Atoms()))
	}
	return l
}

func atoms(as []*alloy.Atom) *ast.ListLit {
	l := &ast.ListLit{}
	for _, a := range as {
		l.Elts = append(l.Elts, atom(a))
	}
	return l
}

func atom(a *alloy.Atom) ast.Expr {
	if a.IsNumeric() {
		if n := a.ID(); strings.HasPrefix(n, "-") {
			return &ast.UnaryExpr{Op: token.SUB, X: ast.NewLit(token.INT, n[1:])}
		}
		return ast.NewLit(token.INT, a.ID())
	}
	return ast.NewString(a.ID())
}

// field returns a regular field. Labels that are not plain identifiers are
// quoted.
func field(name string, value ast.Expr) *ast.Field {
	return &ast.Field{Label: label(name), Value: value}
}

func label(name string) ast.Label {
	if ast.IsValidIdent(name) && !strings.HasPrefix(name, "_") && !strings.HasPrefix(name, "#") {
		return ast.NewIdent(name)
	}
	return ast.NewString(name)
}
