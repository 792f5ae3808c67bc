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

package alloy_test

import (
	"testing"

	"github.com/go-quicktest/qt"

	"alloyviz.dev/go/alloy"
)

// atoms returns fresh atoms with the given labels, indexed by label.
func atoms(labels ...string) map[string]*alloy.Atom {
	s := alloy.NewSignature("S", 0, labels...)
	m := make(map[string]*alloy.Atom)
	for _, a := range s.Atoms(false) {
		m[a.ID()] = a
	}
	return m
}

// rel builds a relation from tuples written as label lists.
func rel(m map[string]*alloy.Atom, tuples ...[]string) *alloy.Relation {
	var ts []alloy.Tuple
	for _, labels := range tuples {
		var as []*alloy.Atom
		for _, l := range labels {
			as = append(as, m[l])
		}
		ts = append(ts, alloy.NewTuple(as...))
	}
	return alloy.NewRelation(ts...)
}

func TestJoin(t *testing.T) {
	m := atoms("a", "b", "c", "d", "x", "y")
	testCases := []struct {
		name  string
		left  *alloy.Relation
		right *alloy.Relation
		want  string
		arity int
	}{{
		name:  "BinaryBinary",
		left:  rel(m, []string{"a", "b"}, []string{"c", "d"}),
		right: rel(m, []string{"b", "x"}, []string{"d", "y"}, []string{"a", "y"}),
		want:  "{(a, x), (c, y)}",
		arity: 2,
	}, {
		name:  "UnaryBinary",
		left:  rel(m, []string{"a"}, []string{"c"}),
		right: rel(m, []string{"a", "b"}, []string{"b", "c"}, []string{"c", "d"}),
		want:  "{(b), (d)}",
		arity: 1,
	}, {
		name:  "BinaryUnary",
		left:  rel(m, []string{"a", "b"}, []string{"c", "d"}),
		right: rel(m, []string{"d"}),
		want:  "{(c)}",
		arity: 1,
	}, {
		name:  "TernaryBinary",
		left:  rel(m, []string{"a", "b", "c"}),
		right: rel(m, []string{"c", "x"}, []string{"c", "y"}),
		want:  "{(a, b, x), (a, b, y)}",
		arity: 3,
	}, {
		name:  "Deduplicated",
		left:  rel(m, []string{"a", "b"}, []string{"a", "c"}),
		right: rel(m, []string{"b", "x"}, []string{"c", "x"}),
		want:  "{(a, x)}",
		arity: 2,
	}, {
		name:  "NoMatch",
		left:  rel(m, []string{"a", "b"}),
		right: rel(m, []string{"c", "d"}),
		want:  "{}",
		arity: 2,
	}, {
		name:  "EmptyLeft",
		left:  alloy.NewRelation(),
		right: rel(m, []string{"c", "d"}),
		want:  "{}",
		arity: 0,
	}, {
		name:  "EmptyRight",
		left:  rel(m, []string{"a"}),
		right: alloy.NewRelation(),
		want:  "{}",
		arity: 0,
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.left.Join(tc.right)
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.Equals(got.String(), tc.want))
			qt.Check(t, qt.Equals(got.Arity(), tc.arity))
			for _, u := range got.Tuples() {
				qt.Check(t, qt.Equals(u.Arity(), tc.left.Arity()+tc.right.Arity()-2))
			}
		})
	}
}

func TestJoinUnaryUnary(t *testing.T) {
	m := atoms("a", "b")
	_, err := rel(m, []string{"a"}).Join(rel(m, []string{"a"}, []string{"b"}))
	qt.Assert(t, qt.ErrorIs(err, alloy.ErrStructural))

	// Also rejected when no tuples would match.
	_, err = rel(m, []string{"a"}).Join(rel(m, []string{"b"}))
	qt.Assert(t, qt.ErrorIs(err, alloy.ErrStructural))
}

func TestIn(t *testing.T) {
	m := atoms("a", "b", "c")
	ab := rel(m, []string{"a", "b"})
	all := rel(m, []string{"b", "c"}, []string{"a", "b"})
	qt.Check(t, qt.IsTrue(ab.In(all)))
	qt.Check(t, qt.IsFalse(all.In(ab)))
	qt.Check(t, qt.IsTrue(alloy.NewRelation().In(ab)))
	qt.Check(t, qt.IsFalse(rel(m, []string{"b", "a"}).In(all)))
}

func TestEqual(t *testing.T) {
	m := atoms("a", "b")
	x := rel(m, []string{"a"}, []string{"b"})
	y := rel(m, []string{"b"}, []string{"a"})
	qt.Check(t, qt.IsTrue(x.Equal(rel(m, []string{"a"}, []string{"b"}))))
	qt.Check(t, qt.IsFalse(x.Equal(y)))
	qt.Check(t, qt.IsTrue(x.SameSet(y)))
	qt.Check(t, qt.IsFalse(x.SameSet(rel(m, []string{"a"}))))
}

func TestUnion(t *testing.T) {
	m := atoms("a", "b", "c")
	u, err := rel(m, []string{"a"}, []string{"b"}).Union(rel(m, []string{"b"}, []string{"c"}))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(u.String(), "{(a), (b), (c)}"))

	u, err = alloy.NewRelation().Union(rel(m, []string{"a", "b"}))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(u.Arity(), 2))

	_, err = rel(m, []string{"a"}).Union(rel(m, []string{"a", "b"}))
	qt.Check(t, qt.ErrorIs(err, alloy.ErrStructural))

	// An empty relation keeps its arity.
	empty, err := rel(m, []string{"a", "b"}).Join(rel(m, []string{"c", "a"}))
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.IsTrue(empty.Empty()))
	qt.Check(t, qt.Equals(empty.Arity(), 2))
	_, err = empty.Union(rel(m, []string{"a"}))
	qt.Check(t, qt.ErrorIs(err, alloy.ErrStructural))
	_, err = rel(m, []string{"a"}).Union(empty)
	qt.Check(t, qt.ErrorIs(err, alloy.ErrStructural))

	u, err = empty.Union(rel(m, []string{"b", "c"}))
	qt.Assert(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(u.String(), "{(b, c)}"))
}

func TestTuple(t *testing.T) {
	m := atoms("a", "b")
	tu := alloy.NewTuple(m["a"], m["b"])
	qt.Check(t, qt.Equals(tu.Arity(), 2))
	qt.Check(t, qt.Equals(tu.String(), "(a, b)"))
	qt.Check(t, qt.IsTrue(tu.Equal(alloy.NewTuple(m["a"], m["b"]))))
	qt.Check(t, qt.IsFalse(tu.Equal(alloy.NewTuple(m["b"], m["a"]))))
	qt.Check(t, qt.IsTrue(tu.Relation().Contains(tu)))
	qt.Check(t, qt.Equals(m["a"].Relation().String(), "{(a)}"))

	// Modifying the returned atoms does not affect the tuple.
	as := tu.Atoms()
	as[0] = m["b"]
	qt.Check(t, qt.Equals(tu.Atom(0), m["a"]))
}

func TestMixedArityPanics(t *testing.T) {
	m := atoms("a", "b")
	qt.Check(t, qt.PanicMatches(func() {
		rel(m, []string{"a"}, []string{"a", "b"})
	}, "alloy: mixed arity in relation"))
	qt.Check(t, qt.PanicMatches(func() {
		alloy.NewTuple()
	}, "alloy: tuple must have at least one atom"))
}
