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
	"sync"
	"testing"

	"github.com/go-quicktest/qt"

	"alloyviz.dev/go/alloy"
)

func TestVarName(t *testing.T) {
	testCases := []struct {
		id   string
		want string
	}{
		{"this/A", "A"},
		{"A$0", "A$0"},
		{"util/ordering/Ord", "util$ordering$Ord"},
		{"this/A/B", "A$B"},
		{"seq/Int", "seq$Int"},
		{"$show_a", "$show_a"},
		{"-1", "$_1"},
		{"3", "$3"},
		{"int", "$int"},
		{"_x", "$_x"},
		{"#d", "$_d"},
		{"a b", "a_b"},
		{"x'", "x_"},
		{"", "$"},
	}
	for _, tc := range testCases {
		qt.Check(t, qt.Equals(alloy.VarName(tc.id), tc.want), qt.Commentf("id %q", tc.id))
	}
	qt.Check(t, qt.Equals(alloy.QualifiedName("this/A", "r"), "A$r"))
}

func TestProxyBind(t *testing.T) {
	p := alloy.NewProxy()
	a1 := alloy.NewSignature("this/A", 0, "A$0")
	a2 := alloy.NewSignature("this/A", 0)
	a3 := alloy.NewSignature("this/A", 0)
	atom := a1.Atom("A$0")

	qt.Check(t, qt.Equals(p.Bind(atom), "A$0"))
	qt.Check(t, qt.Equals(p.Bind(atom), "A$0"))
	qt.Check(t, qt.Equals(p.Bind(a1), "A"))
	qt.Check(t, qt.Equals(p.Bind(a2), "A$2"))
	qt.Check(t, qt.Equals(p.Bind(a3), "A$3"))
	qt.Check(t, qt.Equals(p.Bind(a2), "A$2"))
	qt.Check(t, qt.Equals(p.Len(), 4))

	f := alloy.NewField("r", a1, []*alloy.Signature{a1, a1}, nil)
	qt.Check(t, qt.Equals(p.BindAs(f, alloy.QualifiedName("this/A", "r")), "A$r"))
	qt.Check(t, qt.Equals(p.BindAs(f, "other"), "A$r"))

	_, ok := p.Name(alloy.NewSignature("this/B", 0))
	qt.Check(t, qt.IsFalse(ok))

	// Another proxy starts afresh.
	q := alloy.NewProxy()
	qt.Check(t, qt.Equals(q.Bind(a3), "A"))
}

func TestProxyConcurrentBind(t *testing.T) {
	p := alloy.NewProxy()
	s := alloy.NewSignature("this/A", 0)
	names := make([]string, 16)
	var wg sync.WaitGroup
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			names[i] = p.Bind(s)
		}(i)
	}
	wg.Wait()
	for _, n := range names {
		qt.Check(t, qt.Equals(n, "A"))
	}
}

func TestBindings(t *testing.T) {
	inst := newInstance(t)
	var got []string
	for _, b := range inst.Proxy().Bindings(inst) {
		got = append(got, b.Name)
		name, ok := inst.Proxy().Name(b.Entity)
		qt.Check(t, qt.IsTrue(ok))
		qt.Check(t, qt.Equals(name, b.Name))
	}
	qt.Check(t, qt.DeepEquals(got, []string{
		"univ", "Int", "A", "A1", "B",
		"A$0", "A$1", "A1$0", "B$0", "B$1",
		"r", "s", "self",
		"$x", "$n",
	}))
}
