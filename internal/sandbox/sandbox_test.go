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

package sandbox_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"cuelang.org/go/cue"
	"github.com/go-quicktest/qt"

	"alloyviz.dev/go/alloy"
	"alloyviz.dev/go/encoding/alloyxml"
	"alloyviz.dev/go/internal/sandbox"
)

const instanceXML = `<alloy>
<instance bitwidth="2" maxseq="0" command="Run show" filename="/m.als">
<sig label="univ" ID="2" builtin="yes"/>
<sig label="Int" ID="1" parentID="2" builtin="yes"/>
<sig label="this/A" ID="4" parentID="2"><atom label="a0"/><atom label="a1"/></sig>
<field label="r" ID="5" parentID="4">
  <tuple><atom label="a0"/><atom label="a1"/></tuple>
  <types><type ID="4"/><type ID="4"/></types>
</field>
<skolem label="$show_n" ID="6">
  <tuple><atom label="1"/></tuple>
  <types><type ID="1"/></types>
</skolem>
</instance>
</alloy>`

func parse(t *testing.T) *alloy.Instance {
	t.Helper()
	inst, err := alloyxml.Parse("m.xml", []byte(instanceXML))
	qt.Assert(t, qt.IsNil(err))
	return inst
}

func lookup(t *testing.T, v cue.Value, path string) cue.Value {
	t.Helper()
	x := v.LookupPath(cue.ParsePath(path))
	qt.Assert(t, qt.IsNil(x.Err()))
	return x
}

func TestRun(t *testing.T) {
	sb := sandbox.New()
	v, err := sb.Run(context.Background(), parse(t), "show.cue", `
n:     len(A)
pairs: len(r)
src:   r[0][0]
num:   $show_n[0][0] + 1
`)
	qt.Assert(t, qt.IsNil(err))
	n, err := lookup(t, v, "n").Int64()
	qt.Check(t, qt.IsNil(err))
	qt.Check(t, qt.Equals(n, int64(2)))
	pairs, _ := lookup(t, v, "pairs").Int64()
	qt.Check(t, qt.Equals(pairs, int64(1)))
	src, _ := lookup(t, v, "src").String()
	qt.Check(t, qt.Equals(src, "a0"))
	num, _ := lookup(t, v, "num").Int64()
	qt.Check(t, qt.Equals(num, int64(2)))
}

func TestRunErrors(t *testing.T) {
	inst := parse(t)
	sb := sandbox.New()
	ctx := context.Background()

	_, err := sb.Run(ctx, inst, "open.cue", `x: int`)
	qt.Check(t, qt.ErrorMatches(err, `.*incomplete value int.*`))

	_, err = sb.Run(ctx, inst, "undefined.cue", `x: B`)
	qt.Check(t, qt.ErrorMatches(err, `.*reference "B" not found.*`))

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sb.Run(cctx, inst, "x.cue", `x: 1`)
	qt.Check(t, qt.ErrorIs(err, context.Canceled))
}

func TestLibrary(t *testing.T) {
	inst := parse(t)
	sb := sandbox.New(sandbox.WithLibrary("lib.cue", `size: len(A)`))
	ctx := context.Background()

	v, err := sb.Run(ctx, inst, "ok.cue", `size: 2, twice: size * 2`)
	qt.Assert(t, qt.IsNil(err))
	twice, _ := lookup(t, v, "twice").Int64()
	qt.Check(t, qt.Equals(twice, int64(4)))

	_, err = sb.Run(ctx, inst, "conflict.cue", `size: 3`)
	qt.Check(t, qt.ErrorMatches(err, `.*conflicting values.*`))
}

func TestHost(t *testing.T) {
	var logs strings.Builder
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := sandbox.NewHost(sandbox.New(sandbox.WithLogger(logger)))
	ctx := context.Background()

	_, err := h.Run(ctx, nil, "x.cue", `x: 1`)
	qt.Check(t, qt.ErrorIs(err, sandbox.ErrNoInstance))

	inst := parse(t)
	h.Update(inst)
	qt.Check(t, qt.Equals(h.Current(), inst))

	v, err := h.Run(ctx, []string{"a0"}, "proj.cue", `next: r[0][0], arity: len(r[0])`)
	qt.Assert(t, qt.IsNil(err))
	next, _ := lookup(t, v, "next").String()
	qt.Check(t, qt.Equals(next, "a1"))
	arity, _ := lookup(t, v, "arity").Int64()
	qt.Check(t, qt.Equals(arity, int64(1)))

	// The current instance is not affected by projection.
	qt.Check(t, qt.Equals(inst.Field("r").Arity(), 2))

	_, err = h.Run(ctx, []string{"zz"}, "proj.cue", `x: 1`)
	qt.Check(t, qt.ErrorMatches(err, `unknown atom "zz"`))

	qt.Check(t, qt.StringContains(logs.String(), "msg=\"run started\""))
	qt.Check(t, qt.StringContains(logs.String(), "file=proj.cue"))

	h.Update(nil)
	qt.Check(t, qt.IsNil(h.Current()))
	_, err = h.Run(ctx, nil, "x.cue", `x: 1`)
	qt.Check(t, qt.ErrorIs(err, sandbox.ErrNoInstance))
	qt.Check(t, qt.StringContains(logs.String(), "msg=\"instance cleared\""))
}

func TestRunAll(t *testing.T) {
	h := sandbox.NewHost(sandbox.New())
	h.Update(parse(t))
	jobs := []sandbox.Job{
		{Filename: "a.cue", Script: `n: len(A)`},
		{Filename: "b.cue", Script: `n: len(r)`, Project: []string{"a1"}},
		{Filename: "c.cue", Script: `n: string`},
		{Filename: "d.cue", Script: `n: len(Int)`},
	}
	results, err := h.RunAll(context.Background(), jobs, 2)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.HasLen(results, len(jobs)))

	want := []int64{2, 0, -1, 4}
	for i, r := range results {
		qt.Check(t, qt.Equals(r.Job.Filename, jobs[i].Filename))
		if want[i] < 0 {
			qt.Check(t, qt.IsNotNil(r.Err))
			continue
		}
		qt.Assert(t, qt.IsNil(r.Err))
		n, err := lookup(t, r.Value, "n").Int64()
		qt.Check(t, qt.IsNil(err))
		qt.Check(t, qt.Equals(n, want[i]))
	}
}

func TestRunAllCanceled(t *testing.T) {
	h := sandbox.NewHost(sandbox.New())
	h.Update(parse(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := h.RunAll(ctx, []sandbox.Job{{Filename: "a.cue", Script: `n: 1`}}, 0)
	qt.Check(t, qt.ErrorIs(err, context.Canceled))
	qt.Check(t, qt.IsTrue(errors.Is(results[0].Err, context.Canceled)))
}
