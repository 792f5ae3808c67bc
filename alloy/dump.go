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
	"fmt"
	"io"
	"strings"
)

// Dump writes a textual rendering of inst to w. Signatures reachable from
// univ are printed as a tree; other signatures follow as separate roots.
func Dump(w io.Writer, inst *Instance) error {
	d := &dumper{w: w}
	m := inst.meta
	d.printf("instance bitwidth=%d maxseq=%d command=%q filename=%q\n",
		m.Bitwidth, m.MaxSeq, m.Command, m.Filename)

	printed := make(map[*Signature]bool)
	for _, s := range inst.sigs {
		if s.forest.sigs[0] != s {
			continue // printed as part of its root's tree
		}
		d.sig(s, 0, printed)
	}
	for _, f := range inst.fields {
		d.relation("field", f.String(), &f.typedSet)
	}
	for _, s := range inst.skolems {
		d.relation("skolem", s.String(), &s.typedSet)
	}
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) printf(format string, args ...interface{}) {
	if d.err == nil {
		_, d.err = fmt.Fprintf(d.w, format, args...)
	}
}

func (d *dumper) sig(s *Signature, depth int, printed map[*Signature]bool) {
	if printed[s] {
		return
	}
	printed[s] = true
	d.printf("%ssig %s", strings.Repeat("  ", depth), s.id)
	if s.flags != 0 {
		d.printf(" [%s]", s.flags)
	}
	if len(s.atoms) > 0 {
		labels := make([]string, len(s.atoms))
		for i, a := range s.atoms {
			labels[i] = a.label
		}
		d.printf(": %s", strings.Join(labels, " "))
	}
	d.printf("\n")
	for _, c := range s.SubSignatures(false) {
		d.sig(c, depth+1, printed)
	}
}

func (d *dumper) relation(kind, name string, t *typedSet) {
	types := make([]string, len(t.types))
	for i, typ := range t.types {
		types[i] = typ.id
	}
	d.printf("%s %s (%s)", kind, name, strings.Join(types, ", "))
	if len(t.tuples) > 0 {
		d.printf(": ")
		for i, u := range t.tuples {
			if i > 0 {
				d.printf(" ")
			}
			d.printf("%s", u)
		}
	}
	d.printf("\n")
}
