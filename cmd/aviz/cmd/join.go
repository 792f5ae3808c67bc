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

package cmd

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"alloyviz.dev/go/alloy"
)

func newJoinCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "join file name...",
		Short: "compute a relational join",
		Long: `join prints the relational join of the named relations, from left to
right. A name selects, in order of preference, a signature by id, a field
by label or by "sig<:label", a skolem by label, or an atom by label.

For example, 'aviz join m.xml A$0 r' prints the atoms A$0 is related to
by field r.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: mkRunE(c, runJoin),
	}
	addInstanceFlags(cmd.Flags())
	return cmd
}

func runJoin(cmd *Command, args []string) error {
	inst := loadInstance(cmd, args[0])
	var res *alloy.Relation
	for _, name := range args[1:] {
		r := lookupRelation(inst, name)
		if r == nil {
			exitOnErr(cmd, alloy.Errorf(alloy.Structural, token.NoPos, "unknown relation %q", name), true)
		}
		if res == nil {
			res = r
			continue
		}
		var err error
		res, err = res.Join(r)
		exitOnErr(cmd, err, true)
	}
	w := cmd.OutOrStdout()
	if res.Empty() {
		_, err := fmt.Fprintln(w, "{}")
		return err
	}
	for _, t := range res.Tuples() {
		labels := make([]string, t.Arity())
		for i, a := range t.Atoms() {
			labels[i] = a.ID()
		}
		if _, err := fmt.Fprintln(w, strings.Join(labels, " ")); err != nil {
			return err
		}
	}
	return nil
}

func lookupRelation(inst *alloy.Instance, name string) *alloy.Relation {
	if s := inst.Signature(name); s != nil {
		return s.Relation(true)
	}
	if f := inst.Field(name); f != nil {
		return f.Relation()
	}
	if s := inst.Skolem(name); s != nil {
		return s.Relation()
	}
	if a := inst.Atom(name); a != nil {
		return a.Relation()
	}
	return nil
}
