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
	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"

	"alloyviz.dev/go/alloy"
)

func newProjectCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project file atom...",
		Short: "project an instance over atoms",
		Long: `project prints the instance that results from fixing each of the given
atoms for the top-level signature it belongs to.

In every field and skolem, the first column of each such signature is
matched against its atom: tuples holding a different atom are dropped,
and the column is removed from the others. Relations without remaining
columns are left out.

At most one atom may be given per top-level signature.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: mkRunE(c, runProject),
	}
	addInstanceFlags(cmd.Flags())
	return cmd
}

func runProject(cmd *Command, args []string) error {
	inst := loadInstance(cmd, args[0])
	atoms := make([]*alloy.Atom, 0, len(args)-1)
	for _, label := range args[1:] {
		a := inst.Atom(label)
		if a == nil {
			exitOnErr(cmd, alloy.Errorf(alloy.Structural, token.NoPos, "unknown atom %q", label), true)
		}
		atoms = append(atoms, a)
	}
	p, err := inst.Project(atoms...)
	exitOnErr(cmd, err, true)
	return alloy.Dump(cmd.OutOrStdout(), p)
}
