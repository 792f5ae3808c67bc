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
	"os"
	"runtime"

	"cuelang.org/go/cue"
	"github.com/spf13/cobra"

	"alloyviz.dev/go/internal/avizdebug"
	"alloyviz.dev/go/internal/sandbox"
)

func newEvalCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval [--project atom]... [--lib file]... file script.cue...",
		Short: "evaluate CUE scripts against an instance",
		Long: `eval evaluates each script with the entities of the instance in scope
and prints the result, which must be concrete.

	$ cat count.cue
	n: len(A)
	$ aviz eval m.xml count.cue
	n: 2

With --project, each script sees the instance projected over the given
atoms, as printed by 'aviz project'. Files given with --lib are unified
with every script and see the same variables.

Scripts are evaluated concurrently; see AVIZ_DEBUG=parallel in 'aviz help'.
`,
		Args: cobra.MinimumNArgs(2),
		RunE: mkRunE(c, runEval),
	}
	addInstanceFlags(cmd.Flags())
	addOutFlags(cmd.Flags(), "cue")
	cmd.Flags().StringArray(string(flagProject), nil, "project over the atom with this label")
	cmd.Flags().StringArray(string(flagLib), nil, "unify this CUE file with every script")
	return cmd
}

func runEval(cmd *Command, args []string) error {
	inst := loadInstance(cmd, args[0])

	var opts []sandbox.Option
	for _, lib := range flagLib.StringArray(cmd) {
		b, err := os.ReadFile(lib)
		exitOnErr(cmd, err, true)
		opts = append(opts, sandbox.WithLibrary(lib, string(b)))
	}
	h := sandbox.NewHost(sandbox.New(opts...))
	h.Update(inst)

	project := flagProject.StringArray(cmd)
	jobs := make([]sandbox.Job, 0, len(args)-1)
	for _, f := range args[1:] {
		b, err := os.ReadFile(f)
		exitOnErr(cmd, err, true)
		jobs = append(jobs, sandbox.Job{Project: project, Filename: f, Script: string(b)})
	}

	limit := avizdebug.Flags.Parallel
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	results, err := h.RunAll(cmd.Context(), jobs, limit)
	exitOnErr(cmd, err, true)

	out := flagOut.String(cmd)
	w := cmd.OutOrStdout()
	var stream []cue.Value
	for _, r := range results {
		if r.Err != nil {
			exitOnErr(cmd, r.Err, false)
			continue
		}
		switch {
		case len(results) == 1:
		case out == "yaml":
			stream = append(stream, r.Value)
			continue
		case out == "cue":
			fmt.Fprintf(w, "// %s\n", r.Job.Filename)
		}
		if err := writeValue(w, r.Value, out); err != nil {
			return err
		}
	}
	if len(stream) > 0 {
		return writeYAMLStream(w, stream)
	}
	return nil
}
