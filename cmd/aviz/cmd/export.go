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
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/cobra"

	"alloyviz.dev/go/encoding/alloycue"
)

func newExportCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [--out cue|json|yaml] file",
		Short: "output an instance as data",
		Long: `export converts an instance to CUE, JSON or YAML.

The result holds the scalar properties of the instance and one entry per
signature, field and skolem:

	bitwidth: 4
	maxseq:   4
	command:  "Run show"
	filename: "/m.als"
	sigs: {
		univ: {flags: ["builtin"], atoms: []}
		"this/A": {parent: "univ", atoms: ["A$0"]}
	}
	fields: {
		"this/A<:r": {types: ["this/A", "this/A"], tuples: [["A$0", "A$0"]]}
	}
	skolems: {}
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, runExport),
	}
	addInstanceFlags(cmd.Flags())
	addOutFlags(cmd.Flags(), "cue")
	return cmd
}

func runExport(cmd *Command, args []string) error {
	inst := loadInstance(cmd, args[0])
	out := flagOut.String(cmd)
	if out == "cue" {
		b, err := alloycue.Marshal(inst)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}
	v := cuecontext.New().BuildFile(alloycue.Encode(inst))
	exitOnErr(cmd, v.Err(), true)
	return writeValue(cmd.OutOrStdout(), v, out)
}
