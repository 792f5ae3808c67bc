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
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"alloyviz.dev/go/alloy"
	"alloyviz.dev/go/internal/avizdebug"
)

func newInspectCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [--items] file",
		Short: "print an instance",
		Long: `inspect prints the signature tree, fields and skolems of an instance.

With --items, inspect lists one line per signature, field and skolem
instead, giving its kind, variable name, id and arity.
`,
		Args: cobra.ExactArgs(1),
		RunE: mkRunE(c, runInspect),
	}
	addInstanceFlags(cmd.Flags())
	cmd.Flags().Bool(string(flagItems), false, "list signatures, fields and skolems")
	return cmd
}

func runInspect(cmd *Command, args []string) error {
	inst := loadInstance(cmd, args[0])
	w := cmd.OutOrStdout()
	if !flagItems.Bool(cmd) {
		return alloy.Dump(w, inst)
	}

	items := inst.Items()
	if avizdebug.Flags.SortItems {
		slices.SortStableFunc(items, func(a, b alloy.Item) int {
			return strings.Compare(a.ID(), b.ID())
		})
	}
	tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', 0)
	for _, it := range items {
		name, _ := inst.Proxy().Name(it.Entity())
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", it.Kind(), name, it.ID(), it.Arity())
	}
	return tw.Flush()
}
