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
	"errors"
	"fmt"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/mod/module"
)

func newVersionCmd(c *Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "print aviz version",
		Long: `version prints the version of aviz, the version of the CUE evaluator
that runs scripts, and the settings aviz was built with.
`,
		RunE: mkRunE(c, runVersion),
	}
	return cmd
}

const (
	develVersion = "(devel)"
	cueModule    = "cuelang.org/go"
)

// version may be set with
// -ldflags='-X alloyviz.dev/go/cmd/aviz/cmd.version=<version>'.
var version = develVersion

func runVersion(cmd *Command, args []string) error {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("no build information in binary")
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "aviz version %s\n", mainVersion(version, bi))
	fmt.Fprintf(w, "cue version %s\n", depVersion(bi, cueModule))
	fmt.Fprintf(w, "go version %s\n\n", runtime.Version())
	for _, s := range bi.Settings {
		if s.Value != "" {
			fmt.Fprintf(w, "%16s %s\n", s.Key, s.Value)
		}
	}
	return nil
}

// mainVersion returns the version of the main module. A version set at
// link time wins over the module version, which wins over a pseudo-version
// made from the VCS stamp.
func mainVersion(linked string, bi *debug.BuildInfo) string {
	if linked != develVersion {
		return linked
	}
	if v := bi.Main.Version; v != "" && v != develVersion {
		return v
	}
	var (
		rev string
		at  time.Time
	)
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.time":
			at, _ = time.Parse(time.RFC3339Nano, s.Value)
		}
	}
	if rev == "" {
		return develVersion
	}
	if len(rev) > 12 {
		rev = rev[:12]
	}
	return module.PseudoVersion("", "", at, rev)
}

// depVersion returns the version of the dependency with the given path,
// following replacements.
func depVersion(bi *debug.BuildInfo, path string) string {
	for _, m := range bi.Deps {
		if m.Path != path {
			continue
		}
		if m.Replace != nil {
			m = m.Replace
		}
		if m.Version == "" {
			return develVersion
		}
		return m.Version
	}
	return "unknown"
}
