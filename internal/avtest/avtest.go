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

// Package avtest is a helper package for tests in this module.
// As such it should only be imported in _test.go files.
package avtest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rogpeppe/go-internal/txtar"
)

// UpdateGoldenFiles determines whether golden files and testscript archives
// should be updated on comparison failures. It corresponds to
// testscript.Params.UpdateGoldenFiles.
var UpdateGoldenFiles = os.Getenv("AVIZ_UPDATE") != ""

// Condition adds support for module specific testscript conditions.
func Condition(cond string) (bool, error) {
	switch cond {
	case "windows":
		return runtime.GOOS == "windows", nil
	}
	return false, fmt.Errorf("unknown condition %v", cond)
}

// A TxTarTest runs a function over every .txtar archive in a directory and
// compares its result with the golden file "out/<Name>" in the archive.
type TxTarTest struct {
	// Root is the directory holding the archives.
	Root string

	// Name selects the golden file out/<Name>.
	Name string

	// Update rewrites the golden file on mismatch.
	Update bool
}

// Test is the state of a single archive run.
type Test struct {
	*testing.T
	Archive *txtar.Archive
	Path    string
}

// File returns the contents of the named file in the archive.
func (t *Test) File(name string) ([]byte, bool) {
	for _, f := range t.Archive.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

// Run runs f on each archive. f writes its output to the given buffer.
func (x *TxTarTest) Run(t *testing.T, f func(t *Test, out *bytes.Buffer)) {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join(x.Root, "*.txtar"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatalf("no txtar archives in %s", x.Root)
	}
	golden := "out/" + x.Name
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), ".txtar")
		t.Run(name, func(t *testing.T) {
			a, err := txtar.ParseFile(p)
			if err != nil {
				t.Fatal(err)
			}
			tc := &Test{T: t, Archive: a, Path: p}
			var out bytes.Buffer
			f(tc, &out)

			got := out.Bytes()
			want, ok := tc.File(golden)
			if ok && bytes.Equal(got, want) {
				return
			}
			if !x.Update && !UpdateGoldenFiles {
				if !ok {
					t.Fatalf("missing %s; rerun with AVIZ_UPDATE=1", golden)
				}
				t.Fatalf("result for %s differs: (-want +got)\n%s", golden, cmp.Diff(string(want), string(got)))
			}
			setFile(a, golden, got)
			if err := os.WriteFile(p, txtar.Format(a), 0o666); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func setFile(a *txtar.Archive, name string, data []byte) {
	for i, f := range a.Files {
		if f.Name == name {
			a.Files[i].Data = data
			return
		}
	}
	a.Files = append(a.Files, txtar.File{Name: name, Data: data})
}
