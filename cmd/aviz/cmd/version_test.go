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
	"runtime/debug"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestMainVersion(t *testing.T) {
	stamped := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "0123456789abcdef0123"},
		{Key: "vcs.time", Value: "2025-03-01T10:00:00Z"},
	}
	testCases := []struct {
		name   string
		linked string
		bi     debug.BuildInfo
		want   string
	}{{
		name:   "Linked",
		linked: "v1.2.3",
		bi:     debug.BuildInfo{Main: debug.Module{Version: "v0.1.0"}},
		want:   "v1.2.3",
	}, {
		name:   "Module",
		linked: develVersion,
		bi:     debug.BuildInfo{Main: debug.Module{Version: "v0.1.0"}, Settings: stamped},
		want:   "v0.1.0",
	}, {
		name:   "VCS",
		linked: develVersion,
		bi:     debug.BuildInfo{Main: debug.Module{Version: develVersion}, Settings: stamped},
		want:   "v0.0.0-20250301100000-0123456789ab",
	}, {
		name:   "Devel",
		linked: develVersion,
		want:   develVersion,
	}}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			qt.Check(t, qt.Equals(mainVersion(tc.linked, &tc.bi), tc.want))
		})
	}
}

func TestDepVersion(t *testing.T) {
	bi := &debug.BuildInfo{Deps: []*debug.Module{
		{Path: "cuelang.org/go", Version: "v0.8.2"},
		{Path: "golang.org/x/mod", Version: "v0.16.0", Replace: &debug.Module{Path: "../mod"}},
	}}
	qt.Check(t, qt.Equals(depVersion(bi, cueModule), "v0.8.2"))
	qt.Check(t, qt.Equals(depVersion(bi, "golang.org/x/mod"), develVersion))
	qt.Check(t, qt.Equals(depVersion(bi, "example.com/none"), "unknown"))
}
