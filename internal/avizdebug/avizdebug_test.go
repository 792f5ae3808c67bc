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

package avizdebug

import (
	"strings"
	"testing"

	"github.com/go-quicktest/qt"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		env     string
		want    Config
		wantErr string
	}{{
		env:  "",
		want: Config{},
	}, {
		env:  "log",
		want: Config{Log: true},
	}, {
		env:  "Strict=1,sortitems=true",
		want: Config{Strict: true, SortItems: true},
	}, {
		env:  ",log,,parallel=4",
		want: Config{Log: true, Parallel: 4},
	}, {
		env:     "parallel",
		wantErr: `value needed for int flag "parallel"`,
	}, {
		env:     "log=maybe",
		wantErr: `invalid bool value for log: .*`,
	}, {
		env:     "foo,strict",
		want:    Config{Strict: true},
		wantErr: `unknown flag "foo"`,
	}}
	for _, tc := range testCases {
		t.Run(tc.env, func(t *testing.T) {
			var cfg Config
			cfg.Log = true // reset by Parse
			err := Parse(&cfg, tc.env)
			if tc.wantErr != "" {
				qt.Assert(t, qt.ErrorMatches(err, tc.wantErr))
				if tc.want != (Config{}) {
					qt.Check(t, qt.Equals(cfg, tc.want))
				}
				return
			}
			qt.Assert(t, qt.IsNil(err))
			qt.Check(t, qt.Equals(cfg, tc.want))
		})
	}
}

func TestNewLogger(t *testing.T) {
	var b strings.Builder
	NewLogger(&b, Config{}).Debug("hidden")
	qt.Check(t, qt.Equals(b.String(), ""))

	NewLogger(&b, Config{Log: true}).Debug("shown", "n", 1)
	qt.Check(t, qt.StringContains(b.String(), "msg=shown n=1"))
}
