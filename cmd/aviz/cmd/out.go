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
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// writeValue writes v in the given format. v must be concrete.
func writeValue(w io.Writer, v cue.Value, out string) error {
	var b []byte
	var err error
	switch out {
	case "cue":
		n := v.Syntax(cue.Final(), cue.Concrete(true))
		if s, ok := n.(*ast.StructLit); ok {
			n = &ast.File{Decls: s.Elts}
		}
		b, err = format.Node(n, format.Simplify())
	case "json":
		var raw []byte
		if raw, err = v.MarshalJSON(); err != nil {
			return err
		}
		var buf bytes.Buffer
		if err = json.Indent(&buf, raw, "", "    "); err == nil {
			buf.WriteByte('\n')
			b = buf.Bytes()
		}
	case "yaml":
		b, err = cueyaml.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", out)
	}
	if err != nil {
		return err
	}
	return writeBytes(w, b)
}

// writeYAMLStream writes vs as a single YAML stream. The values may belong
// to different runtimes, so they are rebuilt in a new one first.
func writeYAMLStream(w io.Writer, vs []cue.Value) error {
	list := &ast.ListLit{}
	for _, v := range vs {
		x, ok := v.Syntax(cue.Final(), cue.Concrete(true)).(ast.Expr)
		if !ok {
			return fmt.Errorf("cannot encode %v value as YAML", v.Kind())
		}
		list.Elts = append(list.Elts, x)
	}
	lv := cuecontext.New().BuildExpr(list)
	iter, err := lv.List()
	if err != nil {
		return err
	}
	b, err := cueyaml.EncodeStream(iter)
	if err != nil {
		return err
	}
	return writeBytes(w, b)
}

func writeBytes(w io.Writer, b []byte) error {
	if len(b) > 0 && b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	_, err := w.Write(b)
	return err
}
