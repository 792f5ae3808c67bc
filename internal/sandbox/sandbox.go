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

// Package sandbox evaluates CUE scripts against Alloy instances. Every
// signature, atom, field and skolem of the instance is in scope under the
// variable name its proxy assigns to it.
package sandbox

import (
	"context"
	"log/slog"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"alloyviz.dev/go/alloy"
	"alloyviz.dev/go/encoding/alloycue"
	"alloyviz.dev/go/internal/avizdebug"
)

// A Sandbox evaluates scripts. It is safe for concurrent use: every run
// uses its own CUE context.
type Sandbox struct {
	libs   []library
	logger *slog.Logger
}

// A library is a CUE source unified with every script.
type library struct {
	filename string
	src      string
}

// An Option configures a Sandbox.
type Option func(*Sandbox)

// WithLibrary adds a CUE source that is unified with every script. It sees
// the same bindings as the script.
func WithLibrary(filename, src string) Option {
	return func(s *Sandbox) {
		s.libs = append(s.libs, library{filename, src})
	}
}

// WithLogger sets the logger used for debug output. By default the logger
// of avizdebug is used.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sandbox) { s.logger = l }
}

// New returns a Sandbox configured with the given options.
func New(opts ...Option) *Sandbox {
	s := &Sandbox{}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = avizdebug.Logger()
	}
	return s
}

// Run compiles script with the entities of inst in scope, unifies it with
// the libraries of s and returns the result. The result must be concrete.
func (s *Sandbox) Run(ctx context.Context, inst *alloy.Instance, filename, script string) (cue.Value, error) {
	if err := ctx.Err(); err != nil {
		return cue.Value{}, err
	}
	bindings := inst.Proxy().Bindings(inst)
	s.logger.DebugContext(ctx, "compiling script", "file", filename, "bindings", len(bindings))

	cctx := cuecontext.New()
	scope := cctx.BuildExpr(alloycue.Bindings(bindings))
	if err := scope.Err(); err != nil {
		return cue.Value{}, err
	}
	v := cctx.CompileString(script, cue.Filename(filename), cue.Scope(scope))
	for _, l := range s.libs {
		v = v.Unify(cctx.CompileString(l.src, cue.Filename(l.filename), cue.Scope(scope)))
	}
	if err := v.Err(); err != nil {
		return cue.Value{}, err
	}
	if err := ctx.Err(); err != nil {
		return cue.Value{}, err
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return cue.Value{}, err
	}
	return v, nil
}
