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

package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"cuelang.org/go/cue"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"alloyviz.dev/go/alloy"
)

// ErrNoInstance is returned by Host.Run if no instance has been loaded.
var ErrNoInstance = errors.New("no instance loaded")

// A Host runs scripts against the instance it currently holds. The
// instance may be replaced at any time; runs in progress keep the instance
// they started with.
type Host struct {
	sb     *Sandbox
	cur    atomic.Pointer[alloy.Instance]
	logger *slog.Logger
}

// NewHost returns a Host that evaluates scripts with sb.
func NewHost(sb *Sandbox) *Host {
	return &Host{sb: sb, logger: sb.logger}
}

// Update replaces the current instance. A nil instance clears it, after
// which Run reports ErrNoInstance.
func (h *Host) Update(inst *alloy.Instance) {
	h.cur.Store(inst)
	if inst == nil {
		h.logger.Debug("instance cleared")
		return
	}
	h.logger.Debug("instance updated", "command", inst.Command(), "atoms", len(inst.Atoms()))
}

// Current returns the current instance, or nil.
func (h *Host) Current() *alloy.Instance { return h.cur.Load() }

// Run evaluates script against the current instance projected over the
// atoms with the given labels. Without atoms, the script sees a clone of
// the current instance.
func (h *Host) Run(ctx context.Context, atoms []string, filename, script string) (cue.Value, error) {
	inst := h.Current()
	if inst == nil {
		return cue.Value{}, ErrNoInstance
	}
	id := uuid.NewString()
	log := h.logger.With("run", id)
	log.DebugContext(ctx, "run started", "file", filename, "project", atoms)

	view, err := h.view(inst, atoms)
	if err != nil {
		log.DebugContext(ctx, "run failed", "err", err)
		return cue.Value{}, err
	}
	v, err := h.sb.Run(ctx, view, filename, script)
	if err != nil {
		log.DebugContext(ctx, "run failed", "err", err)
		return cue.Value{}, err
	}
	log.DebugContext(ctx, "run done")
	return v, nil
}

func (h *Host) view(inst *alloy.Instance, labels []string) (*alloy.Instance, error) {
	if len(labels) == 0 {
		return inst.Clone()
	}
	atoms := make([]*alloy.Atom, len(labels))
	for i, l := range labels {
		if atoms[i] = inst.Atom(l); atoms[i] == nil {
			return nil, fmt.Errorf("unknown atom %q", l)
		}
	}
	return inst.Project(atoms...)
}

// A Job is a script run requested from RunAll.
type Job struct {
	// Project lists the labels of the atoms to project over.
	Project  []string
	Filename string
	Script   string
}

// A Result holds the outcome of a Job.
type Result struct {
	Job   Job
	Value cue.Value
	Err   error
}

// RunAll runs the jobs concurrently, at most limit at a time if limit is
// positive. Errors of individual jobs are reported in their result; the
// returned error is only set if ctx is done.
func (h *Host) RunAll(ctx context.Context, jobs []Job, limit int) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			v, err := h.Run(gctx, j.Project, j.Filename, j.Script)
			results[i] = Result{Job: j, Value: v, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
