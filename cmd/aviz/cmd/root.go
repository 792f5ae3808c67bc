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

// Package cmd implements the aviz command line tool.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"cuelang.org/go/cue/errors"
	"github.com/spf13/cobra"

	"alloyviz.dev/go/internal/avizdebug"
)

type runFunction func(cmd *Command, args []string) error

func mkRunE(c *Command, f runFunction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		c.Command = cmd
		return f(c, args)
	}
}

// newRootCmd creates the base command when called without any subcommands
func newRootCmd() *Command {
	cmd := &cobra.Command{
		Use:   "aviz",
		Short: "aviz inspects Alloy instances.",
		Long: `aviz reads instances written by the Alloy analyzer in its XML format,
prints, projects and exports them, and evaluates CUE scripts against them.

Within a script, every signature, atom, field and skolem of the instance
is in scope under a variable name derived from its label: "this/A" is A,
the atom "A$0" is A$0, and a field declared by several signatures is
qualified by its signature, as in A$f. A signature evaluates to the list
of its atoms, a field or skolem to the list of its tuples.

The AVIZ_DEBUG environment variable holds a comma-separated list of
settings:

	log          log debug information to stderr
	strict       check tuples against the declared types
	sortitems    list items sorted by id in 'aviz inspect --items'
	parallel=N   evaluate at most N scripts at a time`,

		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return avizdebug.Init()
		},
	}

	c := &Command{Command: cmd, root: cmd}

	subCommands := []*cobra.Command{
		newInspectCmd(c),
		newExportCmd(c),
		newProjectCmd(c),
		newJoinCmd(c),
		newEvalCmd(c),
		newVersionCmd(c),
	}
	for _, sub := range subCommands {
		cmd.AddCommand(sub)
	}
	return c
}

// MainTest is like Main, runs the aviz tool and returns the code for passing to os.Exit.
func MainTest() int {
	inTest = true
	return Main()
}

// Main runs the aviz tool and returns the code for passing to os.Exit.
func Main() int {
	err := mainErr(context.Background(), os.Args[1:])
	if err != nil {
		if err != ErrPrintedError {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func mainErr(ctx context.Context, args []string) error {
	cmd, err := New(args)
	if err != nil {
		return err
	}
	return cmd.Run(ctx)
}

type Command struct {
	// The currently active command.
	*cobra.Command

	root *cobra.Command

	ctx    context.Context
	hasErr bool
}

type errWriter Command

func (w *errWriter) Write(b []byte) (int, error) {
	c := (*Command)(w)
	c.hasErr = true
	return c.Command.OutOrStderr().Write(b)
}

// Stderr returns a writer that should be used for error messages.
// Writing to it makes the command exit with a non-zero code.
func (c *Command) Stderr() io.Writer {
	return (*errWriter)(c)
}

// Context returns the context of the current run.
func (c *Command) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Command) SetOutput(w io.Writer) {
	c.root.SetOutput(w)
}

// ErrPrintedError indicates error messages have been printed to stderr.
var ErrPrintedError = errors.New("terminating because of errors")

func (c *Command) Run(ctx context.Context) (err error) {
	defer recoverError(&err)

	c.ctx = ctx
	if err := c.root.ExecuteContext(ctx); err != nil {
		return err
	}
	if c.hasErr {
		return ErrPrintedError
	}
	return nil
}

func recoverError(err *error) {
	switch e := recover().(type) {
	case nil:
	case panicError:
		*err = e.Err
	default:
		panic(e)
	}
	// We use panic to escape, instead of os.Exit
}

// New creates the aviz command for the given arguments.
func New(args []string) (cmd *Command, err error) {
	defer recoverError(&err)

	cmd = newRootCmd()
	cmd.root.SetArgs(args)
	return cmd, nil
}

type panicError struct {
	Err error
}

func exit() {
	panic(panicError{ErrPrintedError})
}
