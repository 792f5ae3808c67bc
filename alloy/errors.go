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

package alloy

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// A Kind classifies the errors reported while building, cloning or
// projecting an instance. A Kind is itself an error so that it can be used
// as the target of errors.Is:
//
//	if errors.Is(err, alloy.ErrStructural) { ... }
type Kind int

const (
	// MissingAttribute reports a required XML attribute that is absent.
	MissingAttribute Kind = iota + 1

	// MissingElement reports a required XML element that is absent.
	MissingElement

	// Structural reports a referential integrity failure, such as an
	// unresolved signature or atom, or an invalid projection.
	Structural
)

// Sentinels for use with errors.Is.
var (
	ErrMissingAttribute error = MissingAttribute
	ErrMissingElement   error = MissingElement
	ErrStructural       error = Structural
)

func (k Kind) Error() string {
	switch k {
	case MissingAttribute:
		return "missing attribute"
	case MissingElement:
		return "missing element"
	case Structural:
		return "structural error"
	}
	return fmt.Sprintf("alloy.Kind(%d)", int(k))
}

// An Error is the error type returned by this package and by the decoders
// that build instances. It implements [errors.Error] so it prints with its
// position through [errors.Print].
type Error struct {
	Kind Kind

	// Pos is the position of the offending input, if any.
	Pos token.Pos

	// ElemPath holds the element path at which the error occurred,
	// for instance ["instance", "field", "r"].
	ElemPath []string

	format string
	args   []interface{}
}

var _ errors.Error = (*Error)(nil)

// Errorf returns a new Error of the given kind.
func Errorf(k Kind, pos token.Pos, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Pos: pos, format: format, args: args}
}

// At returns a copy of e with the element path set.
func (e *Error) At(path ...string) *Error {
	x := *e
	x.ElemPath = path
	return &x
}

func (e *Error) Position() token.Pos { return e.Pos }

func (e *Error) InputPositions() []token.Pos { return nil }

func (e *Error) Path() []string { return e.ElemPath }

func (e *Error) Msg() (string, []interface{}) {
	return e.Kind.Error() + ": " + e.format, e.args
}

func (e *Error) Error() string {
	format, args := e.Msg()
	msg := fmt.Sprintf(format, args...)
	if len(e.ElemPath) == 0 {
		return msg
	}
	return strings.Join(e.ElemPath, ".") + ": " + msg
}

// Is reports whether target is the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func structuralf(format string, args ...interface{}) *Error {
	return Errorf(Structural, token.NoPos, format, args...)
}
