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

// Package avizdebug holds the settings read from the AVIZ_DEBUG
// environment variable.
package avizdebug

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Flags holds the set of global AVIZ_DEBUG flags. It is initialized by Init.
var Flags Config

// Config holds the set of known AVIZ_DEBUG flags.
//
// When adding, deleting, or modifying entries below,
// update the help text of the aviz root command as well.
type Config struct {
	// Log enables debug logging to stderr.
	Log bool

	// Strict makes decoders check that tuples conform to the declared
	// types of their relation.
	Strict bool

	// SortItems lists signatures, fields and skolems sorted by id
	// instead of in document order.
	SortItems bool

	// Parallel bounds the number of concurrent script runs.
	// Zero means one per CPU.
	Parallel int `avizdebug:"default:0"`
}

// Init initializes Flags from AVIZ_DEBUG. It is not an init function as
// commands like "aviz help" should not fail on a malformed variable.
func Init() error {
	return initOnce()
}

var initOnce = sync.OnceValue(func() error {
	if err := Parse(&Flags, os.Getenv("AVIZ_DEBUG")); err != nil {
		return fmt.Errorf("cannot parse AVIZ_DEBUG: %w", err)
	}
	return nil
})

// Parse sets the fields of cfg from a comma-separated list of name=value
// pairs. Names match field names case insensitively. For boolean fields the
// value may be omitted, meaning true. Fields not mentioned take the default
// from their struct tag, if any, and the zero value otherwise.
func Parse(cfg *Config, env string) error {
	v := reflect.ValueOf(cfg).Elem()
	typ := v.Type()
	index := make(map[string]int)
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name := strings.ToLower(f.Name)
		index[name] = i
		v.Field(i).SetZero()
		tag, ok := f.Tag.Lookup("avizdebug")
		if !ok {
			continue
		}
		def, ok := strings.CutPrefix(tag, "default:")
		if !ok {
			return fmt.Errorf("unknown avizdebug tag %q", tag)
		}
		if err := set(v.Field(i), name, def); err != nil {
			return err
		}
	}

	var errs []error
	for _, elem := range strings.Split(env, ",") {
		if elem == "" {
			continue
		}
		name, value, hasValue := strings.Cut(elem, "=")
		name = strings.ToLower(strings.TrimSpace(name))
		i, ok := index[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown flag %q", elem))
			continue
		}
		field := v.Field(i)
		if !hasValue {
			if field.Kind() != reflect.Bool {
				errs = append(errs, fmt.Errorf("value needed for %s flag %q", field.Kind(), name))
				continue
			}
			value = "true"
		}
		if err := set(field, name, value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func set(field reflect.Value, name, value string) error {
	switch field.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool value for %s: %v", name, err)
		}
		field.SetBool(b)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid int value for %s: %v", name, err)
		}
		field.SetInt(int64(n))
	default:
		return fmt.Errorf("unsupported kind %s for %s", field.Kind(), name)
	}
	return nil
}

// Logger returns the logger for debug output: a text logger on stderr if
// the log flag is set, and a logger that drops everything otherwise.
func Logger() *slog.Logger {
	return NewLogger(os.Stderr, Flags)
}

// NewLogger is like Logger but writes to w and uses cfg.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	if !cfg.Log {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
