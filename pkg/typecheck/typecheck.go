// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package typecheck maps pattern type tags such as INT or PATH to validator
// functions that convert raw argument tokens into typed values.
//
// A validator receives the raw token exactly as it appeared on the command
// line and either returns the converted value or an error describing why the
// token does not satisfy the tag. Callers may register additional tags with
// custom validators; the pattern compiler consults the registry so that an
// unregistered tag is rejected before any arguments are seen.
package typecheck

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// ValidateFunc converts a raw argument token into a typed value.
type ValidateFunc func(raw string) (any, error)

// Registry maps type tags to their validators.
type Registry struct {
	funcs map[string]ValidateFunc
}

// New returns an empty registry with no tags registered.
func New() *Registry {
	return &Registry{funcs: make(map[string]ValidateFunc)}
}

// Default returns a registry preloaded with the built-in tags:
// INT, FLOAT, HEX, OCT, BIN, STR, PATH, SEMVER and UUID.
func Default() *Registry {
	r := New()
	r.Register("INT", validateInt)
	r.Register("FLOAT", validateFloat)
	r.Register("HEX", baseValidator(16, "hexadecimal"))
	r.Register("OCT", baseValidator(8, "octal"))
	r.Register("BIN", baseValidator(2, "binary"))
	r.Register("STR", validateStr)
	r.Register("PATH", validatePath)
	r.Register("SEMVER", validateSemver)
	r.Register("UUID", validateUUID)
	return r
}

// Register adds or replaces the validator for a tag.
func (r *Registry) Register(tag string, fn ValidateFunc) {
	r.funcs[tag] = fn
}

// Lookup reports the validator for a tag, if one is registered.
func (r *Registry) Lookup(tag string) (ValidateFunc, bool) {
	fn, ok := r.funcs[tag]
	return fn, ok
}

// Validate converts raw using the validator registered for tag. Tags with no
// registered validator accept any token and return it unchanged; the pattern
// compiler only lets such tags through for free-text positional labels like
// <filename>.
func (r *Registry) Validate(tag, raw string) (any, error) {
	fn, ok := r.funcs[tag]
	if !ok {
		return raw, nil
	}
	return fn(raw)
}

// Tags returns the registered tags in sorted order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.funcs))
	for tag := range r.funcs {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func validateInt(raw string) (any, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty value")
	}
	for _, c := range raw {
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%q is not a whole number", raw)
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a whole number", raw)
	}
	return v, nil
}

// validateFloat requires a decimal point so that whole numbers keep matching
// INT rather than silently widening.
func validateFloat(raw string) (any, error) {
	if !strings.Contains(raw, ".") {
		return nil, fmt.Errorf("%q has no decimal point", raw)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a decimal number", raw)
	}
	return v, nil
}

func baseValidator(base int, name string) ValidateFunc {
	return func(raw string) (any, error) {
		if raw == "" {
			return nil, fmt.Errorf("empty value")
		}
		v, err := strconv.ParseUint(raw, base, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a %s number", raw, name)
		}
		return v, nil
	}
}

func validateStr(raw string) (any, error) {
	return raw, nil
}

func validatePath(raw string) (any, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty path")
	}
	if strings.ContainsRune(raw, 0) {
		return nil, fmt.Errorf("path contains a NUL byte")
	}
	return filepath.Clean(raw), nil
}

func validateSemver(raw string) (any, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a semantic version", raw)
	}
	return v, nil
}

func validateUUID(raw string) (any, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%q is not a UUID", raw)
	}
	return id, nil
}
