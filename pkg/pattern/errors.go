// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"fmt"
	"strings"
)

// GrammarError is returned by Compile when a pattern string is malformed.
// It is a configuration defect: patterns are author-supplied, so a
// GrammarError should abort startup rather than surface to end users.
type GrammarError struct {
	Pattern string // the full pattern source
	Pos     int    // byte offset of the problem
	Reason  string
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("bad pattern %q at offset %d: %s", e.Pattern, e.Pos, e.Reason)
}

// UsageError is returned by Match when the argument tokens do not satisfy
// the compiled constraint tree. Constraint is the first unsatisfied
// constraint rendered in pattern syntax.
type UsageError struct {
	Constraint string
	Tokens     []string
	Reason     string
}

func (e *UsageError) Error() string {
	if len(e.Tokens) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (got %q)", e.Reason, strings.Join(e.Tokens, " "))
}

// TypeValidationError is returned by Match when a present flag's value (or
// the positional value, in which case Flag is empty) fails conversion
// against its declared type tag.
type TypeValidationError struct {
	Flag  string // flag name without the leading dash, "" for the positional
	Value string // the raw token
	Type  string // the declared tag
	Err   error  // the validator's error
}

func (e *TypeValidationError) Error() string {
	if e.Flag == "" {
		return fmt.Sprintf("value %q is not a valid <%s>: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("flag -%s: value %q is not a valid <%s>: %v", e.Flag, e.Value, e.Type, e.Err)
}

func (e *TypeValidationError) Unwrap() error {
	return e.Err
}
