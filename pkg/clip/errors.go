// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/brasspots/clip/pkg/cmdtree"
	"github.com/brasspots/clip/pkg/pattern"
)

// Exit codes reported by ExitCode: usage problems are the user's to fix,
// configuration problems are the author's.
const (
	ExitOK     = 0
	ExitConfig = 1
	ExitUsage  = 2
)

// ExitCode maps an error from New or Parse to a conventional process exit
// code. Unrecognized errors count as configuration problems.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var (
		unknown   *cmdtree.UnknownCommandError
		usage     *pattern.UsageError
		typeCheck *pattern.TypeValidationError
	)
	if errors.As(err, &unknown) || errors.As(err, &usage) || errors.As(err, &typeCheck) {
		return ExitUsage
	}
	return ExitConfig
}

// FormatError renders an error from New or Parse as a one-line user-facing
// message without Go error chain noise.
func FormatError(err error) string {
	var grammar *pattern.GrammarError
	if errors.As(err, &grammar) {
		return fmt.Sprintf("bad pattern %q: %s", grammar.Pattern, grammar.Reason)
	}
	var ambiguous *cmdtree.AmbiguousCommandError
	if errors.As(err, &ambiguous) {
		return ambiguous.Error()
	}
	var unknown *cmdtree.UnknownCommandError
	if errors.As(err, &unknown) {
		return unknown.Error()
	}
	var usage *pattern.UsageError
	if errors.As(err, &usage) {
		return usage.Reason
	}
	var typeCheck *pattern.TypeValidationError
	if errors.As(err, &typeCheck) {
		return typeCheck.Error()
	}
	return err.Error()
}

// PrintError writes the message for err to w the way the help text names
// the script, red when w is a terminal.
func (it *Interface) PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %s\n", color.RedString("%s:", it.cfg.ScriptName), FormatError(err))
	if ExitCode(err) == ExitUsage {
		fmt.Fprintf(w, "run '%s help' for usage\n", it.cfg.ScriptName)
	}
}
