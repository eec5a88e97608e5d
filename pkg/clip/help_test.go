// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestWriteHelp(t *testing.T) {
	color.NoColor = true

	it, err := New(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := it.WriteHelp(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()

	for _, want := range []string{
		"deploy - push a build to a host",
		"deploy push -v [-f|-n] <PATH>",
		"deploy remote add -t <STR> <name>",
		"deploy status [-v|-q]",
		"-v, --verbose",
		"--transport",
		"(default: ssh)",
		"deploy uploads a build artifact",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q:\n%s", want, out)
		}
	}
}

func TestWrap(t *testing.T) {
	lines := wrap("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("wrap = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
	if got := wrap("", 10); got != nil {
		t.Errorf("wrap(empty) = %q, want nil", got)
	}
}
