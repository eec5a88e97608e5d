// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		src  string
		want Node
	}{
		{
			src:  "-a",
			want: &FlagTerm{Name: "a"},
		},
		{
			src:  "-a <INT>",
			want: &FlagTerm{Name: "a", Type: "INT"},
		},
		{
			src:  "<PATH>",
			want: &PositionalTerm{Type: "PATH"},
		},
		{
			src:  "",
			want: &And{},
		},
		{
			src:  "-a -b",
			want: &And{Terms: []Node{&FlagTerm{Name: "a"}, &FlagTerm{Name: "b"}}},
		},
		{
			src:  "{-a -b}",
			want: &And{Terms: []Node{&FlagTerm{Name: "a"}, &FlagTerm{Name: "b"}}},
		},
		{
			src:  "[-a -b]",
			want: &Or{Terms: []Node{&FlagTerm{Name: "a"}, &FlagTerm{Name: "b"}}},
		},
		{
			src:  "{-a|-b}",
			want: &Xor{Left: &FlagTerm{Name: "a"}, Right: &FlagTerm{Name: "b"}},
		},
		{
			src:  "[-a|-b]",
			want: &Nand{Left: &FlagTerm{Name: "a"}, Right: &FlagTerm{Name: "b"}},
		},
		{
			src:  "-a|-b",
			want: &Xor{Left: &FlagTerm{Name: "a"}, Right: &FlagTerm{Name: "b"}},
		},
		{
			src: "{-a <INT>|-b}",
			want: &Xor{
				Left:  &FlagTerm{Name: "a", Type: "INT"},
				Right: &FlagTerm{Name: "b"},
			},
		},
		{
			src: "-a <INT> <filename>",
			want: &And{Terms: []Node{
				&FlagTerm{Name: "a", Type: "INT"},
				&PositionalTerm{Type: "filename"},
			}},
		},
		{
			src: "-v [-f|-n] <PATH>",
			want: &And{Terms: []Node{
				&FlagTerm{Name: "v"},
				&Nand{Left: &FlagTerm{Name: "f"}, Right: &FlagTerm{Name: "n"}},
				&PositionalTerm{Type: "PATH"},
			}},
		},
		{
			// A pipe side inside brackets may itself be a space-joined
			// sequence; it combines with the bracket's own combinator.
			src: "[-a {-b -c}|-d]",
			want: &Nand{
				Left: &Or{Terms: []Node{
					&FlagTerm{Name: "a"},
					&And{Terms: []Node{&FlagTerm{Name: "b"}, &FlagTerm{Name: "c"}}},
				}},
				Right: &FlagTerm{Name: "d"},
			},
		},
		{
			src: "{-a {-b|-c}}",
			want: &And{Terms: []Node{
				&FlagTerm{Name: "a"},
				&Xor{Left: &FlagTerm{Name: "b"}, Right: &FlagTerm{Name: "c"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tree, err := Compile(tt.src, nil)
			if err != nil {
				t.Fatalf("Compile(%q) error = %v", tt.src, err)
			}
			if diff := cmp.Diff(tt.want, tree.Root); diff != "" {
				t.Errorf("Compile(%q) tree mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		src    string
		reason string // substring of the GrammarError reason
	}{
		{"{-a", "missing closing"},
		{"-a}", "unbalanced"},
		{"-a]", "unbalanced"},
		{"{-a|-b|-c}", "exactly two"},
		{"[-a|-b|-c]", "exactly two"},
		{"{-a}", "at least two terms"},
		{"[-a]", "at least two terms"},
		{"{}", "at least two terms"},
		{"-a -b|-c", "mix"},
		{"-a|-b -c", "mix"},
		{"<INT> -a", "final term"},
		{"<INT> <INT>", "final term"},
		{"-a <STR> <INT> -b", "final term"},
		{"-a <NOPE>", "unknown type tag"},
		{"-", "malformed flag"},
		{"{|-a}", "empty alternative"},
		{"{-a|}", "empty alternative"},
		{"-a <IN T>", "malformed type annotation"},
		{"-a <INT", "missing"},
		{"-a <>", "empty type annotation"},
		{"?", "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := Compile(tt.src, nil)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded, want grammar error containing %q", tt.src, tt.reason)
			}
			var ge *GrammarError
			if !errors.As(err, &ge) {
				t.Fatalf("Compile(%q) error = %T, want *GrammarError", tt.src, err)
			}
			if !strings.Contains(ge.Reason, tt.reason) {
				t.Errorf("Compile(%q) reason = %q, want it to contain %q", tt.src, ge.Reason, tt.reason)
			}
			if ge.Pattern != tt.src {
				t.Errorf("Compile(%q) error pattern = %q", tt.src, ge.Pattern)
			}
		})
	}
}

func TestCompileConflictingFlagTypes(t *testing.T) {
	_, err := Compile("{-a <INT>|-a <STR>}", nil)
	var ge *GrammarError
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want *GrammarError", err)
	}
	if !strings.Contains(ge.Reason, "conflicting types") {
		t.Errorf("reason = %q, want conflicting types", ge.Reason)
	}

	// The same flag with the same type may appear in several branches.
	if _, err := Compile("{-a <INT>|-a <INT>}", nil); err != nil {
		t.Errorf("repeated identical flag: %v", err)
	}
}

func TestCompileIdempotent(t *testing.T) {
	const src = "-v [-f|-n] {-x <INT>|-y} <PATH>"
	a, err := Compile(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(a.Root, b.Root) {
		t.Errorf("compiling %q twice produced different trees:\n%s", src, cmp.Diff(a.Root, b.Root))
	}
}

func TestTreeIntrospection(t *testing.T) {
	tree, err := Compile("-v [-f|-n] <PATH>", nil)
	if err != nil {
		t.Fatal(err)
	}
	wantFlags := []string{"v", "f", "n"}
	if diff := cmp.Diff(wantFlags, tree.Flags()); diff != "" {
		t.Errorf("Flags() mismatch (-want +got):\n%s", diff)
	}
	tag, ok := tree.Positional()
	if !ok || tag != "PATH" {
		t.Errorf("Positional() = %q, %v, want PATH, true", tag, ok)
	}
	if got := tree.Root.String(); got != "{-v [-f|-n] <PATH>}" {
		t.Errorf("Root.String() = %q", got)
	}
}
