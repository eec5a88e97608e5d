// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pattern compiles usage pattern strings like
//
//	-v [-f|-n] <PATH>
//
// into constraint trees and matches raw argument tokens against them.
//
// A pattern is a boolean-presence grammar over flags. Space-joined terms
// inside {} must all be present (AND) and inside [] at least one must be
// present (OR). A single | inside {} demands exactly one side (XOR) and
// inside [] forbids both sides together (NAND, so neither is fine). Groups
// nest arbitrarily. A flag may be followed by a <TYPE> annotation that binds
// a typed value, and a pattern may end with one unlabeled <TYPE> for the
// trailing positional argument.
package pattern

import "strings"

// Node is one constraint in a compiled pattern tree. The concrete types are
// FlagTerm, PositionalTerm, And, Or, Xor and Nand.
type Node interface {
	// String renders the node in pattern syntax.
	String() string
	node()
}

// FlagTerm requires a flag to be present. Type, when non-empty, is the tag
// of the value the flag must be followed by.
type FlagTerm struct {
	Name string
	Type string
}

// PositionalTerm is the single unlabeled trailing value of a pattern.
type PositionalTerm struct {
	Type string
}

// And holds when every child holds.
type And struct {
	Terms []Node
}

// Or holds when at least one child holds.
type Or struct {
	Terms []Node
}

// Xor holds when exactly one side holds.
type Xor struct {
	Left  Node
	Right Node
}

// Nand holds unless both sides hold; neither side present is acceptable.
type Nand struct {
	Left  Node
	Right Node
}

func (*FlagTerm) node()       {}
func (*PositionalTerm) node() {}
func (*And) node()            {}
func (*Or) node()             {}
func (*Xor) node()            {}
func (*Nand) node()           {}

func (t *FlagTerm) String() string {
	if t.Type == "" {
		return "-" + t.Name
	}
	return "-" + t.Name + " <" + t.Type + ">"
}

func (t *PositionalTerm) String() string {
	return "<" + t.Type + ">"
}

func (n *And) String() string {
	return "{" + joinTerms(n.Terms, " ") + "}"
}

func (n *Or) String() string {
	return "[" + joinTerms(n.Terms, " ") + "]"
}

func (n *Xor) String() string {
	return "{" + n.Left.String() + "|" + n.Right.String() + "}"
}

func (n *Nand) String() string {
	return "[" + n.Left.String() + "|" + n.Right.String() + "]"
}

func joinTerms(terms []Node, sep string) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}
