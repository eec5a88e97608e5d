// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdtree routes leading command-line words to usage patterns.
//
// A tree node is either a leaf holding one pattern string or a branch
// mapping literal command words to subtrees. Which of the two a node is gets
// decided at construction time by the Leaf and Branch constructors, never by
// inspecting values at navigation time.
package cmdtree

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one point in the command routing tree.
type Node struct {
	leaf     bool
	pattern  string
	children map[string]*Node
}

// Leaf returns a terminal node holding a pattern string.
func Leaf(pattern string) *Node {
	return &Node{leaf: true, pattern: pattern}
}

// Branch returns a node routing each command word to its subtree.
func Branch(children map[string]*Node) *Node {
	return &Node{children: children}
}

// IsLeaf reports whether the node holds a pattern.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Pattern returns the node's pattern string when it is a leaf.
func (n *Node) Pattern() (string, bool) {
	return n.pattern, n.leaf
}

// Commands returns a branch's command words in sorted order.
func (n *Node) Commands() []string {
	words := make([]string, 0, len(n.children))
	for word := range n.children {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// Walk visits every leaf, passing the command words leading to it and its
// pattern string. Branches are visited in sorted word order.
func (n *Node) Walk(fn func(path []string, pattern string) error) error {
	return n.walk(nil, fn)
}

func (n *Node) walk(path []string, fn func(path []string, pattern string) error) error {
	if n.leaf {
		return fn(path, n.pattern)
	}
	for _, word := range n.Commands() {
		if err := n.children[word].walk(append(path, word), fn); err != nil {
			return err
		}
	}
	return nil
}

// UnknownCommandError is returned when a leading token matches no command
// word at its depth, or when the tokens run out before reaching a leaf
// (Token is empty in that case).
type UnknownCommandError struct {
	Token string
	Path  []string // command words matched before the failure
}

func (e *UnknownCommandError) Error() string {
	at := ""
	if len(e.Path) > 0 {
		at = fmt.Sprintf(" after %q", strings.Join(e.Path, " "))
	}
	if e.Token == "" {
		return "missing command" + at
	}
	return fmt.Sprintf("unknown command %q%s", e.Token, at)
}

// AmbiguousCommandError marks a branch with zero children: a configuration
// defect, since no token can ever descend past it.
type AmbiguousCommandError struct {
	Path []string
}

func (e *AmbiguousCommandError) Error() string {
	if len(e.Path) == 0 {
		return "command tree root has no commands"
	}
	return fmt.Sprintf("command tree branch %q has no commands", strings.Join(e.Path, " "))
}

// Navigate walks the tree using the leading tokens and returns the selected
// pattern string plus the number of tokens consumed. tokens[0] is the script
// invocation name; it selects the root and is consumed without being matched
// against anything. Lookup is by exact literal match with no prefix matching
// or case folding.
func Navigate(root *Node, tokens []string) (pattern string, consumed int, err error) {
	if root == nil {
		return "", 0, &AmbiguousCommandError{}
	}
	if len(tokens) == 0 {
		return "", 0, &UnknownCommandError{}
	}
	cur := root
	consumed = 1
	for !cur.leaf {
		if len(cur.children) == 0 {
			return "", 0, &AmbiguousCommandError{Path: tokens[1:consumed]}
		}
		if consumed >= len(tokens) {
			return "", 0, &UnknownCommandError{Path: tokens[1:consumed]}
		}
		next, ok := cur.children[tokens[consumed]]
		if !ok {
			return "", 0, &UnknownCommandError{Token: tokens[consumed], Path: tokens[1:consumed]}
		}
		cur = next
		consumed++
	}
	return cur.pattern, consumed, nil
}

// Validate walks the whole tree and reports empty branches and nil nodes,
// so a malformed configuration halts startup instead of failing on the one
// invocation that reaches the bad branch.
func Validate(root *Node) error {
	return validate(root, nil)
}

func validate(n *Node, path []string) error {
	if n == nil {
		return &AmbiguousCommandError{Path: path}
	}
	if n.leaf {
		return nil
	}
	if len(n.children) == 0 {
		return &AmbiguousCommandError{Path: path}
	}
	for _, word := range n.Commands() {
		if err := validate(n.children[word], append(path, word)); err != nil {
			return err
		}
	}
	return nil
}
