// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"fmt"

	"github.com/brasspots/clip/pkg/typecheck"
)

// Tree is a compiled pattern. Trees are immutable once compiled and safe to
// match against any number of token lists.
type Tree struct {
	// Source is the pattern string the tree was compiled from.
	Source string
	// Root is the top of the constraint tree. For a pattern with several
	// top-level terms it is an And over them.
	Root Node

	flags      map[string]*FlagTerm
	order      []string // flag names in the order the pattern declares them
	positional *PositionalTerm
	types      *typecheck.Registry
}

// Compile parses a pattern string into a Tree. A nil registry means
// typecheck.Default. Malformed patterns return a *GrammarError.
//
// Separator rules: inside a bracket pair a single | splits the group into
// exactly two sides, each side being a space-joined sequence combined with
// the bracket's own combinator ({ gives And, [ gives Or). At the top level,
// space-joined terms are combined with And; a top-level | joins exactly two
// lone terms into Xor, and mixing the two separator kinds there is an error.
func Compile(src string, types *typecheck.Registry) (*Tree, error) {
	if types == nil {
		types = typecheck.Default()
	}
	c := &compiler{src: src, types: types}
	root, err := c.parseExpr(0)
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	if c.pos != len(c.src) {
		return nil, c.errorf("unexpected %q", c.src[c.pos])
	}
	t := &Tree{
		Source: src,
		Root:   root,
		flags:  make(map[string]*FlagTerm),
		types:  types,
	}
	if err := t.index(root); err != nil {
		return nil, err
	}
	return t, nil
}

// Flags returns the flag names the pattern declares, in declaration order
// and without the leading dash.
func (t *Tree) Flags() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Positional reports the type tag of the trailing positional, if the
// pattern declares one.
func (t *Tree) Positional() (string, bool) {
	if t.positional == nil {
		return "", false
	}
	return t.positional.Type, true
}

func (t *Tree) index(n Node) error {
	switch v := n.(type) {
	case *FlagTerm:
		if existing, ok := t.flags[v.Name]; ok {
			if existing.Type != v.Type {
				return &GrammarError{Pattern: t.Source, Reason: fmt.Sprintf("flag -%s declared with conflicting types <%s> and <%s>", v.Name, existing.Type, v.Type)}
			}
			return nil
		}
		t.flags[v.Name] = v
		t.order = append(t.order, v.Name)
	case *PositionalTerm:
		t.positional = v
	case *And:
		for _, child := range v.Terms {
			if err := t.index(child); err != nil {
				return err
			}
		}
	case *Or:
		for _, child := range v.Terms {
			if err := t.index(child); err != nil {
				return err
			}
		}
	case *Xor:
		if err := t.index(v.Left); err != nil {
			return err
		}
		return t.index(v.Right)
	case *Nand:
		if err := t.index(v.Left); err != nil {
			return err
		}
		return t.index(v.Right)
	}
	return nil
}

type compiler struct {
	src           string
	pos           int
	types         *typecheck.Registry
	sawPositional bool
}

func (c *compiler) errorf(format string, args ...any) error {
	return &GrammarError{Pattern: c.src, Pos: c.pos, Reason: fmt.Sprintf(format, args...)}
}

func (c *compiler) peek() byte {
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

func (c *compiler) skipSpaces() bool {
	skipped := false
	for c.pos < len(c.src) && (c.src[c.pos] == ' ' || c.src[c.pos] == '\t') {
		c.pos++
		skipped = true
	}
	return skipped
}

// parseExpr parses terms up to the closing bracket (0 means end of input)
// and combines them according to the bracket kind and the separators seen.
func (c *compiler) parseExpr(closer byte) (Node, error) {
	var sides [][]Node
	var current []Node

	for {
		c.skipSpaces()
		ch := c.peek()
		if ch == 0 {
			if closer != 0 {
				return nil, c.errorf("missing closing %q", closer)
			}
			break
		}
		if ch == closer {
			c.pos++
			break
		}
		if ch == '}' || ch == ']' {
			return nil, c.errorf("unbalanced %q", ch)
		}
		if ch == '|' {
			if len(current) == 0 {
				return nil, c.errorf("empty alternative before %q", '|')
			}
			c.pos++
			sides = append(sides, current)
			current = nil
			continue
		}
		term, err := c.parseTerm()
		if err != nil {
			return nil, err
		}
		current = append(current, term)
	}

	if len(sides) == 0 {
		// No alternation. An empty top-level expr matches only an empty
		// argument list.
		if closer == 0 {
			return c.combine(closer, current), nil
		}
		if len(current) < 2 {
			return nil, c.errorf("group must contain at least two terms")
		}
		return c.combine(closer, current), nil
	}

	if len(current) == 0 {
		return nil, c.errorf("empty alternative after %q", '|')
	}
	sides = append(sides, current)
	if len(sides) > 2 {
		return nil, c.errorf("alternation takes exactly two operands, got %d", len(sides))
	}
	if closer == 0 {
		// No bracket kind to say whether space means And or Or here, so the
		// two separator kinds may not be mixed at the top level.
		if len(sides[0]) > 1 || len(sides[1]) > 1 {
			return nil, c.errorf("cannot mix ' ' and '|' separators outside a group")
		}
		return &Xor{Left: sides[0][0], Right: sides[1][0]}, nil
	}
	left := c.combine(closer, sides[0])
	right := c.combine(closer, sides[1])
	if closer == ']' {
		return &Nand{Left: left, Right: right}, nil
	}
	return &Xor{Left: left, Right: right}, nil
}

// combine joins space-separated terms with the combinator the enclosing
// bracket implies. The top level behaves like {}.
func (c *compiler) combine(closer byte, terms []Node) Node {
	if len(terms) == 1 {
		return terms[0]
	}
	if closer == ']' {
		return &Or{Terms: terms}
	}
	return &And{Terms: terms}
}

func (c *compiler) parseTerm() (Node, error) {
	if c.sawPositional {
		return nil, c.errorf("only one positional value is allowed and it must be the final term")
	}
	switch ch := c.peek(); ch {
	case '{':
		c.pos++
		return c.parseExpr('}')
	case '[':
		c.pos++
		return c.parseExpr(']')
	case '-':
		return c.parseFlag()
	case '<':
		tag, err := c.parseTag()
		if err != nil {
			return nil, err
		}
		c.sawPositional = true
		return &PositionalTerm{Type: tag}, nil
	default:
		return nil, c.errorf("unexpected %q, want a flag, group or <TYPE>", ch)
	}
}

func (c *compiler) parseFlag() (Node, error) {
	start := c.pos
	c.pos++ // the dash
	for c.pos < len(c.src) && !isFlagDelim(c.src[c.pos]) {
		c.pos++
	}
	name := c.src[start+1 : c.pos]
	if name == "" {
		c.pos = start
		return nil, c.errorf("malformed flag %q", "-")
	}

	// A <TYPE> separated from the flag by spaces only binds to the flag;
	// after a | it would be a term of its own.
	save := c.pos
	c.skipSpaces()
	if c.peek() != '<' {
		c.pos = save
		return &FlagTerm{Name: name}, nil
	}
	tag, err := c.parseTag()
	if err != nil {
		return nil, err
	}
	return &FlagTerm{Name: name, Type: tag}, nil
}

// parseTag reads a <TYPE> annotation. Tags written in upper case must be
// registered; anything else (a free-text label like <filename>) passes
// through and validates as plain text.
func (c *compiler) parseTag() (string, error) {
	start := c.pos
	c.pos++ // the <
	for c.pos < len(c.src) && c.src[c.pos] != '>' {
		switch c.src[c.pos] {
		case ' ', '\t', '{', '}', '[', ']', '|', '<':
			return "", c.errorf("malformed type annotation %q", c.src[start:c.pos+1])
		}
		c.pos++
	}
	if c.pos >= len(c.src) {
		return "", c.errorf("missing %q in type annotation", '>')
	}
	tag := c.src[start+1 : c.pos]
	c.pos++ // the >
	if tag == "" {
		return "", c.errorf("empty type annotation")
	}
	if _, ok := c.types.Lookup(tag); !ok && isTagConst(tag) {
		return "", c.errorf("unknown type tag <%s>", tag)
	}
	return tag, nil
}

// isTagConst reports whether a tag is written like a registered type
// constant (all upper case, at least one letter).
func isTagConst(tag string) bool {
	hasLetter := false
	for _, ch := range tag {
		switch {
		case ch >= 'A' && ch <= 'Z':
			hasLetter = true
		case ch >= '0' && ch <= '9', ch == '_':
		default:
			return false
		}
	}
	return hasLetter
}

func isFlagDelim(ch byte) bool {
	switch ch {
	case ' ', '\t', '|', '{', '}', '[', ']', '<', '>':
		return true
	}
	return false
}
