// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pattern

import (
	"fmt"
	"strings"
)

// PositionalKey is the Bindings key for the unlabeled trailing value.
const PositionalKey = "_"

// Bindings maps flag names (without the leading dash) to their validated
// values: true for flags without a value annotation, the converted value for
// flags with one. The positional value, if consumed, is stored under
// PositionalKey.
type Bindings map[string]any

// presence is the phase-one classification of the input tokens.
type presence struct {
	seen   map[string]bool
	values map[string]string
	pos    string
	hasPos bool
}

// Match evaluates raw argument tokens against the compiled tree. Tokens must
// not include the program or command words, only the arguments to validate.
//
// Matching runs in two phases: a presence scan that pairs each flag token
// with a declared FlagTerm (consuming the following token when the term is
// typed) and singles out the one allowed positional candidate, then a
// recursive evaluation of the constraint tree against that presence set.
// Failures are *UsageError, or *TypeValidationError when a present value
// fails its type tag. Duplicate occurrences of a flag are allowed; the last
// value wins.
func (t *Tree) Match(tokens []string) (Bindings, error) {
	p := presence{
		seen:   make(map[string]bool),
		values: make(map[string]string),
	}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if strings.HasPrefix(tok, "-") && len(tok) > 1 {
			name := tok[1:]
			term, ok := t.flags[name]
			if !ok {
				return nil, &UsageError{
					Constraint: t.Source,
					Tokens:     tokens,
					Reason:     fmt.Sprintf("unknown flag %s", tok),
				}
			}
			p.seen[name] = true
			if term.Type != "" {
				if i+1 >= len(tokens) {
					return nil, &UsageError{
						Constraint: term.String(),
						Tokens:     tokens,
						Reason:     fmt.Sprintf("flag %s is missing its <%s> value", tok, term.Type),
					}
				}
				i++
				p.values[name] = tokens[i]
			}
			continue
		}
		if p.hasPos || t.positional == nil {
			return nil, &UsageError{
				Constraint: t.Source,
				Tokens:     tokens,
				Reason:     fmt.Sprintf("too many positional arguments at %q", tok),
			}
		}
		p.hasPos = true
		p.pos = tok
	}

	st, failed := eval(t.Root, p)
	if st == violated || (st == absent && !acceptsAbsent(t.Root)) {
		if failed == nil {
			failed = t.Root
		}
		return nil, &UsageError{
			Constraint: failed.String(),
			Tokens:     tokens,
			Reason:     fmt.Sprintf("arguments do not satisfy %s", failed),
		}
	}

	b := make(Bindings, len(p.seen))
	for _, name := range t.order {
		if !p.seen[name] {
			continue
		}
		term := t.flags[name]
		if term.Type == "" {
			b[name] = true
			continue
		}
		raw := p.values[name]
		val, err := t.types.Validate(term.Type, raw)
		if err != nil {
			return nil, &TypeValidationError{Flag: name, Value: raw, Type: term.Type, Err: err}
		}
		b[name] = val
	}
	if p.hasPos {
		val, err := t.types.Validate(t.positional.Type, p.pos)
		if err != nil {
			return nil, &TypeValidationError{Value: p.pos, Type: t.positional.Type, Err: err}
		}
		b[PositionalKey] = val
	}
	return b, nil
}

// status is the outcome of evaluating one constraint: satisfied means it
// holds, absent means nothing under it was supplied, violated means the
// supplied arguments contradict it. The three are kept apart because an
// absent Nand group is acceptable while an absent And or Xor is not.
type status int

const (
	absent status = iota
	satisfied
	violated
)

// eval walks the tree left to right and reports the first unsatisfied
// constraint alongside the status, so error messages are deterministic.
func eval(n Node, p presence) (status, Node) {
	switch v := n.(type) {
	case *FlagTerm:
		if p.seen[v.Name] {
			return satisfied, nil
		}
		return absent, v
	case *PositionalTerm:
		if p.hasPos {
			return satisfied, nil
		}
		return absent, v
	case *And:
		return evalAnd(v, p)
	case *Or:
		return evalOr(v, p)
	case *Xor:
		ls, lf := eval(v.Left, p)
		if ls == violated {
			return violated, lf
		}
		rs, rf := eval(v.Right, p)
		if rs == violated {
			return violated, rf
		}
		switch {
		case ls == satisfied && rs == satisfied:
			return violated, v
		case ls == satisfied || rs == satisfied:
			return satisfied, nil
		default:
			return absent, v
		}
	case *Nand:
		ls, lf := eval(v.Left, p)
		if ls == violated {
			return violated, lf
		}
		rs, rf := eval(v.Right, p)
		if rs == violated {
			return violated, rf
		}
		switch {
		case ls == satisfied && rs == satisfied:
			return violated, v
		case ls == satisfied || rs == satisfied:
			return satisfied, nil
		default:
			return absent, v
		}
	}
	return violated, n
}

// evalAnd distinguishes an And that was never engaged (every child absent)
// from one that was engaged but left incomplete. An absent child still
// passes when the child itself tolerates absence, so `-a [-b|-c]` does not
// demand the optional group.
func evalAnd(v *And, p presence) (status, Node) {
	if len(v.Terms) == 0 {
		return satisfied, nil
	}
	results := make([]status, len(v.Terms))
	fails := make([]Node, len(v.Terms))
	allAbsent := true
	for i, child := range v.Terms {
		st, failed := eval(child, p)
		if st == violated {
			return violated, failed
		}
		results[i] = st
		fails[i] = failed
		if st != absent {
			allAbsent = false
		}
	}
	if allAbsent {
		return absent, v
	}
	for i, child := range v.Terms {
		if results[i] == absent && !acceptsAbsent(child) {
			return violated, fails[i]
		}
	}
	return satisfied, nil
}

func evalOr(v *Or, p presence) (status, Node) {
	sat := false
	for _, child := range v.Terms {
		st, failed := eval(child, p)
		if st == violated {
			return violated, failed
		}
		if st == satisfied {
			sat = true
		}
	}
	if sat {
		return satisfied, nil
	}
	return absent, v
}

// acceptsAbsent reports whether a constraint is satisfied by the complete
// absence of everything underneath it. Nand permits both sides missing; the
// property propagates through And (all children must tolerate absence) and
// Or (one tolerant child satisfies it vacuously).
func acceptsAbsent(n Node) bool {
	switch v := n.(type) {
	case *Nand:
		return true
	case *And:
		if len(v.Terms) == 0 {
			return true
		}
		for _, child := range v.Terms {
			if !acceptsAbsent(child) {
				return false
			}
		}
		return true
	case *Or:
		for _, child := range v.Terms {
			if acceptsAbsent(child) {
				return true
			}
		}
		return false
	}
	return false
}
