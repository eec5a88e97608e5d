// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clip ties the pattern engine together for a whole program: a
// command tree routes sub-commands to usage patterns, matched flags are
// translated to their long names, defaults fill in absent parameters, and
// the same configuration renders the help message.
//
// The entry point takes the token list as an argument (usually os.Args) and
// never reads ambient process state, so an Interface is trivially testable.
package clip

import (
	"fmt"
	"strings"

	"github.com/brasspots/clip/pkg/cmdtree"
	"github.com/brasspots/clip/pkg/pattern"
	"github.com/brasspots/clip/pkg/typecheck"
)

// Parameter describes one flag for help text and name translation. Long is
// required; Flag is the short alias used in patterns, Default the raw value
// reported when the parameter is absent from the arguments.
type Parameter struct {
	Flag        string // short form, e.g. "-v"
	Long        string // long form, e.g. "--verbose"
	Description string
	Default     string
}

// Config is the process-lifetime configuration of an Interface. It is
// supplied once at startup and never mutated afterwards.
type Config struct {
	ScriptName       string
	ShortDescription string
	LongDescription  string
	Commands         *cmdtree.Node
	Parameters       []Parameter
	// Types defaults to typecheck.Default when nil.
	Types *typecheck.Registry
}

// Interface is a compiled, validated command-line specification.
type Interface struct {
	cfg      Config
	types    *typecheck.Registry
	byFlag   map[string]Parameter     // keyed by flag name without dashes
	compiled map[string]*pattern.Tree // keyed by pattern source
}

// New validates the configuration and eagerly compiles every leaf pattern,
// so grammar and command-tree defects abort startup instead of surfacing on
// some later invocation. The compiled trees are cached for the lifetime of
// the Interface.
func New(cfg Config) (*Interface, error) {
	if cfg.ScriptName == "" {
		return nil, fmt.Errorf("clip: script name is required")
	}
	if cfg.Commands == nil {
		return nil, fmt.Errorf("clip: command tree is required")
	}
	if err := cmdtree.Validate(cfg.Commands); err != nil {
		return nil, err
	}
	types := cfg.Types
	if types == nil {
		types = typecheck.Default()
	}

	it := &Interface{
		cfg:      cfg,
		types:    types,
		byFlag:   make(map[string]Parameter, len(cfg.Parameters)),
		compiled: make(map[string]*pattern.Tree),
	}
	for _, p := range cfg.Parameters {
		if p.Long == "" {
			return nil, fmt.Errorf("clip: parameter %q has no long name", p.Flag)
		}
		if p.Flag != "" {
			it.byFlag[strings.TrimLeft(p.Flag, "-")] = p
		}
	}
	err := cfg.Commands.Walk(func(path []string, src string) error {
		if _, ok := it.compiled[src]; ok {
			return nil
		}
		tree, err := pattern.Compile(src, types)
		if err != nil {
			return err
		}
		it.compiled[src] = tree
		return nil
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ScriptName returns the configured script name.
func (it *Interface) ScriptName() string {
	return it.cfg.ScriptName
}

// Parse routes tokens through the command tree, matches the remaining
// arguments against the selected pattern, and returns the bindings keyed by
// long parameter names. tokens[0] is the script invocation name. Parameters
// that declare a default and were absent from the arguments are present in
// the result with their default value.
func (it *Interface) Parse(tokens []string) (pattern.Bindings, error) {
	src, consumed, err := cmdtree.Navigate(it.cfg.Commands, tokens)
	if err != nil {
		return nil, err
	}
	tree, ok := it.compiled[src]
	if !ok {
		// Unreachable when the Interface came from New, which compiles
		// every leaf.
		tree, err = pattern.Compile(src, it.types)
		if err != nil {
			return nil, err
		}
	}
	matched, err := tree.Match(tokens[consumed:])
	if err != nil {
		return nil, err
	}
	return it.translate(tree, matched), nil
}

// translate rewrites binding keys from short flag names to long parameter
// names and fills in defaults for declared parameters the input omitted.
func (it *Interface) translate(tree *pattern.Tree, matched pattern.Bindings) pattern.Bindings {
	out := make(pattern.Bindings, len(matched))
	for key, val := range matched {
		if p, ok := it.byFlag[key]; ok {
			out[bindingKey(p)] = val
			continue
		}
		out[key] = val
	}
	for _, name := range tree.Flags() {
		p, ok := it.byFlag[name]
		if !ok || p.Default == "" {
			continue
		}
		key := bindingKey(p)
		if _, present := out[key]; !present {
			out[key] = p.Default
		}
	}
	return out
}

func bindingKey(p Parameter) string {
	return strings.TrimLeft(p.Long, "-")
}
