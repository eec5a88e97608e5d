// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package clipfile loads a clip.Config from a declarative definition file,
// so shell scripts and programs without their own Go code can describe
// their command line in TOML or YAML:
//
//	script = "deploy"
//	short  = "push a build to a host"
//
//	[commands]
//	status = "[-v|-q]"
//	[commands.release]
//	push = "-t <STR> [-f|-n] <PATH>"
//
//	[[parameters]]
//	flag        = "-v"
//	long        = "--verbose"
//	description = "print every step"
//
// Nested tables form command tree branches; string values are leaf
// patterns. A script without sub-commands declares a top-level `pattern`
// key instead of a commands table.
package clipfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/brasspots/clip/pkg/clip"
	"github.com/brasspots/clip/pkg/cmdtree"
)

type document struct {
	Script     string         `toml:"script" yaml:"script"`
	Short      string         `toml:"short" yaml:"short"`
	Long       string         `toml:"long" yaml:"long"`
	Pattern    string         `toml:"pattern" yaml:"pattern"`
	Commands   map[string]any `toml:"commands" yaml:"commands"`
	Parameters []parameter    `toml:"parameters" yaml:"parameters"`
}

type parameter struct {
	Flag        string `toml:"flag" yaml:"flag"`
	Long        string `toml:"long" yaml:"long"`
	Description string `toml:"description" yaml:"description"`
	Default     string `toml:"default" yaml:"default"`
}

// Load reads a definition file and returns the clip.Config it describes.
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (clip.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return clip.Config{}, err
	}
	return parse(path, data)
}

func parse(path string, data []byte) (clip.Config, error) {
	var doc document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return clip.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return clip.Config{}, fmt.Errorf("%s: %w", path, err)
		}
	default:
		return clip.Config{}, fmt.Errorf("%s: unsupported definition format %q", path, ext)
	}
	return doc.config(path)
}

func (doc document) config(path string) (clip.Config, error) {
	if doc.Script == "" {
		return clip.Config{}, fmt.Errorf("%s: missing script name", path)
	}
	if doc.Pattern != "" && doc.Commands != nil {
		return clip.Config{}, fmt.Errorf("%s: pattern and commands are mutually exclusive", path)
	}

	var commands *cmdtree.Node
	switch {
	case doc.Pattern != "":
		commands = cmdtree.Leaf(doc.Pattern)
	case doc.Commands != nil:
		node, err := buildTree(path, nil, doc.Commands)
		if err != nil {
			return clip.Config{}, err
		}
		commands = node
	default:
		return clip.Config{}, fmt.Errorf("%s: missing pattern or commands", path)
	}

	params := make([]clip.Parameter, 0, len(doc.Parameters))
	for _, p := range doc.Parameters {
		if p.Long == "" {
			return clip.Config{}, fmt.Errorf("%s: parameter %q has no long name", path, p.Flag)
		}
		params = append(params, clip.Parameter{
			Flag:        p.Flag,
			Long:        p.Long,
			Description: p.Description,
			Default:     p.Default,
		})
	}

	return clip.Config{
		ScriptName:       doc.Script,
		ShortDescription: doc.Short,
		LongDescription:  doc.Long,
		Commands:         commands,
		Parameters:       params,
	}, nil
}

// buildTree converts the decoded commands value into a command tree:
// strings become leaves, nested maps become branches.
func buildTree(path string, words []string, table map[string]any) (*cmdtree.Node, error) {
	children := make(map[string]*cmdtree.Node, len(table))
	for word, val := range table {
		switch v := val.(type) {
		case string:
			children[word] = cmdtree.Leaf(v)
		case map[string]any:
			child, err := buildTree(path, append(words, word), v)
			if err != nil {
				return nil, err
			}
			children[word] = child
		default:
			return nil, fmt.Errorf("%s: command %q must be a pattern string or a table, got %T",
				path, strings.Join(append(words, word), " "), val)
		}
	}
	return cmdtree.Branch(children), nil
}
