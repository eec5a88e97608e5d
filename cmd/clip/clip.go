// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command clip validates script arguments against a declarative definition
// file, so shell scripts get pattern-checked command lines without writing
// any parsing code:
//
//	clip lint cli.toml
//	clip help cli.toml
//	eval "$(clip check cli.toml -- "$0" "$@")"
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"github.com/brasspots/clip/pkg/clip"
	"github.com/brasspots/clip/pkg/clipfile"
	"github.com/brasspots/clip/pkg/cmdtree"
	"github.com/brasspots/clip/pkg/pattern"
)

func newInterface() (*clip.Interface, error) {
	return clip.New(clip.Config{
		ScriptName:       "clip",
		ShortDescription: "validate script arguments against a pattern definition",
		LongDescription: "clip reads a TOML or YAML definition describing a script's sub-commands, " +
			"usage patterns and parameters, then checks real arguments against it. " +
			"check prints the matched bindings (eval-able name=value lines, or JSON with -j); " +
			"arguments to validate follow a -- separator. " +
			"lint compiles every pattern in the definition and reports the first grammar error. " +
			"help renders the definition's help message.",
		Commands: cmdtree.Branch(map[string]*cmdtree.Node{
			"check": cmdtree.Leaf("[-j|-q] <PATH>"),
			"help":  cmdtree.Leaf("<PATH>"),
			"lint":  cmdtree.Leaf("<PATH>"),
		}),
		Parameters: []clip.Parameter{
			{Flag: "-j", Long: "--json", Description: "print bindings as JSON"},
			{Flag: "-q", Long: "--quiet", Description: "report only via the exit code"},
		},
	})
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("clip: ")

	self, err := newInterface()
	if err != nil {
		// Our own configuration is static, so this is a build defect.
		log.Fatal(err)
	}

	own, scriptArgs := splitAtDoubleDash(os.Args)
	bindings, err := self.Parse(own)
	if err != nil {
		var unknown *cmdtree.UnknownCommandError
		if errors.As(err, &unknown) && unknown.Token == "" {
			self.WriteHelp(os.Stderr)
			os.Exit(clip.ExitUsage)
		}
		self.PrintError(os.Stderr, err)
		os.Exit(clip.ExitCode(err))
	}

	file := bindings[pattern.PositionalKey].(string)
	switch own[1] {
	case "check":
		err = runCheck(file, scriptArgs, bindings["json"] != nil, bindings["quiet"] != nil)
	case "help":
		err = runHelp(file)
	case "lint":
		err = runLint(file)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "clip: %s\n", clip.FormatError(err))
		os.Exit(clip.ExitCode(err))
	}
}

// splitAtDoubleDash separates clip's own arguments from the script
// arguments to validate.
func splitAtDoubleDash(args []string) ([]string, []string) {
	for i, arg := range args {
		if arg == "--" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

func loadInterface(file string) (*clip.Interface, error) {
	cfg, err := clipfile.Load(file)
	if err != nil {
		return nil, err
	}
	return clip.New(cfg)
}

// runCheck validates scriptArgs (script name first, per os.Args) against
// the definition and prints the bindings.
func runCheck(file string, scriptArgs []string, asJSON, quiet bool) error {
	target, err := loadInterface(file)
	if err != nil {
		return err
	}
	if len(scriptArgs) == 0 {
		scriptArgs = []string{target.ScriptName()}
	}
	bindings, err := target.Parse(scriptArgs)
	if err != nil {
		if !quiet {
			target.PrintError(os.Stderr, err)
		}
		os.Exit(clip.ExitCode(err))
	}
	if quiet {
		return nil
	}
	if asJSON {
		out, err := json.MarshalIndent(bindings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	keys := make([]string, 0, len(bindings))
	for key := range bindings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("%s=%s\n", shellName(key), shellQuote(fmt.Sprintf("%v", bindings[key])))
	}
	return nil
}

func runHelp(file string) error {
	target, err := loadInterface(file)
	if err != nil {
		return err
	}
	return target.WriteHelp(os.Stdout)
}

func runLint(file string) error {
	cfg, err := clipfile.Load(file)
	if err != nil {
		return err
	}
	if _, err := clip.New(cfg); err != nil {
		return err
	}
	patterns := 0
	cfg.Commands.Walk(func(path []string, src string) error {
		patterns++
		return nil
	})
	fmt.Printf("ok: %d pattern(s)\n", patterns)
	return nil
}

// shellName maps a binding key to something assignable in shell. The
// positional sentinel becomes "value".
func shellName(key string) string {
	if key == pattern.PositionalKey {
		return "value"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, key)
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
