// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clipfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brasspots/clip/pkg/clip"
	"github.com/brasspots/clip/pkg/pattern"
)

const tomlDefinition = `
script = "deploy"
short  = "push a build to a host"
long   = "deploy uploads a build artifact and restarts the service."

[commands]
status = "[-v|-q]"

[commands.release]
push = "-t <STR> [-f|-n] <PATH>"

[[parameters]]
flag        = "-v"
long        = "--verbose"
description = "print every step"

[[parameters]]
flag    = "-t"
long    = "--transport"
default = "ssh"
`

const yamlDefinition = `
script: deploy
short: push a build to a host
commands:
  status: "[-v|-q]"
  release:
    push: "-t <STR> [-f|-n] <PATH>"
parameters:
  - flag: "-v"
    long: "--verbose"
    description: print every step
  - flag: "-t"
    long: "--transport"
    default: ssh
`

func writeDefinition(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"toml", "cli.toml", tomlDefinition},
		{"yaml", "cli.yaml", yamlDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeDefinition(t, tt.file, tt.body))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if cfg.ScriptName != "deploy" {
				t.Errorf("ScriptName = %q, want deploy", cfg.ScriptName)
			}

			it, err := clip.New(cfg)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			got, err := it.Parse([]string{"deploy", "release", "push", "-t", "rsync", "-f", "build.tar"})
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got["transport"] != "rsync" {
				t.Errorf("transport = %v, want rsync", got["transport"])
			}
			if got[pattern.PositionalKey] != "build.tar" {
				t.Errorf("positional = %v, want build.tar", got[pattern.PositionalKey])
			}
		})
	}
}

func TestLoadTopLevelPattern(t *testing.T) {
	path := writeDefinition(t, "cli.toml", `
script  = "lines"
pattern = "[-n <INT>|-a] <PATH>"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	it, err := clip.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := it.Parse([]string{"lines", "-n", "10", "access.log"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got["n"] != int64(10) {
		t.Errorf("n = %v, want 10", got["n"])
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
		want string
	}{
		{"unsupported format", "cli.json", `{}`, "unsupported definition format"},
		{"missing script", "cli.toml", `pattern = "-a"`, "missing script name"},
		{"missing commands", "cli.toml", `script = "x"`, "missing pattern or commands"},
		{
			"pattern and commands",
			"cli.toml",
			"script = \"x\"\npattern = \"-a\"\n[commands]\npush = \"-a\"\n",
			"mutually exclusive",
		},
		{
			"bad command value",
			"cli.toml",
			"script = \"x\"\n[commands]\npush = 5\n",
			"must be a pattern string or a table",
		},
		{
			"parameter without long name",
			"cli.toml",
			"script = \"x\"\npattern = \"-a\"\n[[parameters]]\nflag = \"-a\"\n",
			"no long name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeDefinition(t, tt.file, tt.body))
			if err == nil {
				t.Fatalf("Load succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load(missing file) succeeded")
	}
}
