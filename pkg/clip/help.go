// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const helpIndent = "    "

var headerColor = color.New(color.Bold)

// WriteHelp renders the full help message: name and short description, one
// usage line per command path, the parameter table, and the long
// description wrapped to the terminal width.
func (it *Interface) WriteHelp(w io.Writer) error {
	var b strings.Builder

	b.WriteString(headerColor.Sprint("NAME:"))
	b.WriteString("\n")
	b.WriteString(helpIndent + it.cfg.ScriptName)
	if it.cfg.ShortDescription != "" {
		b.WriteString(" - " + it.cfg.ShortDescription)
	}
	b.WriteString("\n\n")

	b.WriteString(headerColor.Sprint("USAGE:"))
	b.WriteString("\n")
	err := it.cfg.Commands.Walk(func(path []string, src string) error {
		line := it.cfg.ScriptName
		if len(path) > 0 {
			line += " " + strings.Join(path, " ")
		}
		if src != "" {
			line += " " + src
		}
		b.WriteString(helpIndent + line + "\n")
		return nil
	})
	if err != nil {
		return err
	}

	if len(it.cfg.Parameters) > 0 {
		b.WriteString("\n")
		b.WriteString(headerColor.Sprint("PARAMETERS:"))
		b.WriteString("\n")
		tw := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
		for _, p := range it.cfg.Parameters {
			names := p.Long
			if p.Flag != "" {
				names = p.Flag + ", " + p.Long
			}
			desc := p.Description
			if p.Default != "" {
				desc += fmt.Sprintf(" (default: %s)", p.Default)
			}
			fmt.Fprintf(tw, "%s%s\t%s\n", helpIndent, names, strings.TrimSpace(desc))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if it.cfg.LongDescription != "" {
		b.WriteString("\n")
		for _, line := range wrap(it.cfg.LongDescription, helpWidth()) {
			b.WriteString(line + "\n")
		}
	}

	_, err = io.WriteString(w, b.String())
	return err
}

// helpWidth returns the terminal width when stdout is a terminal, with a
// conservative fallback for pipes and redirects.
func helpWidth() int {
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 20 {
		return cols
	}
	return 80
}

// wrap greedily breaks text into lines of at most width characters. Words
// longer than the width get a line of their own.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > width {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	return append(lines, line)
}
