package jvmargs

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/shell"
)

// SplitMode selects how a captured command line is broken into tokens.
type SplitMode string

const (
	// SplitPlain splits on single spaces, the way the launcher joined them.
	SplitPlain SplitMode = "plain"
	// SplitShell applies POSIX shell word splitting and quote removal.
	SplitShell SplitMode = "shell"
)

// commandLineSeparator is the separator used by the launcher when it captures
// the runtime command line into a single string.
const commandLineSeparator = " "

// ParseSplitMode validates a split mode name. The empty string selects plain.
func ParseSplitMode(s string) (SplitMode, error) {
	switch SplitMode(s) {
	case "", SplitPlain:
		return SplitPlain, nil
	case SplitShell:
		return SplitShell, nil
	default:
		return "", fmt.Errorf("invalid split mode %q: valid options: %s, %s", s, SplitPlain, SplitShell)
	}
}

// Split tokenizes a runtime command line. Carriage returns are stripped from
// every token. Plain mode keeps empty tokens; they are dropped by Filter.
func Split(commandLine string, mode SplitMode) ([]string, error) {
	switch mode {
	case "", SplitPlain:
		tokens := strings.Split(commandLine, commandLineSeparator)
		for i, tok := range tokens {
			tokens[i] = strings.ReplaceAll(tok, "\r", "")
		}
		return tokens, nil

	case SplitShell:
		// Variables are kept literal: the command line was already expanded
		// once by whoever launched the original JVM.
		// IFS stays unset so the default separators apply.
		literal := func(name string) string {
			if name == "IFS" {
				return ""
			}
			return "$" + name
		}
		fields, err := shell.Fields(strings.ReplaceAll(commandLine, "\r", ""), literal)
		if err != nil {
			return nil, fmt.Errorf("%w: split command line: %v", ErrParse, err)
		}
		return fields, nil

	default:
		return nil, fmt.Errorf("unknown split mode %q", mode)
	}
}
