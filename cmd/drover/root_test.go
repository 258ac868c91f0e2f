package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootHelp(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--help"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("root --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Claude Code CLI") {
		t.Errorf("root help missing description, got:\n%s", out)
	}
	for _, sub := range []string{"prompt", "health", "sqlgen", "mcp", "version"} {
		if !strings.Contains(out, sub) {
			t.Errorf("root help missing %s subcommand, got:\n%s", sub, out)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		flag string
	}{
		{"verbose", "--verbose"},
		{"quiet", "--quiet"},
		{"no-color", "--no-color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(strings.TrimPrefix(tt.flag, "--"))
			if f == nil {
				t.Errorf("global flag %s not registered", tt.flag)
			}
		})
	}

	// Verify shorthand aliases.
	v := rootCmd.PersistentFlags().ShorthandLookup("v")
	if v == nil || v.Name != "verbose" {
		t.Error("-v shorthand not registered for --verbose")
	}
	q := rootCmd.PersistentFlags().ShorthandLookup("q")
	if q == nil || q.Name != "quiet" {
		t.Error("-q shorthand not registered for --quiet")
	}
}
