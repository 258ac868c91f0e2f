package main

import "testing"

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Error("Version must have a build-time default")
	}
}

func TestVersionCommandRegistered(t *testing.T) {
	for _, c := range rootCmd.Commands() {
		if c.Use == "version" {
			return
		}
	}
	t.Error("version subcommand not registered")
}
