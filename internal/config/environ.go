// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"strconv"
	"strings"
)

// Environ returns the environment for a Claude Code CLI invocation: the
// inherited process environment plus an overlay of drover's configuration
// variables. Only non-empty overlay values replace or extend the inherited
// set, so system variables (PATH, and on Windows APPDATA, LOCALAPPDATA,
// TEMP, USERPROFILE) pass through untouched.
func (c *Config) Environ() []string {
	overlay := map[string]string{
		EnvAnthropicAPIKey:  c.AnthropicAPIKey,
		EnvOpenAIAPIKey:     c.OpenAIAPIKey,
		EnvAnthropicEnabled: strconv.FormatBool(c.AnthropicEnabled),
		EnvOpenAIEnabled:    strconv.FormatBool(c.OpenAIEnabled),
		EnvClaudeCodePath:   c.ClaudeCodePath,
		EnvMaintainWorkDir:  strconv.FormatBool(c.MaintainProjectWorkingDir),
		EnvE2BAPIKey:        c.E2BAPIKey,
	}

	// The CLI reads GH_TOKEN; GITHUB_PAT is kept for hooks that expect it.
	if c.GitHubToken != "" {
		overlay[EnvGitHubPAT] = c.GitHubToken
		overlay[EnvGHToken] = c.GitHubToken
	}

	return mergeEnv(os.Environ(), overlay)
}

// mergeEnv overlays key=value pairs onto a base environment, preserving the
// base ordering. Empty overlay values are ignored rather than unsetting the
// inherited variable.
func mergeEnv(base []string, overlay map[string]string) []string {
	out := make([]string, 0, len(base)+len(overlay))
	seen := make(map[string]bool, len(overlay))

	for _, kv := range base {
		k, _, ok := strings.Cut(kv, "=")
		if ok {
			if v, hit := overlay[k]; hit && v != "" {
				out = append(out, k+"="+v)
				seen[k] = true
				continue
			}
		}
		out = append(out, kv)
	}

	for k, v := range overlay {
		if v == "" || seen[k] {
			continue
		}
		out = append(out, k+"="+v)
	}
	return out
}
