// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

// Package config builds the immutable runtime configuration for drover.
//
// Configuration is read once at startup (environment, optional .env file,
// optional global config file) into a Config value that is passed explicitly
// to every component. Business logic never reads the process environment
// directly.
package config

import (
	"fmt"
	"strings"
)

// Provider identifies an LLM back-end.
type Provider string

const (
	// ProviderAnthropic is the primary provider, served through the
	// Claude Code CLI.
	ProviderAnthropic Provider = "anthropic"

	// ProviderOpenAI is the secondary provider, served through the
	// OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"

	// ProviderNone means no provider is enabled and keyed. It is a valid
	// configuration state, not an error.
	ProviderNone Provider = "none"
)

// Config holds all runtime configuration. The zero value is usable but has
// every provider disabled; use FromEnv or Load to populate it.
type Config struct {
	// Provider enablement flags. Anthropic defaults to enabled and OpenAI
	// to disabled; the asymmetry is deliberate backward compatibility with
	// earlier releases that only knew about Anthropic.
	AnthropicEnabled bool
	OpenAIEnabled    bool

	// API keys. An empty key counts as absent.
	AnthropicAPIKey string
	OpenAIAPIKey    string

	// ClaudeCodePath is the Claude Code CLI executable, resolved via PATH
	// when not absolute.
	ClaudeCodePath string

	// RootDir anchors the agents/ output tree. Defaults to the working
	// directory.
	RootDir string

	// DefaultModel is used when a request does not name a model.
	DefaultModel string

	// GitHubToken, when set, is exported to the CLI process as both
	// GITHUB_PAT and GH_TOKEN and used for issue comments.
	GitHubToken string

	// E2BAPIKey is passed through for cloud sandbox sessions.
	E2BAPIKey string

	// MaintainProjectWorkingDir keeps CLI bash sessions rooted at the
	// project directory.
	MaintainProjectWorkingDir bool
}

// IsEnabled reports whether the given provider's enablement flag is set.
func (c *Config) IsEnabled(p Provider) bool {
	switch p {
	case ProviderAnthropic:
		return c.AnthropicEnabled
	case ProviderOpenAI:
		return c.OpenAIEnabled
	default:
		return false
	}
}

// HasKey reports whether a non-empty credential is configured for the
// given provider.
func (c *Config) HasKey(p Provider) bool {
	switch p {
	case ProviderAnthropic:
		return c.AnthropicAPIKey != ""
	case ProviderOpenAI:
		return c.OpenAIAPIKey != ""
	default:
		return false
	}
}

// ActiveProvider returns the first provider, in fixed priority order
// (Anthropic, then OpenAI), that is both enabled and keyed. It returns
// ProviderNone when neither qualifies.
func (c *Config) ActiveProvider() Provider {
	if c.IsEnabled(ProviderAnthropic) && c.HasKey(ProviderAnthropic) {
		return ProviderAnthropic
	}
	if c.IsEnabled(ProviderOpenAI) && c.HasKey(ProviderOpenAI) {
		return ProviderOpenAI
	}
	return ProviderNone
}

// Validate returns nil when at least one provider is active, otherwise an
// error describing what is missing from the configuration.
func (c *Config) Validate() error {
	if c.ActiveProvider() != ProviderNone {
		return nil
	}

	var problems []string
	if c.AnthropicEnabled && c.AnthropicAPIKey == "" {
		problems = append(problems, "ANTHROPIC_ENABLED=true but ANTHROPIC_API_KEY is not set")
	}
	if c.OpenAIEnabled && c.OpenAIAPIKey == "" {
		problems = append(problems, "OPENAI_ENABLED=true but OPENAI_API_KEY is not set")
	}
	if !c.AnthropicEnabled && !c.OpenAIEnabled {
		problems = append(problems, "no LLM provider enabled; set ANTHROPIC_ENABLED=true or OPENAI_ENABLED=true")
	}
	if len(problems) == 0 {
		problems = append(problems, "no LLM provider configured")
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}
