// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by FromEnv.
const (
	EnvAnthropicEnabled = "ANTHROPIC_ENABLED"
	EnvOpenAIEnabled    = "OPENAI_ENABLED"
	EnvAnthropicAPIKey  = "ANTHROPIC_API_KEY"
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
	EnvClaudeCodePath   = "CLAUDE_CODE_PATH"
	EnvGitHubPAT        = "GITHUB_PAT"
	EnvGHToken          = "GH_TOKEN"
	EnvE2BAPIKey        = "E2B_API_KEY"
	EnvMaintainWorkDir  = "CLAUDE_BASH_MAINTAIN_PROJECT_WORKING_DIR"
)

// DefaultClaudeCodePath is used when CLAUDE_CODE_PATH is not set.
const DefaultClaudeCodePath = "claude"

// DefaultModel is used when neither the environment, the config file, nor
// the request names a model.
const DefaultModel = "sonnet"

// fileConfig mirrors the optional global config file
// ($XDG_CONFIG_HOME/drover/config.yaml). Environment variables win over
// file values.
type fileConfig struct {
	ClaudeCodePath string `yaml:"claude_code_path,omitempty"`
	DefaultModel   string `yaml:"default_model,omitempty"`
	RootDir        string `yaml:"root_dir,omitempty"`
}

// GlobalConfigDir returns the directory for global drover configuration.
// It uses $XDG_CONFIG_HOME/drover if set, otherwise ~/.config/drover.
func GlobalConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "drover")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "drover")
}

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() string {
	return filepath.Join(GlobalConfigDir(), "config.yaml")
}

func loadGlobalFile() (*fileConfig, error) {
	data, err := os.ReadFile(GlobalConfigPath()) //nolint:gosec // user config path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &fileConfig{}, nil
		}
		return nil, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// FromEnv builds a Config from the current process environment. Missing
// variables fall back to documented defaults: Anthropic enabled, OpenAI
// disabled, claude binary on PATH, working directory as root.
func FromEnv() *Config {
	cfg := &Config{
		AnthropicEnabled:          envBool(EnvAnthropicEnabled, true),
		OpenAIEnabled:             envBool(EnvOpenAIEnabled, false),
		AnthropicAPIKey:           os.Getenv(EnvAnthropicAPIKey),
		OpenAIAPIKey:              os.Getenv(EnvOpenAIAPIKey),
		ClaudeCodePath:            os.Getenv(EnvClaudeCodePath),
		GitHubToken:               os.Getenv(EnvGitHubPAT),
		E2BAPIKey:                 os.Getenv(EnvE2BAPIKey),
		MaintainProjectWorkingDir: envBool(EnvMaintainWorkDir, true),
	}

	if cfg.ClaudeCodePath == "" {
		cfg.ClaudeCodePath = DefaultClaudeCodePath
	}
	if cfg.RootDir == "" {
		cfg.RootDir, _ = os.Getwd()
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}
	return cfg
}

// Load builds the startup Config: it loads a .env file from the working
// directory when present, merges the optional global config file, and lets
// environment variables override both. File errors other than "not found"
// are returned so a malformed config file is not silently ignored.
func Load() (*Config, error) {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load()

	fc, err := loadGlobalFile()
	if err != nil {
		return nil, err
	}

	cfg := FromEnv()
	if os.Getenv(EnvClaudeCodePath) == "" && fc.ClaudeCodePath != "" {
		cfg.ClaudeCodePath = fc.ClaudeCodePath
	}
	if fc.DefaultModel != "" {
		cfg.DefaultModel = fc.DefaultModel
	}
	if fc.RootDir != "" {
		cfg.RootDir = fc.RootDir
	}
	return cfg, nil
}

// envBool reads a boolean flag, treating only the literal string "true"
// (case-insensitive) as true, matching historical behaviour.
func envBool(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def
	}
	return strings.EqualFold(v, "true")
}
