// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/testable"
)

const (
	// RunTimeout bounds one CLI invocation. Not configurable per call; the
	// caller decides whether to re-issue a timed-out request.
	RunTimeout = 5 * time.Minute

	// probeTimeout bounds the preflight version check.
	probeTimeout = 10 * time.Second
)

// ErrExecutableMissing reports that the Claude Code CLI could not be found
// or is not functional. The router uses it to decide whether to fall back
// to the OpenAI path.
var ErrExecutableMissing = errors.New("claude code CLI is not installed")

// Executor runs prompts through the Claude Code CLI, capturing the
// stream-json output to a file and extracting the terminal result record.
type Executor struct {
	cfg        *config.Config
	exec       testable.CommandExecutor
	runTimeout time.Duration
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithCommandExecutor substitutes the subprocess layer, for tests.
func WithCommandExecutor(ce testable.CommandExecutor) ExecutorOption {
	return func(e *Executor) {
		e.exec = ce
	}
}

// WithRunTimeout overrides the CLI invocation timeout, for tests.
func WithRunTimeout(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.runTimeout = d
	}
}

// NewExecutor creates an Executor bound to the given configuration.
func NewExecutor(cfg *config.Config, opts ...ExecutorOption) *Executor {
	e := &Executor{
		cfg:        cfg,
		exec:       testable.DefaultExecutor(),
		runTimeout: RunTimeout,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// CheckInstalled probes the CLI with a cheap --version call. It returns an
// error wrapping ErrExecutableMissing when the binary is absent or not
// functional. When Anthropic is disabled the CLI is not required and the
// check passes without running anything.
func (e *Executor) CheckInstalled(ctx context.Context) error {
	if !e.cfg.IsEnabled(config.ProviderAnthropic) {
		return nil
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := e.exec.CommandContext(probeCtx, e.cfg.ClaudeCodePath, "--version")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: expected at %q", ErrExecutableMissing, e.cfg.ClaudeCodePath)
	}
	slog.Debug("claude code CLI found", "version", strings.TrimSpace(out.String()))
	return nil
}

// Run executes one prompt through the CLI. Every outcome — including
// process failure, timeout, and missing output — is reported as a
// PromptResponse; Run never returns an error.
func (e *Executor) Run(ctx context.Context, req PromptRequest) PromptResponse {
	if _, err := SavePrompt(e.cfg.RootDir, req.Prompt, req.RunID, req.AgentName); err != nil {
		slog.Warn("prompt audit write failed", "error", err)
	}

	if dir := filepath.Dir(req.OutputFile); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return failure(fmt.Sprintf("error creating output directory: %v", err))
		}
	}

	args := []string{"-p", req.Prompt, "--model", req.Model, "--output-format", "stream-json", "--verbose"}
	if req.DangerouslySkipPermissions {
		args = append(args, "--dangerously-skip-permissions")
	}

	runCtx, cancel := context.WithTimeout(ctx, e.runTimeout)
	defer cancel()

	cmd := e.exec.CommandContext(runCtx, e.cfg.ClaudeCodePath, args...)
	cmd.Env = e.cfg.Environ()

	f, err := os.Create(req.OutputFile) //nolint:gosec // caller-supplied output path
	if err != nil {
		return failure(fmt.Sprintf("error creating output file: %v", err))
	}
	var stderr bytes.Buffer
	cmd.Stdout = f
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if closeErr := f.Close(); closeErr != nil {
		slog.Warn("closing output file", "error", closeErr)
	}

	if runErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return failure(fmt.Sprintf("Claude Code command timed out after %s", e.runTimeout))
		}
		if stderrText := strings.TrimSpace(stderr.String()); stderrText != "" {
			return failure(fmt.Sprintf("Claude Code error: %s", stderrText))
		}
		return failure(fmt.Sprintf("error executing Claude Code: %v", runErr))
	}

	slog.Debug("claude code output captured", "path", req.OutputFile)
	return e.postProcess(req.OutputFile)
}

// postProcess parses the captured stream, materializes the JSON-array
// sibling, and derives the response from the terminal record. A stream with
// no terminal record yields the raw file content with Success=true.
func (e *Executor) postProcess(outputFile string) PromptResponse {
	records, result, err := ParseStream(outputFile)
	if err != nil {
		slog.Warn("parsing stream output", "file", outputFile, "error", err)
	} else if path, werr := WriteArrayFile(outputFile, records); werr != nil {
		slog.Warn("writing record array", "error", werr)
	} else {
		slog.Debug("wrote record array", "path", path)
	}

	if result != nil {
		return PromptResponse{
			Output:    result.Result,
			Success:   !result.IsError,
			SessionID: result.SessionID,
		}
	}

	raw, rerr := os.ReadFile(outputFile) //nolint:gosec // same path just written
	if rerr != nil {
		return failure(fmt.Sprintf("error reading output file: %v", rerr))
	}
	return PromptResponse{Output: string(raw), Success: true}
}
