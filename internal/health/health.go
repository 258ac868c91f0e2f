// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

// Package health implements preflight diagnostics: provider configuration,
// git repository state, Claude Code CLI availability, and an optional live
// round-trip prompt.
package health

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"golang.org/x/sync/errgroup"

	"github.com/davetashner/drover/internal/agent"
	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/testable"
)

// Status classifies one check outcome.
type Status string

const (
	StatusOK   Status = "ok"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

const (
	// probeTimeout bounds the CLI version probe.
	probeTimeout = 10 * time.Second

	// liveTestTimeout bounds the optional round-trip prompt.
	liveTestTimeout = 60 * time.Second

	// liveTestPrompt is intentionally trivial so any working provider
	// answers it.
	liveTestPrompt = "What is 2+2?"
)

// CheckResult is one named diagnostic outcome.
type CheckResult struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Report aggregates all check results for one run.
type Report struct {
	CheckedAt time.Time     `json:"checked_at"`
	Results   []CheckResult `json:"results"`
}

// Healthy reports whether no check failed. Warnings and skips do not count
// as failures.
func (r *Report) Healthy() bool {
	for _, res := range r.Results {
		if res.Status == StatusFail {
			return false
		}
	}
	return true
}

// Checker runs the diagnostic suite against one configuration.
type Checker struct {
	cfg      *config.Config
	exec     testable.CommandExecutor
	router   *agent.Router
	liveTest bool
}

// Option configures a Checker.
type Option func(*Checker)

// WithCommandExecutor substitutes the subprocess layer, for tests.
func WithCommandExecutor(ce testable.CommandExecutor) Option {
	return func(c *Checker) {
		c.exec = ce
	}
}

// WithRouter substitutes the execution router used by the live test.
func WithRouter(r *agent.Router) Option {
	return func(c *Checker) {
		c.router = r
	}
}

// WithLiveTest enables the round-trip prompt check. It is off by default
// because it spends provider tokens.
func WithLiveTest(enabled bool) Option {
	return func(c *Checker) {
		c.liveTest = enabled
	}
}

// NewChecker creates a Checker bound to the given configuration.
func NewChecker(cfg *config.Config, opts ...Option) *Checker {
	c := &Checker{
		cfg:  cfg,
		exec: testable.DefaultExecutor(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.router == nil {
		c.router = agent.NewRouter(cfg)
	}
	return c
}

// Run executes all checks concurrently and returns the aggregated report.
// Check order in the report is stable regardless of completion order.
func (c *Checker) Run(ctx context.Context) *Report {
	checks := []func(context.Context) CheckResult{
		c.checkEnvironment,
		c.checkGitRepository,
		c.checkClaudeCLI,
		c.checkLivePrompt,
	}

	results := make([]CheckResult, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			results[i] = check(gctx)
			return nil
		})
	}
	// Checks report through the results slice and never return an error.
	_ = g.Wait()

	return &Report{CheckedAt: time.Now().UTC(), Results: results}
}

// checkEnvironment verifies that at least one provider is enabled and keyed.
func (c *Checker) checkEnvironment(_ context.Context) CheckResult {
	res := CheckResult{Name: "environment"}

	active := c.cfg.ActiveProvider()
	if active == config.ProviderNone {
		res.Status = StatusFail
		res.Detail = c.cfg.Validate().Error()
		return res
	}

	if err := c.cfg.Validate(); err != nil {
		// Usable, but something is half-configured.
		res.Status = StatusWarn
		res.Detail = fmt.Sprintf("active provider: %s; %v", active, err)
		return res
	}

	res.Status = StatusOK
	res.Detail = fmt.Sprintf("active provider: %s", active)
	return res
}

// checkGitRepository reports whether the root directory is a git repository
// with an origin remote. Absence is a warning, not a failure: prompts still
// run, but agents lose repository context.
func (c *Checker) checkGitRepository(_ context.Context) CheckResult {
	res := CheckResult{Name: "git repository"}

	repo, err := git.PlainOpen(c.cfg.RootDir)
	if err != nil {
		res.Status = StatusWarn
		res.Detail = fmt.Sprintf("%s is not a git repository", c.cfg.RootDir)
		return res
	}

	remotes, err := repo.Remotes()
	if err != nil {
		res.Status = StatusWarn
		res.Detail = fmt.Sprintf("listing remotes: %v", err)
		return res
	}

	for _, r := range remotes {
		if r.Config().Name == "origin" && len(r.Config().URLs) > 0 {
			res.Status = StatusOK
			res.Detail = fmt.Sprintf("origin: %s", r.Config().URLs[0])
			return res
		}
	}

	res.Status = StatusWarn
	res.Detail = "no origin remote configured"
	return res
}

// checkClaudeCLI probes the CLI with --version. Skipped when Anthropic is
// disabled, since the CLI is only required on the primary path.
func (c *Checker) checkClaudeCLI(ctx context.Context) CheckResult {
	res := CheckResult{Name: "claude CLI"}

	if !c.cfg.IsEnabled(config.ProviderAnthropic) {
		res.Status = StatusSkip
		res.Detail = "anthropic provider disabled"
		return res
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := c.exec.CommandContext(probeCtx, c.cfg.ClaudeCodePath, "--version")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		res.Status = StatusFail
		res.Detail = fmt.Sprintf("%q not found or not functional", c.cfg.ClaudeCodePath)
		return res
	}

	res.Status = StatusOK
	res.Detail = strings.TrimSpace(out.String())
	return res
}

// checkLivePrompt sends a trivial prompt through the router and verifies a
// successful response comes back.
func (c *Checker) checkLivePrompt(ctx context.Context) CheckResult {
	res := CheckResult{Name: "test prompt"}

	if !c.liveTest {
		res.Status = StatusSkip
		res.Detail = "live test disabled; enable with --live"
		return res
	}

	liveCtx, cancel := context.WithTimeout(ctx, liveTestTimeout)
	defer cancel()

	resp := c.router.Execute(liveCtx, agent.PromptRequest{Prompt: liveTestPrompt})
	if !resp.Success {
		res.Status = StatusFail
		res.Detail = resp.Output
		return res
	}

	res.Status = StatusOK
	res.Detail = fmt.Sprintf("provider answered (%d bytes)", len(resp.Output))
	return res
}
