// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/ghreport"
	"github.com/davetashner/drover/internal/health"
)

// Health command flag values.
var (
	healthLive  bool
	healthJSON  bool
	healthRepo  string
	healthIssue int
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Run preflight diagnostics",
	Long: `Check that drover can execute prompts: provider configuration,
git repository state, and Claude Code CLI availability. With --live, a
trivial test prompt is also sent through the configured provider. With
--issue and --repo, the report is posted as a GitHub issue comment.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfigError, "loading configuration: %v", err)
		}

		if healthIssue > 0 && healthRepo == "" {
			return exitError(ExitFailure, "--issue requires --repo")
		}

		checker := health.NewChecker(cfg, health.WithLiveTest(healthLive))
		report := checker.Run(cmd.Context())

		if healthJSON {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("rendering report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			health.Render(cmd.OutOrStdout(), report)
		}

		if healthIssue > 0 {
			if err := commentHealthReport(cmd, cfg, report); err != nil {
				return exitError(ExitFailure, "%v", err)
			}
		}

		if !report.Healthy() {
			return exitError(ExitRunFailure, "")
		}
		return nil
	},
}

// commentHealthReport posts the report to the configured GitHub issue.
func commentHealthReport(cmd *cobra.Command, cfg *config.Config, report *health.Report) error {
	if cfg.GitHubToken == "" {
		return fmt.Errorf("posting to GitHub requires %s", config.EnvGitHubPAT)
	}

	reporter, err := ghreport.NewReporter(cfg.GitHubToken, healthRepo)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}

	status := "✅ healthy"
	if !report.Healthy() {
		status = "❌ unhealthy"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "### Drover health report — %s\n\n", status)
	b.WriteString("```json\n")
	b.Write(data)
	b.WriteString("\n```\n")

	return reporter.Comment(cmd.Context(), healthIssue, b.String())
}

func init() {
	healthCmd.Flags().BoolVar(&healthLive, "live", false, "send a live test prompt through the configured provider")
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "emit the report as JSON")
	healthCmd.Flags().StringVar(&healthRepo, "repo", "", "GitHub repository URL for --issue")
	healthCmd.Flags().IntVar(&healthIssue, "issue", 0, "post the report as a comment on this issue number")
}
