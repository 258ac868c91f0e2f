// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/davetashner/drover/internal/agent"
	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/ghreport"
)

// Prompt command flag values.
var (
	promptModel           string
	promptProvider        string
	promptAgent           string
	promptRunID           string
	promptOutput          string
	promptRepo            string
	promptIssue           int
	promptSkipPermissions bool
)

var promptCmd = &cobra.Command{
	Use:   "prompt <text>...",
	Short: "Execute a prompt through the configured LLM provider",
	Long: `Execute a prompt through the Claude Code CLI, falling back to the
OpenAI API when the CLI or the Anthropic provider is unavailable. The raw
stream-json output is captured to a file alongside a pretty-printed JSON
array sibling, and the final result text is printed to stdout.

With --issue and --repo, the run result is also posted as a GitHub issue
comment.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfigError, "loading configuration: %v", err)
		}

		provider, err := providerFromFlag(promptProvider)
		if err != nil {
			return exitError(ExitFailure, "%v", err)
		}

		if promptIssue > 0 && promptRepo == "" {
			return exitError(ExitFailure, "--issue requires --repo")
		}

		runID := promptRunID
		if runID == "" {
			runID = uuid.NewString()
		}
		agentName := promptAgent
		if agentName == "" {
			agentName = agent.DefaultAgentName
		}
		outputFile := promptOutput
		if outputFile == "" {
			outputFile = filepath.Join(cfg.RootDir, "agents", runID, agentName, "raw_output.jsonl")
		}

		router := agent.NewRouter(cfg)
		resp := router.Execute(cmd.Context(), agent.PromptRequest{
			Prompt:                     strings.Join(args, " "),
			RunID:                      runID,
			AgentName:                  agentName,
			Model:                      promptModel,
			Provider:                   provider,
			OutputFile:                 outputFile,
			DangerouslySkipPermissions: promptSkipPermissions,
		})

		fmt.Fprintln(cmd.OutOrStdout(), resp.Output)

		if promptIssue > 0 {
			if err := commentOnIssue(cmd, cfg, runID, resp); err != nil {
				return exitError(ExitFailure, "%v", err)
			}
		}

		if !resp.Success {
			// The failure text is already on stdout; just set the code.
			return exitError(ExitRunFailure, "")
		}
		return nil
	},
}

// commentOnIssue posts the run result to the configured GitHub issue.
func commentOnIssue(cmd *cobra.Command, cfg *config.Config, runID string, resp agent.PromptResponse) error {
	if cfg.GitHubToken == "" {
		return fmt.Errorf("posting to GitHub requires %s", config.EnvGitHubPAT)
	}

	reporter, err := ghreport.NewReporter(cfg.GitHubToken, promptRepo)
	if err != nil {
		return err
	}
	return reporter.CommentRunResult(cmd.Context(), promptIssue, runID, resp)
}

// providerFromFlag maps the --provider flag to a provider constant. Empty
// means automatic selection.
func providerFromFlag(s string) (config.Provider, error) {
	switch s {
	case "":
		return "", nil
	case string(config.ProviderAnthropic):
		return config.ProviderAnthropic, nil
	case string(config.ProviderOpenAI):
		return config.ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown provider %q (supported: anthropic, openai)", s)
	}
}

func init() {
	promptCmd.Flags().StringVarP(&promptModel, "model", "m", "", "Claude model name or alias (default: configured model)")
	promptCmd.Flags().StringVar(&promptProvider, "provider", "", "force a provider: anthropic or openai")
	promptCmd.Flags().StringVar(&promptAgent, "agent", "", "agent name used in output paths (default: ops)")
	promptCmd.Flags().StringVar(&promptRunID, "run-id", "", "run identifier (default: random UUID)")
	promptCmd.Flags().StringVarP(&promptOutput, "output", "o", "", "stream output file (default: under <root>/agents/)")
	promptCmd.Flags().StringVar(&promptRepo, "repo", "", "GitHub repository URL for --issue")
	promptCmd.Flags().IntVar(&promptIssue, "issue", 0, "post the run result as a comment on this issue number")
	promptCmd.Flags().BoolVar(&promptSkipPermissions, "skip-permissions", false, "pass --dangerously-skip-permissions to the CLI")
}
