package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	droverlog "github.com/davetashner/drover/internal/log"
)

// Global flag values.
var (
	verbose bool
	quiet   bool
	noColor bool
)

// rootCmd is the base command for drover.
var rootCmd = &cobra.Command{
	Use:   "drover",
	Short: "Drive coding agents through the Claude Code CLI with API fallback",
	Long: `Drover executes prompts through the Claude Code CLI, capturing the
stream-json output and extracting the final result. When the CLI or the
Anthropic provider is unavailable, requests transparently fall back to the
OpenAI chat completions API, producing the same output artifacts either way.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		droverlog.Setup(verbose, quiet)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(sqlgenCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
