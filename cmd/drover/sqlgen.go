// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/llm"
	"github.com/davetashner/drover/internal/sqlgen"
)

// Sqlgen command flag values.
var (
	sqlgenDB      string
	sqlgenExecute bool
)

var sqlgenCmd = &cobra.Command{
	Use:   "sqlgen <question>",
	Short: "Generate a SQLite query from a natural language question",
	Long: `Introspect the schema of a SQLite database and ask the configured
LLM provider to translate a natural language question into a query. With
--execute, the generated query is also run and its rows printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfigError, "loading configuration: %v", err)
		}

		provider, err := apiProvider(cfg)
		if err != nil {
			return err
		}

		store, err := sqlgen.Open(sqlgenDB)
		if err != nil {
			return exitError(ExitFailure, "%v", err)
		}
		defer store.Close() //nolint:errcheck

		query, err := sqlgen.NewGenerator(store, provider).Generate(cmd.Context(), args[0])
		if err != nil {
			return exitError(ExitRunFailure, "%v", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), query)

		if !sqlgenExecute {
			return nil
		}

		cols, rows, err := store.Query(cmd.Context(), query)
		if err != nil {
			return exitError(ExitRunFailure, "generated query failed: %v", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, strings.Join(cols, "\t"))
		for _, row := range rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return w.Flush()
	},
}

// apiProvider builds a direct API provider for the active configuration.
// Unlike prompt execution, SQL generation never goes through the CLI.
func apiProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.ActiveProvider() {
	case config.ProviderAnthropic:
		return llm.NewAnthropicProvider(llm.WithAnthropicAPIKey(cfg.AnthropicAPIKey))
	case config.ProviderOpenAI:
		return llm.NewOpenAIProvider(llm.WithOpenAIAPIKey(cfg.OpenAIAPIKey))
	default:
		return nil, exitError(ExitConfigError, "no LLM provider configured: %v", cfg.Validate())
	}
}

func init() {
	sqlgenCmd.Flags().StringVar(&sqlgenDB, "db", "", "path to the SQLite database (required)")
	sqlgenCmd.Flags().BoolVar(&sqlgenExecute, "execute", false, "run the generated query and print its rows")
	_ = sqlgenCmd.MarkFlagRequired("db")
}
