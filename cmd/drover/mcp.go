// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/mcpserver"
)

// mcpCmd is the parent command for MCP-related subcommands.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server commands",
	Long:  "Commands for running drover as an MCP server, exposing prompt execution and health diagnostics to AI agents.",
}

// mcpServeCmd runs the MCP server over stdio.
var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `Start an MCP server on stdin/stdout, exposing drover's tools:
  - prompt: Execute a prompt through the configured LLM provider
  - health: Run preflight diagnostics

The server communicates using the Model Context Protocol (MCP) over stdio
transport, enabling AI agents to drive providers directly.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return exitError(ExitConfigError, "loading configuration: %v", err)
		}
		return mcpserver.Run(cmd.Context(), cfg, Version, &mcp.StdioTransport{})
	},
}

func init() {
	mcpCmd.AddCommand(mcpServeCmd)
}
