// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

// Package mcpserver exposes drover's prompt execution and diagnostics as
// MCP tools, so agent frontends can drive providers over the protocol.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/drover/internal/config"
)

// New creates a new MCP server with drover's tools registered.
func New(cfg *config.Config, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "drover",
		Title:   "Drover — LLM Provider Adapter",
		Version: version,
	}, nil)

	registerTools(server, newToolDeps(cfg))
	return server
}

// Run creates an MCP server and runs it on the given transport.
// It blocks until the client disconnects or the context is cancelled.
func Run(ctx context.Context, cfg *config.Config, version string, transport mcp.Transport) error {
	server := New(cfg, version)
	return server.Run(ctx, transport)
}
