// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/drover/internal/config"
)

func testServerConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OpenAIEnabled: true,
		OpenAIAPIKey:  "sk-oai-test",
		RootDir:       t.TempDir(),
		DefaultModel:  "sonnet",
	}
}

func TestNew_ReturnsServer(t *testing.T) {
	server := New(testServerConfig(t), "v1.0.0-test")
	assert.NotNil(t, server)
}

func TestServer_ListsTools(t *testing.T) {
	cfg := testServerConfig(t)
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, cfg, "v1.0.0-test", serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "v1.0.0",
	}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close() //nolint:errcheck // best-effort close in test

	result, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	require.Len(t, result.Tools, 2)

	names := make(map[string]bool)
	for _, tool := range result.Tools {
		names[tool.Name] = true
	}
	assert.True(t, names["prompt"], "should have prompt tool")
	assert.True(t, names["health"], "should have health tool")

	cancel()
}
