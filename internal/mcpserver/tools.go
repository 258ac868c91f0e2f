// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/davetashner/drover/internal/agent"
	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/health"
)

// PromptInput is the input schema for the drover prompt MCP tool.
type PromptInput struct {
	Prompt   string `json:"prompt" jsonschema:"The prompt text to execute"`
	Model    string `json:"model,omitempty" jsonschema:"Claude model name or alias (default: configured model)"`
	Provider string `json:"provider,omitempty" jsonschema:"Force a provider: anthropic or openai (default: automatic)"`
	Agent    string `json:"agent,omitempty" jsonschema:"Agent name used in output paths (default: ops)"`
}

// HealthInput is the input schema for the drover health MCP tool.
type HealthInput struct {
	Live bool `json:"live,omitempty" jsonschema:"Also send a live test prompt through the configured provider"`
}

// toolDeps carries the shared dependencies behind the tool handlers.
type toolDeps struct {
	cfg    *config.Config
	router *agent.Router
}

func newToolDeps(cfg *config.Config) *toolDeps {
	return &toolDeps{cfg: cfg, router: agent.NewRouter(cfg)}
}

// boolPtr returns a pointer to a bool.
func boolPtr(b bool) *bool { return &b }

// registerTools adds all drover tools to the MCP server.
func registerTools(server *mcp.Server, deps *toolDeps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "prompt",
		Description: "Execute a prompt through the configured LLM provider (Claude Code CLI, with OpenAI API fallback). Returns the final result text.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    false,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, deps.handlePrompt)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "health",
		Description: "Run preflight diagnostics: provider configuration, git repository state, and Claude Code CLI availability. Returns a JSON report.",
		Annotations: &mcp.ToolAnnotations{
			ReadOnlyHint:    true,
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(false),
		},
	}, deps.handleHealth)
}

func (d *toolDeps) handlePrompt(ctx context.Context, _ *mcp.CallToolRequest, input PromptInput) (*mcp.CallToolResult, any, error) {
	if input.Prompt == "" {
		return nil, nil, fmt.Errorf("prompt must not be empty")
	}

	provider, err := parseProvider(input.Provider)
	if err != nil {
		return nil, nil, err
	}

	resp := d.router.ExecuteTemplate(ctx, agent.TemplateRequest{
		SlashCommand: input.Prompt,
		AgentName:    input.Agent,
		Model:        input.Model,
		Provider:     provider,
	})

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: resp.Output},
		},
		IsError: !resp.Success,
	}, nil, nil
}

func (d *toolDeps) handleHealth(ctx context.Context, _ *mcp.CallToolRequest, input HealthInput) (*mcp.CallToolResult, any, error) {
	checker := health.NewChecker(d.cfg,
		health.WithRouter(d.router),
		health.WithLiveTest(input.Live),
	)
	report := checker.Run(ctx)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("rendering report: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
		IsError: !report.Healthy(),
	}, nil, nil
}

// parseProvider maps a tool input string to a provider constant.
func parseProvider(s string) (config.Provider, error) {
	switch s {
	case "":
		// Empty means automatic: the router picks per its decision table.
		return "", nil
	case string(config.ProviderAnthropic):
		return config.ProviderAnthropic, nil
	case string(config.ProviderOpenAI):
		return config.ProviderOpenAI, nil
	default:
		return config.ProviderNone, fmt.Errorf("unknown provider %q (supported: anthropic, openai)", s)
	}
}
