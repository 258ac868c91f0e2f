// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/llm"
	"github.com/davetashner/drover/internal/testable"
)

func openAIOnlyConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OpenAIEnabled:  true,
		OpenAIAPIKey:   "sk-oai-test",
		ClaudeCodePath: "claude",
		RootDir:        t.TempDir(),
		DefaultModel:   "sonnet",
	}
}

func TestExecute_NoProviderConfigured(t *testing.T) {
	cfg := &config.Config{RootDir: t.TempDir(), ClaudeCodePath: "claude", DefaultModel: "sonnet"}
	r := NewRouter(cfg)

	resp := r.Execute(context.Background(), PromptRequest{Prompt: "hello"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Output, "no LLM provider configured")
}

func TestExecute_ExplicitOpenAI(t *testing.T) {
	cfg := openAIOnlyConfig(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: "from openai"})
	r := NewRouter(cfg, WithFallbackProvider(mock))

	out := filepath.Join(cfg.RootDir, "out", "raw_output.jsonl")
	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "summarize this",
		Provider:   config.ProviderOpenAI,
		Model:      "sonnet",
		OutputFile: out,
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "from openai", resp.Output)
	assert.Empty(t, resp.SessionID, "API path must not populate CLI-only fields")

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "gpt-4o", calls[0].Model, "claude model mapped to openai equivalent")
	assert.Equal(t, 4096, calls[0].MaxTokens)
	require.NotNil(t, calls[0].Temperature)
	assert.InDelta(t, 0.7, *calls[0].Temperature, 0.001)

	// Synthetic stream artifacts mirror the CLI path.
	records, result, err := ParseStream(out)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, result)
	assert.False(t, result.IsError)
	assert.Equal(t, "from openai", result.Result)
	assert.Equal(t, "openai", result.Provider)
	assert.Equal(t, "gpt-4o", result.Model)
	require.NotNil(t, result.Usage)

	_, err = os.Stat(ArrayPath(out))
	assert.NoError(t, err)
}

func TestExecute_AnthropicRequestedButOnlyOpenAIActive(t *testing.T) {
	cfg := openAIOnlyConfig(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: "fallback answer"})
	r := NewRouter(cfg, WithFallbackProvider(mock))

	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "explain the build failure",
		Provider:   config.ProviderAnthropic,
		OutputFile: filepath.Join(cfg.RootDir, "out.jsonl"),
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "fallback answer", resp.Output)
	assert.Len(t, mock.Calls(), 1)
}

func TestExecute_DefaultPathUsesCLI(t *testing.T) {
	cfg := testConfig(t)
	cliMock := &testable.MockCommandExecutor{
		DefaultOutput: `{"type":"result","is_error":false,"result":"cli says hi","session_id":"s1"}`,
	}
	fallback := llm.NewMockProvider(llm.MockResponse{Content: "should not be used"})
	r := NewRouter(cfg,
		WithExecutor(NewExecutor(cfg, WithCommandExecutor(cliMock))),
		WithFallbackProvider(fallback),
	)

	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "hello",
		OutputFile: filepath.Join(cfg.RootDir, "out.jsonl"),
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "cli says hi", resp.Output)
	assert.Equal(t, "s1", resp.SessionID)
	assert.Empty(t, fallback.Calls())

	// Preflight probe plus the actual invocation.
	require.Len(t, cliMock.Calls, 2)
	assert.Equal(t, "claude --version", cliMock.Calls[0])
}

func TestExecute_FallbackWhenExecutableMissing(t *testing.T) {
	// Both providers configured; CLI absent.
	cfg := openAIOnlyConfig(t)
	cfg.AnthropicEnabled = true
	cfg.AnthropicAPIKey = "sk-ant-test"

	cliMock := &testable.MockCommandExecutor{DefaultError: "claude: command not found"}
	fallback := llm.NewMockProvider(llm.MockResponse{Content: "api fallback"})
	r := NewRouter(cfg,
		WithExecutor(NewExecutor(cfg, WithCommandExecutor(cliMock))),
		WithFallbackProvider(fallback),
	)

	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "/implement 17",
		Provider:   config.ProviderAnthropic,
		OutputFile: filepath.Join(cfg.RootDir, "out.jsonl"),
	})

	assert.True(t, resp.Success)
	assert.Equal(t, "api fallback", resp.Output)
	assert.Empty(t, resp.SessionID)
	require.Len(t, fallback.Calls(), 1)
}

func TestExecute_ExecutableMissingNoFallback(t *testing.T) {
	cfg := testConfig(t) // anthropic only
	cliMock := &testable.MockCommandExecutor{DefaultError: "claude: command not found"}
	r := NewRouter(cfg, WithExecutor(NewExecutor(cfg, WithCommandExecutor(cliMock))))

	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "hello",
		OutputFile: filepath.Join(cfg.RootDir, "out.jsonl"),
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Output, "not installed")
}

func TestExecute_OpenAIFailureIsRecorded(t *testing.T) {
	cfg := openAIOnlyConfig(t)
	mock := llm.NewMockProvider(llm.MockResponse{Err: errors.New("openai: API key is invalid (401 Unauthorized)")})
	r := NewRouter(cfg, WithFallbackProvider(mock))

	out := filepath.Join(cfg.RootDir, "out.jsonl")
	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "hello",
		Provider:   config.ProviderOpenAI,
		OutputFile: out,
	})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Output, "401")

	_, result, err := ParseStream(out)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Equal(t, "error", result.Subtype)
}

func TestExecute_AssignsRunDefaults(t *testing.T) {
	cfg := openAIOnlyConfig(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: "ok"})
	r := NewRouter(cfg, WithFallbackProvider(mock))

	resp := r.Execute(context.Background(), PromptRequest{
		Prompt:     "/review 9",
		Provider:   config.ProviderOpenAI,
		OutputFile: filepath.Join(cfg.RootDir, "out.jsonl"),
	})
	require.True(t, resp.Success)

	// A run directory was created under agents/<uuid>/ops.
	entries, err := os.ReadDir(filepath.Join(cfg.RootDir, "agents"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	runID := entries[0].Name()
	assert.NotEmpty(t, runID)

	audit := filepath.Join(cfg.RootDir, "agents", runID, DefaultAgentName, "prompts", "review.txt")
	_, err = os.Stat(audit)
	assert.NoError(t, err)
}

func TestExecuteTemplate_FlattensCommand(t *testing.T) {
	cfg := openAIOnlyConfig(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: "planned"})
	r := NewRouter(cfg, WithFallbackProvider(mock))

	resp := r.ExecuteTemplate(context.Background(), TemplateRequest{
		SlashCommand: "/plan",
		Args:         []string{"42", "main"},
		RunID:        "run-t",
		AgentName:    "planner",
	})

	assert.True(t, resp.Success)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/plan 42 main", calls[0].Prompt, "structured command flattened to plain text")

	// Output artifacts land under the run's agent directory.
	stream := filepath.Join(cfg.RootDir, "agents", "run-t", "planner", "raw_output.jsonl")
	_, err := os.Stat(stream)
	assert.NoError(t, err)
	_, err = os.Stat(ArrayPath(stream))
	assert.NoError(t, err)

	audit := filepath.Join(cfg.RootDir, "agents", "run-t", "planner", "prompts", "plan.txt")
	data, err := os.ReadFile(audit)
	require.NoError(t, err)
	assert.Equal(t, "/plan 42 main", string(data))
}

func TestExecuteTemplate_NoArgs(t *testing.T) {
	cfg := openAIOnlyConfig(t)
	mock := llm.NewMockProvider(llm.MockResponse{Content: "ok"})
	r := NewRouter(cfg, WithFallbackProvider(mock))

	resp := r.ExecuteTemplate(context.Background(), TemplateRequest{
		SlashCommand: "/status",
		RunID:        "run-s",
	})
	require.True(t, resp.Success)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/status", calls[0].Prompt)
}
