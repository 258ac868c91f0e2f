// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

// Package agent executes prompts against the Claude Code CLI — with
// automatic fallback to the OpenAI API — and normalizes every outcome into
// a PromptResponse. Callers branch on the Success flag; failures are values,
// not errors.
package agent

import "github.com/davetashner/drover/internal/config"

// DefaultAgentName labels prompts that are not issued on behalf of a named
// agent.
const DefaultAgentName = "ops"

// PromptRequest describes a single prompt execution. It is immutable once
// constructed and owned by the call that created it.
type PromptRequest struct {
	// Prompt is the text to execute. Prompts beginning with a slash
	// command ("/review ...") are audited under the agents/ tree.
	Prompt string

	// RunID correlates all artifacts of one workflow run. A UUID is
	// assigned when empty.
	RunID string

	// AgentName labels the agent within the run. Defaults to
	// DefaultAgentName.
	AgentName string

	// Model is the Claude model to use; mapped to an OpenAI equivalent on
	// the fallback path.
	Model string

	// Provider optionally pins the request to a specific provider. Leave
	// empty to follow the configured default.
	Provider config.Provider

	// OutputFile receives the CLI's line-delimited JSON stream. Callers
	// issuing concurrent requests must supply distinct paths; the adapter
	// does no locking of its own.
	OutputFile string

	// DangerouslySkipPermissions disables the CLI's interactive permission
	// confirmations.
	DangerouslySkipPermissions bool
}

// PromptResponse is the uniform result shape for every execution path.
type PromptResponse struct {
	// Output is the final result text, or a descriptive failure message
	// when Success is false.
	Output string

	// Success reports whether the prompt completed without error.
	Success bool

	// SessionID is the CLI session identifier, when one was reported.
	// Empty on the API fallback path.
	SessionID string
}

// TemplateRequest describes a templated slash-command execution.
type TemplateRequest struct {
	// SlashCommand is the command to run, e.g. "/implement".
	SlashCommand string

	// Args are appended to the command, whitespace-joined.
	Args []string

	RunID     string
	AgentName string
	Model     string
	Provider  config.Provider
}

// failure builds a failed PromptResponse with the given message.
func failure(msg string) PromptResponse {
	return PromptResponse{Output: msg, Success: false}
}
