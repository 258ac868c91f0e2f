// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// streamFileName is the stream capture file for templated executions.
const streamFileName = "raw_output.jsonl"

// ExecuteTemplate runs a templated slash command with arguments. The
// structured command is rendered to a plain prompt before routing, so when
// the request falls back to the OpenAI path the model still receives the
// text even though it cannot execute CLI commands or file operations.
// Permission prompts are always skipped for templated runs.
func (r *Router) ExecuteTemplate(ctx context.Context, req TemplateRequest) PromptResponse {
	prompt := req.SlashCommand
	if len(req.Args) > 0 {
		prompt += " " + strings.Join(req.Args, " ")
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	agentName := req.AgentName
	if agentName == "" {
		agentName = DefaultAgentName
	}

	outputFile := filepath.Join(r.cfg.RootDir, "agents", runID, agentName, streamFileName)

	return r.Execute(ctx, PromptRequest{
		Prompt:                     prompt,
		RunID:                      runID,
		AgentName:                  agentName,
		Model:                      req.Model,
		Provider:                   req.Provider,
		OutputFile:                 outputFile,
		DangerouslySkipPermissions: true,
	})
}
