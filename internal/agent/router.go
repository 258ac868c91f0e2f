// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/davetashner/drover/internal/config"
	"github.com/davetashner/drover/internal/llm"
)

const (
	// fallbackMaxTokens caps responses on the OpenAI path.
	fallbackMaxTokens = 4096

	// fallbackTemperature is the sampling temperature on the OpenAI path.
	fallbackTemperature = 0.7
)

// Router decides, per request, whether a prompt runs through the Claude
// Code CLI or the OpenAI API. All primary/secondary fallback logic lives
// here; no other component duplicates it.
type Router struct {
	cfg      *config.Config
	executor *Executor
	fallback llm.Provider
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithExecutor substitutes the CLI executor, for tests.
func WithExecutor(e *Executor) RouterOption {
	return func(r *Router) {
		r.executor = e
	}
}

// WithFallbackProvider substitutes the OpenAI-backed provider, for tests.
func WithFallbackProvider(p llm.Provider) RouterOption {
	return func(r *Router) {
		r.fallback = p
	}
}

// NewRouter creates a Router bound to the given configuration.
func NewRouter(cfg *config.Config, opts ...RouterOption) *Router {
	r := &Router{
		cfg:      cfg,
		executor: NewExecutor(cfg),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Execute routes one prompt request. The decision table, evaluated per call:
//
//   - no provider active: configuration failure, never retried
//   - request names OpenAI: always the API path
//   - request names Anthropic but only OpenAI is active: warn and fall back
//   - otherwise: CLI path; when the preflight reports the executable
//     missing and OpenAI is enabled and keyed, warn and fall back
//
// Fallback is the only automatic recovery; every other failure is returned
// as a PromptResponse with Success=false.
func (r *Router) Execute(ctx context.Context, req PromptRequest) PromptResponse {
	req = r.normalize(req)

	active := r.cfg.ActiveProvider()
	if active == config.ProviderNone {
		return failure(fmt.Sprintf("no LLM provider configured: %v", r.cfg.Validate()))
	}

	if req.Provider == config.ProviderOpenAI {
		return r.executeOpenAI(ctx, req)
	}

	if active == config.ProviderOpenAI {
		// Anthropic was requested (explicitly or by default) but only
		// OpenAI is available.
		slog.Warn("anthropic not available, falling back to openai", "run_id", req.RunID)
		return r.executeOpenAI(ctx, req)
	}

	if err := r.executor.CheckInstalled(ctx); err != nil {
		if r.cfg.IsEnabled(config.ProviderOpenAI) && r.cfg.HasKey(config.ProviderOpenAI) {
			slog.Warn("claude code CLI not available, falling back to openai", "run_id", req.RunID)
			return r.executeOpenAI(ctx, req)
		}
		return failure(err.Error())
	}

	return r.executor.Run(ctx, req)
}

// normalize fills in defaults so every execution path sees a complete
// request.
func (r *Router) normalize(req PromptRequest) PromptRequest {
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}
	if req.AgentName == "" {
		req.AgentName = DefaultAgentName
	}
	if req.Model == "" {
		req.Model = r.cfg.DefaultModel
	}
	return req
}

// executeOpenAI runs the request through the OpenAI API. The structured
// output contract is preserved: a single synthetic result record is written
// to the output file and its JSON-array sibling, so downstream consumers
// cannot tell which path served the request. OpenAI cannot execute slash
// commands or file operations; templated commands arrive here flattened to
// plain text.
func (r *Router) executeOpenAI(ctx context.Context, req PromptRequest) PromptResponse {
	if _, err := SavePrompt(r.cfg.RootDir, req.Prompt, req.RunID, req.AgentName); err != nil {
		slog.Warn("prompt audit write failed", "error", err)
	}

	if req.OutputFile != "" {
		if dir := filepath.Dir(req.OutputFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return failure(fmt.Sprintf("error creating output directory: %v", err))
			}
		}
	}

	model := llm.OpenAIModelFor(req.Model)

	provider := r.fallback
	if provider == nil {
		p, err := llm.NewOpenAIProvider(
			llm.WithOpenAIAPIKey(r.cfg.OpenAIAPIKey),
			llm.WithOpenAIModel(model),
		)
		if err != nil {
			return failure(err.Error())
		}
		provider = p
	}

	slog.Info("executing prompt via openai", "model", model, "run_id", req.RunID)

	temperature := fallbackTemperature
	resp, err := provider.Complete(ctx, llm.Request{
		Prompt:      req.Prompt,
		Model:       model,
		MaxTokens:   fallbackMaxTokens,
		Temperature: &temperature,
	})

	record := Result{
		Type:     recordTypeResult,
		Provider: string(config.ProviderOpenAI),
		Model:    model,
	}

	var out PromptResponse
	if err != nil {
		record.Subtype = "error"
		record.IsError = true
		record.Result = err.Error()
		out = failure(err.Error())
	} else {
		record.Subtype = "success"
		record.Result = resp.Content
		usage := resp.Usage
		record.Usage = &usage
		out = PromptResponse{Output: resp.Content, Success: true}
	}

	if req.OutputFile != "" {
		if werr := writeSyntheticStream(req.OutputFile, record); werr != nil {
			slog.Warn("writing fallback output", "error", werr)
		}
	}
	return out
}

// writeSyntheticStream writes a one-record stream file plus its JSON-array
// sibling, mirroring the CLI path's artifacts.
func writeSyntheticStream(path string, res Result) error {
	line, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result record: %w", err)
	}
	if err := os.WriteFile(path, append(line, '\n'), 0o600); err != nil {
		return fmt.Errorf("write stream file: %w", err)
	}

	_, err = WriteArrayFile(path, []Record{{Type: res.Type, Raw: line}})
	return err
}
