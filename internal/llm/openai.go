// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Provider using the official OpenAI SDK. It backs
// the fallback path when the Claude Code CLI is unavailable or Anthropic is
// disabled.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// Compile-time check that OpenAIProvider satisfies the Provider interface.
var _ Provider = (*OpenAIProvider)(nil)

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*openaiConfig)

type openaiConfig struct {
	apiKey  string
	model   string
	baseURL string
}

// WithOpenAIAPIKey sets the API key. If not provided, the provider reads
// OPENAI_API_KEY from the environment.
func WithOpenAIAPIKey(key string) OpenAIOption {
	return func(c *openaiConfig) {
		c.apiKey = key
	}
}

// WithOpenAIModel overrides the default model for all requests.
func WithOpenAIModel(model string) OpenAIOption {
	return func(c *openaiConfig) {
		c.model = model
	}
}

// WithOpenAIBaseURL points the provider at an alternate API endpoint.
// Tests use this to target a local server.
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(c *openaiConfig) {
		c.baseURL = url
	}
}

// NewOpenAIProvider creates a new OpenAI provider.
// It returns an error if no API key is available (neither via option nor env).
func NewOpenAIProvider(opts ...OpenAIOption) (*OpenAIProvider, error) {
	cfg := openaiConfig{
		model: DefaultOpenAIModel,
	}
	for _, o := range opts {
		o(&cfg)
	}

	apiKey := cfg.apiKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, errors.New("llm: OPENAI_API_KEY not set and no API key provided")
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(requestTimeout),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}

	client := openai.NewClient(clientOpts...)

	return &OpenAIProvider{
		client: client,
		model:  cfg.model,
	}, nil
}

// Complete sends a completion request to the OpenAI chat completions API.
//
// Failures are classified for the caller: a 401 is reported as an invalid
// key, other HTTP errors carry the status code, and transport errors carry
// the underlying cause. A 200 response with no choices is also an error.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	model := p.model
	if req.Model != "" {
		model = req.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if req.MaxTokens > 0 {
		maxTokens = int64(req.MaxTokens)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(req.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(model),
		Messages:  messages,
		MaxTokens: openai.Int(maxTokens),
	}

	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}

	chat, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(chat.Choices) == 0 {
		return nil, errors.New("openai: no response from API")
	}

	return &Response{
		Content: chat.Choices[0].Message.Content,
		Model:   string(chat.Model),
		Usage: Usage{
			InputTokens:  int(chat.Usage.PromptTokens),
			OutputTokens: int(chat.Usage.CompletionTokens),
		},
	}, nil
}

// classifyOpenAIError maps SDK errors onto the documented failure taxonomy.
func classifyOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		if apierr.StatusCode == http.StatusUnauthorized {
			return errors.New("openai: API key is invalid (401 Unauthorized)")
		}
		return fmt.Errorf("openai: API error: %d %s", apierr.StatusCode, http.StatusText(apierr.StatusCode))
	}
	return fmt.Errorf("openai: connection failed: %w", err)
}

// Model returns the default model configured for this provider.
func (p *OpenAIProvider) Model() string {
	return p.model
}
