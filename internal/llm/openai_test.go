// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package llm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/drover/internal/llm"
)

func TestNewOpenAIProvider_NoKeyError(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	p, err := llm.NewOpenAIProvider()
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestOpenAIProvider_DefaultModel(t *testing.T) {
	p, err := llm.NewOpenAIProvider(llm.WithOpenAIAPIKey("test-key"))
	require.NoError(t, err)
	assert.Equal(t, llm.DefaultOpenAIModel, p.Model())
}

// newStubServer returns a provider pointed at a local server that responds
// with the given status and body for every request.
func newStubServer(t *testing.T, status int, body string) *llm.OpenAIProvider {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	p, err := llm.NewOpenAIProvider(
		llm.WithOpenAIAPIKey("test-key"),
		llm.WithOpenAIBaseURL(srv.URL),
	)
	require.NoError(t, err)
	return p
}

func TestOpenAIProvider_CompleteSuccess(t *testing.T) {
	p := newStubServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "4"}, "finish_reason": "stop"}
		],
		"usage": {"prompt_tokens": 12, "completion_tokens": 1, "total_tokens": 13}
	}`)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "What is 2+2?"})
	require.NoError(t, err)
	assert.Equal(t, "4", resp.Content)
	assert.Equal(t, "gpt-4o", resp.Model)
	assert.Equal(t, 12, resp.Usage.InputTokens)
	assert.Equal(t, 1, resp.Usage.OutputTokens)
}

func TestOpenAIProvider_Complete401(t *testing.T) {
	p := newStubServer(t, http.StatusUnauthorized,
		`{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 Unauthorized")
	assert.Contains(t, err.Error(), "invalid")
}

func TestOpenAIProvider_CompleteServerError(t *testing.T) {
	p := newStubServer(t, http.StatusInternalServerError,
		`{"error": {"message": "overloaded", "type": "server_error"}}`)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestOpenAIProvider_CompleteNoChoices(t *testing.T) {
	p := newStubServer(t, http.StatusOK, `{
		"id": "chatcmpl-2",
		"object": "chat.completion",
		"model": "gpt-4o",
		"choices": [],
		"usage": {"prompt_tokens": 5, "completion_tokens": 0, "total_tokens": 5}
	}`)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response")
}

func TestOpenAIProvider_CompleteConnectionRefused(t *testing.T) {
	// Point at a server that is already closed to force a transport error.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	p, err := llm.NewOpenAIProvider(
		llm.WithOpenAIAPIKey("test-key"),
		llm.WithOpenAIBaseURL(url),
	)
	require.NoError(t, err)

	resp, err := p.Complete(context.Background(), llm.Request{Prompt: "hi"})
	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection failed")
}
