package llm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/drover/internal/llm"
)

func TestNewAnthropicProvider_WithAPIKey(t *testing.T) {
	p, err := llm.NewAnthropicProvider(llm.WithAnthropicAPIKey("test-key-123"))
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewAnthropicProvider_FromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "env-test-key")

	p, err := llm.NewAnthropicProvider()
	require.NoError(t, err)
	assert.NotNil(t, p)
}

func TestNewAnthropicProvider_NoKeyError(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	p, err := llm.NewAnthropicProvider()
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
}

func TestAnthropicProvider_DefaultModel(t *testing.T) {
	p, err := llm.NewAnthropicProvider(llm.WithAnthropicAPIKey("test-key"))
	require.NoError(t, err)
	assert.Equal(t, "claude-sonnet-4-5-20250929", p.Model())
}

func TestAnthropicProvider_CustomModel(t *testing.T) {
	p, err := llm.NewAnthropicProvider(
		llm.WithAnthropicAPIKey("test-key"),
		llm.WithAnthropicModel("claude-3-5-haiku-20241022"),
	)
	require.NoError(t, err)
	assert.Equal(t, "claude-3-5-haiku-20241022", p.Model())
}
