// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePrompt_SlashCommand(t *testing.T) {
	root := t.TempDir()

	path, err := SavePrompt(root, "/review 123 please be thorough", "run-1", "reviewer")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "agents", "run-1", "reviewer", "prompts", "review.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/review 123 please be thorough", string(data))
}

func TestSavePrompt_DefaultAgentName(t *testing.T) {
	root := t.TempDir()

	path, err := SavePrompt(root, "/plan", "run-2", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "agents", "run-2", DefaultAgentName, "prompts", "plan.txt"), path)
}

func TestSavePrompt_NonSlashPromptSkipped(t *testing.T) {
	root := t.TempDir()

	path, err := SavePrompt(root, "summarize the changes in this branch", "run-3", "ops")
	require.NoError(t, err)
	assert.Empty(t, path)

	// Nothing should have been created.
	_, statErr := os.Stat(filepath.Join(root, "agents"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSavePrompt_SlashMidPromptSkipped(t *testing.T) {
	root := t.TempDir()

	path, err := SavePrompt(root, "run /review for me", "run-4", "ops")
	require.NoError(t, err)
	assert.Empty(t, path)
}
