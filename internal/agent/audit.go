// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// slashCommandRE matches the leading slash command of a templated prompt,
// e.g. "/review" in "/review 123 main".
var slashCommandRE = regexp.MustCompile(`^/(\w+)`)

// SavePrompt writes the raw prompt text to the audit path
// <root>/agents/<runID>/<agentName>/prompts/<command>.txt. Prompts that do
// not begin with a slash command are not audited; that is a skip, not an
// error, and the returned path is empty.
func SavePrompt(root, prompt, runID, agentName string) (string, error) {
	m := slashCommandRE.FindStringSubmatch(prompt)
	if m == nil {
		return "", nil
	}
	commandName := m[1]

	if agentName == "" {
		agentName = DefaultAgentName
	}

	dir := filepath.Join(root, "agents", runID, agentName, "prompts")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create prompt audit dir: %w", err)
	}

	path := filepath.Join(dir, commandName+".txt")
	if err := os.WriteFile(path, []byte(prompt), 0o600); err != nil {
		return "", fmt.Errorf("write prompt audit file: %w", err)
	}
	return path, nil
}
