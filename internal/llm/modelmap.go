// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package llm

// DefaultOpenAIModel is the fallback model used when a Claude model name has
// no entry in the mapping table.
const DefaultOpenAIModel = "gpt-4o"

// openAIModelTable maps Claude model identifiers — short aliases and full
// model IDs — to the closest OpenAI equivalent.
var openAIModelTable = map[string]string{
	// Aliases.
	"sonnet": "gpt-4o",
	"opus":   "gpt-4o",
	"haiku":  "gpt-4o-mini",

	// Full Claude model IDs.
	"claude-3-5-sonnet-20241022": "gpt-4o",
	"claude-3-5-haiku-20241022":  "gpt-4o-mini",
	"claude-3-opus-20240229":     "gpt-4o",
	"claude-sonnet-4-20250514":   "gpt-4o",
	"claude-sonnet-4-5-20250929": "gpt-4o",
	"claude-opus-4-5-20251101":   "gpt-4o",
}

// OpenAIModelFor translates a Claude model name into the OpenAI model to use
// on the fallback path. The mapping is total: unknown names, including the
// empty string, map to DefaultOpenAIModel rather than failing.
func OpenAIModelFor(claudeModel string) string {
	if m, ok := openAIModelTable[claudeModel]; ok {
		return m
	}
	return DefaultOpenAIModel
}
