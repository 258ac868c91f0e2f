// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

package agent

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/davetashner/drover/internal/llm"
)

// recordTypeResult is the discriminator value of the terminal stream record.
const recordTypeResult = "result"

// Record is one parsed unit of the CLI's line-delimited JSON output. The
// raw bytes are preserved so the stream can be re-materialized without
// loss; Type is the discriminator extracted for routing.
type Record struct {
	Type string
	Raw  json.RawMessage
}

// IsResult reports whether this is a terminal result record.
func (r Record) IsResult() bool {
	return r.Type == recordTypeResult
}

// Result is the decoded terminal record of a CLI invocation. The fallback
// path synthesizes one so downstream consumers see the same shape on both
// paths.
type Result struct {
	Type      string     `json:"type"`
	Subtype   string     `json:"subtype,omitempty"`
	IsError   bool       `json:"is_error"`
	Result    string     `json:"result"`
	SessionID string     `json:"session_id,omitempty"`
	Provider  string     `json:"provider,omitempty"`
	Model     string     `json:"model,omitempty"`
	Usage     *llm.Usage `json:"usage,omitempty"`
}

// AsResult decodes a terminal record. ok is false for non-result records
// and for result records that fail to decode.
func (r Record) AsResult() (*Result, bool) {
	if !r.IsResult() {
		return nil, false
	}
	var res Result
	if err := json.Unmarshal(r.Raw, &res); err != nil {
		slog.Warn("malformed result record", "error", err)
		return nil, false
	}
	return &res, true
}

// ParseStream reads a line-delimited JSON file and returns all records plus
// the terminal result record, if any. Blank lines are skipped; a line that
// fails to parse is logged and skipped, never fatal. When several result
// records are present, the last one in stream order wins.
func ParseStream(path string) ([]Record, *Result, error) {
	f, err := os.Open(path) //nolint:gosec // caller-supplied output path
	if err != nil {
		return nil, nil, fmt.Errorf("open stream file: %w", err)
	}
	defer f.Close() //nolint:errcheck // best-effort close on read-only file

	var records []Record
	scanner := bufio.NewScanner(f)
	// Result records can carry whole file contents; allow long lines.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var probe struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(line), &probe); err != nil {
			slog.Warn("skipping malformed stream line", "line", lineNum, "error", err)
			continue
		}

		records = append(records, Record{
			Type: probe.Type,
			Raw:  json.RawMessage(line),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("read stream file: %w", err)
	}

	// Scan from the end: the last result record is authoritative.
	for i := len(records) - 1; i >= 0; i-- {
		if res, ok := records[i].AsResult(); ok {
			return records, res, nil
		}
	}
	return records, nil, nil
}

// ArrayPath returns the JSON-array sibling path for a stream file: the same
// base name with a .json extension.
func ArrayPath(streamPath string) string {
	ext := filepath.Ext(streamPath)
	return strings.TrimSuffix(streamPath, ext) + ".json"
}

// WriteArrayFile materializes the ordered record sequence as a single
// pretty-printed JSON array next to the stream file and returns its path.
func WriteArrayFile(streamPath string, records []Record) (string, error) {
	raws := make([]json.RawMessage, len(records))
	for i, r := range records {
		raws[i] = r.Raw
	}

	data, err := json.MarshalIndent(raws, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record array: %w", err)
	}

	path := ArrayPath(streamPath)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write record array: %w", err)
	}
	return path, nil
}
