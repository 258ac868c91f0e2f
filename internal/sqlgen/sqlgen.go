// Copyright 2026 The Drover Authors
// SPDX-License-Identifier: MIT

// Package sqlgen generates SQLite queries from natural language questions.
// It introspects the target database schema, hands schema plus question to
// an LLM provider, and cleans the response into an executable statement.
package sqlgen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/davetashner/drover/internal/llm"
)

const (
	// genMaxTokens caps the generated statement; queries are short.
	genMaxTokens = 500

	// genTemperature is kept low so generation stays deterministic.
	genTemperature = 0.1

	systemPrompt = "You are a SQL expert. Given a database schema and a question, " +
		"respond with a single SQLite query that answers the question. " +
		"Return only the SQL, with no explanation and no markdown."
)

// Store wraps a read-only view of one SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("connecting to database %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Schema returns the CREATE statements for all user tables, in name order.
func (s *Store) Schema(ctx context.Context) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sql FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
		 ORDER BY name`)
	if err != nil {
		return "", fmt.Errorf("reading schema: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning schema row: %w", err)
		}
		stmts = append(stmts, strings.TrimSpace(stmt)+";")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterating schema rows: %w", err)
	}
	if len(stmts) == 0 {
		return "", fmt.Errorf("database %s has no tables", s.path)
	}
	return strings.Join(stmts, "\n\n"), nil
}

// Query runs a statement and returns column names plus all rows as strings.
// NULL renders as an empty string.
func (s *Store) Query(ctx context.Context, query string) ([]string, [][]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("reading columns: %w", err)
	}

	var out [][]string
	for rows.Next() {
		raw := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make([]string, len(cols))
		for i, v := range raw {
			if v.Valid {
				row[i] = v.String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating rows: %w", err)
	}
	return cols, out, nil
}

// Generator turns questions into SQL using an LLM provider.
type Generator struct {
	provider llm.Provider
	store    *Store
}

// NewGenerator creates a Generator over the given store and provider.
func NewGenerator(store *Store, provider llm.Provider) *Generator {
	return &Generator{provider: provider, store: store}
}

// Generate produces a SQLite query answering the question against the
// store's schema.
func (g *Generator) Generate(ctx context.Context, question string) (string, error) {
	schema, err := g.store.Schema(ctx)
	if err != nil {
		return "", err
	}

	temperature := genTemperature
	resp, err := g.provider.Complete(ctx, llm.Request{
		Prompt:       fmt.Sprintf("Schema:\n\n%s\n\nQuestion: %s", schema, question),
		SystemPrompt: systemPrompt,
		MaxTokens:    genMaxTokens,
		Temperature:  &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generating SQL: %w", err)
	}

	query := StripFences(resp.Content)
	if query == "" {
		return "", fmt.Errorf("provider returned no SQL")
	}
	return query, nil
}

// StripFences removes markdown code fences that models add despite
// instructions, and trims surrounding whitespace.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag on the opening fence ("sql", "sqlite").
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "" || !strings.ContainsAny(first, " \t;") && len(first) <= 10 {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
