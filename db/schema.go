// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, db *sql.DB, dialect Dialect) error {
	jsonType := "TEXT"
	if dialect == Postgres {
		jsonType = "JSONB"
	}

	ddl := strings.ReplaceAll(schema, "{{json}}", jsonType)

	// SQLite's driver runs one statement per Exec
	for _, stmt := range strings.Split(ddl, ";") {
		if strings.TrimSpace(stripComments(stmt)) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

func stripComments(stmt string) string {
	var lines []string
	for _, line := range strings.Split(stmt, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email VARCHAR(255) NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- Puzzles
CREATE TABLE IF NOT EXISTS puzzles (
    id TEXT PRIMARY KEY,
    puzzle_number INTEGER NOT NULL UNIQUE CHECK (puzzle_number > 0),
    name VARCHAR(255) NOT NULL,
    data {{json}} NOT NULL,
    crosshare_id VARCHAR(50) UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_puzzles_number ON puzzles(puzzle_number);
CREATE INDEX IF NOT EXISTS idx_puzzles_crosshare_id ON puzzles(crosshare_id);

-- Per-user progress
CREATE TABLE IF NOT EXISTS user_puzzle_progress (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    puzzle_id TEXT NOT NULL REFERENCES puzzles(id) ON DELETE CASCADE,
    cell_progress {{json}} NOT NULL,
    status VARCHAR(20) NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'completed')),
    started_at TIMESTAMP NOT NULL,
    completed_at TIMESTAMP,
    last_updated_at TIMESTAMP NOT NULL,
    CONSTRAINT uq_user_puzzle UNIQUE (user_id, puzzle_id)
);

CREATE INDEX IF NOT EXISTS idx_progress_user_id ON user_puzzle_progress(user_id);
CREATE INDEX IF NOT EXISTS idx_progress_puzzle_id ON user_puzzle_progress(puzzle_id);
`
