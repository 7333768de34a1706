// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielhkuo/crossword/auth"
	"github.com/danielhkuo/crossword/models"
)

const progressColumns = `pr.id, pr.user_id, pr.puzzle_id, pr.cell_progress, pr.status, pr.started_at, pr.completed_at, pr.last_updated_at`

func scanProgress(row interface{ Scan(...any) error }, p *models.Progress, extra ...any) error {
	var cells []byte
	dest := append([]any{&p.ID, &p.UserID, &p.PuzzleID, &cells, &p.Status, &p.StartedAt, &p.CompletedAt, &p.LastUpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	p.CellProgress = map[string]string{}
	if len(cells) > 0 {
		if err := json.Unmarshal(cells, &p.CellProgress); err != nil {
			return fmt.Errorf("failed to decode cell progress %s: %w", p.ID, err)
		}
	}
	return nil
}

// GetProgress returns the user's progress row for a puzzle
func (s *Store) GetProgress(ctx context.Context, userID, puzzleID string) (models.Progress, error) {
	return s.getProgress(ctx, s.db, progressQuery(s.dialect, false), userID, puzzleID)
}

// progressQuery selects one progress row. With lock set, Postgres holds the
// row until the transaction ends; SQLite already serializes writers.
func progressQuery(dialect Dialect, lock bool) string {
	q := `
		SELECT ` + progressColumns + `
		FROM user_puzzle_progress pr
		WHERE pr.user_id = $1 AND pr.puzzle_id = $2`
	if lock && dialect == Postgres {
		q += `
		FOR UPDATE`
	}
	return q
}

func (s *Store) getProgress(ctx context.Context, q queryer, query, userID, puzzleID string) (models.Progress, error) {
	var p models.Progress
	err := scanProgress(q.QueryRowContext(ctx, query, userID, puzzleID), &p)

	if err == sql.ErrNoRows {
		return models.Progress{}, ErrNotFound
	}
	if err != nil {
		return models.Progress{}, fmt.Errorf("failed to query progress: %w", err)
	}
	return p, nil
}

const insertProgress = `
	INSERT INTO user_puzzle_progress (id, user_id, puzzle_id, cell_progress, status, started_at, last_updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (user_id, puzzle_id) DO NOTHING
`

// StartProgress marks a puzzle as started for a user.
// An existing row is left untouched.
func (s *Store) StartProgress(ctx context.Context, userID, puzzleID string) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, insertProgress,
		auth.GenerateID(), userID, puzzleID, "{}", models.StatusInProgress, now, now)

	if err != nil {
		return fmt.Errorf("failed to start progress: %w", err)
	}
	return nil
}

// UpdateCells merges cell edits into the user's progress, creating the row if needed.
// Non-empty letters are upper-cased; an empty letter clears the cell.
//
// The row is created first and then read under a row lock, so concurrent
// saves on Postgres queue up instead of overwriting each other's cells.
func (s *Store) UpdateCells(ctx context.Context, userID, puzzleID string, cells map[string]string) (models.Progress, error) {
	var progress models.Progress

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now()

		if _, err := tx.ExecContext(ctx, insertProgress,
			auth.GenerateID(), userID, puzzleID, "{}", models.StatusInProgress, now, now); err != nil {
			return fmt.Errorf("failed to start progress: %w", err)
		}

		existing, err := s.getProgress(ctx, tx, progressQuery(s.dialect, true), userID, puzzleID)
		if err != nil {
			return err
		}

		for key, value := range cells {
			if value == "" {
				delete(existing.CellProgress, key)
				continue
			}
			existing.CellProgress[key] = strings.ToUpper(value)
		}
		existing.LastUpdatedAt = now

		payload, err := json.Marshal(existing.CellProgress)
		if err != nil {
			return fmt.Errorf("failed to encode cell progress: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE user_puzzle_progress
			SET cell_progress = $1, last_updated_at = $2
			WHERE id = $3
		`, string(payload), now, existing.ID); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}

		progress = existing
		return nil
	})

	if err != nil {
		return models.Progress{}, err
	}
	return progress, nil
}

// CompleteProgress marks the user's progress on a puzzle as completed.
// Returns ErrNotFound if the user never started the puzzle.
func (s *Store) CompleteProgress(ctx context.Context, userID, puzzleID string) error {
	now := s.now()
	result, err := s.db.ExecContext(ctx, `
		UPDATE user_puzzle_progress
		SET status = $1, completed_at = $2, last_updated_at = $3
		WHERE user_id = $4 AND puzzle_id = $5
	`, models.StatusCompleted, now, now, userID, puzzleID)

	if err != nil {
		return fmt.Errorf("failed to complete progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete progress: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ProgressHistory returns all of a user's progress rows, most recently started first
func (s *Store) ProgressHistory(ctx context.Context, userID string) ([]models.ProgressWithPuzzle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+progressColumns+`, `+puzzleColumns+`
		FROM user_puzzle_progress pr
		JOIN puzzles p ON p.id = pr.puzzle_id
		WHERE pr.user_id = $1
		ORDER BY pr.started_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress history: %w", err)
	}
	defer rows.Close()

	history := []models.ProgressWithPuzzle{}
	for rows.Next() {
		var item models.ProgressWithPuzzle
		var data []byte
		err := scanProgress(rows, &item.Progress,
			&item.Puzzle.ID, &item.Puzzle.PuzzleNumber, &item.Puzzle.Name, &data, &item.Puzzle.CrosshareID, &item.Puzzle.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress history: %w", err)
		}
		if err := json.Unmarshal(data, &item.Puzzle.Data); err != nil {
			return nil, fmt.Errorf("failed to decode puzzle %s data: %w", item.Puzzle.ID, err)
		}
		history = append(history, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate progress history: %w", err)
	}
	return history, nil
}
