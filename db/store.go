// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/crossword/auth"
	"github.com/danielhkuo/crossword/models"
)

// maxInsertAttempts bounds retries when two writers race for the next puzzle number
const maxInsertAttempts = 3

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the data access layer shared by the HTTP handlers and the seeder
type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func NewStore(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// DB exposes the underlying connection pool
func (s *Store) DB() *sql.DB {
	return s.db
}

// SetClock overrides the time source
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Users

// FindOrCreateUser returns the user with the given email, creating it if needed
func (s *Store) FindOrCreateUser(ctx context.Context, email string) (models.User, bool, error) {
	user, err := s.userByEmail(ctx, s.db, email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, false, err
	}

	user = models.User{
		ID:        auth.GenerateID(),
		Email:     email,
		CreatedAt: s.now(),
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, created_at)
		VALUES ($1, $2, $3)
	`, user.ID, user.Email, user.CreatedAt)

	if isUniqueViolation(err) {
		// Lost a race with a concurrent identify
		existing, err := s.userByEmail(ctx, s.db, email)
		return existing, false, err
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to insert user: %w", err)
	}

	return user, true, nil
}

// GetUser looks a user up by ID
func (s *Store) GetUser(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, created_at FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

func (s *Store) userByEmail(ctx context.Context, q queryer, email string) (models.User, error) {
	var user models.User
	err := q.QueryRowContext(ctx, `
		SELECT id, email, created_at FROM users WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// Puzzles

const puzzleColumns = `p.id, p.puzzle_number, p.name, p.data, p.crosshare_id, p.created_at`

func scanPuzzle(row interface{ Scan(...any) error }, p *models.Puzzle) error {
	var data []byte
	if err := row.Scan(&p.ID, &p.PuzzleNumber, &p.Name, &data, &p.CrosshareID, &p.CreatedAt); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &p.Data); err != nil {
		return fmt.Errorf("failed to decode puzzle %s data: %w", p.ID, err)
	}
	return nil
}

// GetPuzzle looks a puzzle up by ID
func (s *Store) GetPuzzle(ctx context.Context, id string) (models.Puzzle, error) {
	var p models.Puzzle
	err := scanPuzzle(s.db.QueryRowContext(ctx, `
		SELECT `+puzzleColumns+` FROM puzzles p WHERE p.id = $1
	`, id), &p)

	if err == sql.ErrNoRows {
		return models.Puzzle{}, ErrNotFound
	}
	if err != nil {
		return models.Puzzle{}, fmt.Errorf("failed to query puzzle: %w", err)
	}
	return p, nil
}

// PuzzleByCrosshareID looks a puzzle up by its Crosshare ID
func (s *Store) PuzzleByCrosshareID(ctx context.Context, crosshareID string) (models.Puzzle, error) {
	var p models.Puzzle
	err := scanPuzzle(s.db.QueryRowContext(ctx, `
		SELECT `+puzzleColumns+` FROM puzzles p WHERE p.crosshare_id = $1
	`, crosshareID), &p)

	if err == sql.ErrNoRows {
		return models.Puzzle{}, ErrNotFound
	}
	if err != nil {
		return models.Puzzle{}, fmt.Errorf("failed to query puzzle: %w", err)
	}
	return p, nil
}

// NextUnplayedPuzzle returns the lowest-numbered puzzle the user has not started
func (s *Store) NextUnplayedPuzzle(ctx context.Context, userID string) (models.Puzzle, error) {
	var p models.Puzzle
	err := scanPuzzle(s.db.QueryRowContext(ctx, `
		SELECT `+puzzleColumns+`
		FROM puzzles p
		WHERE p.id NOT IN (
			SELECT pr.puzzle_id FROM user_puzzle_progress pr WHERE pr.user_id = $1
		)
		ORDER BY p.puzzle_number ASC
		LIMIT 1
	`, userID), &p)

	if err == sql.ErrNoRows {
		return models.Puzzle{}, ErrNotFound
	}
	if err != nil {
		return models.Puzzle{}, fmt.Errorf("failed to query next puzzle: %w", err)
	}
	return p, nil
}

// CountPuzzles returns the number of stored puzzles
func (s *Store) CountPuzzles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM puzzles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count puzzles: %w", err)
	}
	return n, nil
}

// InsertPuzzle stores a crossword under the next free puzzle number.
// The number is written into data.Number as well.
func (s *Store) InsertPuzzle(ctx context.Context, data models.Crossword, crosshareID string) (models.Puzzle, error) {
	if utf8.RuneCountInString(crosshareID) > MaxCrosshareIDLen {
		return models.Puzzle{}, fmt.Errorf("%w: %d characters, max %d",
			ErrInvalidCrosshareID, utf8.RuneCountInString(crosshareID), MaxCrosshareIDLen)
	}

	var chID *string
	if crosshareID != "" {
		chID = &crosshareID
	}

	var err error
	for attempt := 1; attempt <= maxInsertAttempts; attempt++ {
		var p models.Puzzle
		p, err = s.insertPuzzle(ctx, data, chID)
		if err == nil {
			return p, nil
		}
		if !isUniqueViolation(err) {
			return models.Puzzle{}, err
		}
		if chID != nil {
			// Someone else stored this Crosshare puzzle first
			if _, lookupErr := s.PuzzleByCrosshareID(ctx, *chID); lookupErr == nil {
				return models.Puzzle{}, fmt.Errorf("crosshare puzzle %s: %w", *chID, ErrDuplicate)
			}
		}
	}
	return models.Puzzle{}, fmt.Errorf("failed to insert puzzle after %d attempts: %w", maxInsertAttempts, err)
}

// MaxCrosshareIDLen matches the crosshare_id column width
const MaxCrosshareIDLen = 50

var (
	// ErrDuplicate is returned when a puzzle with the same Crosshare ID already exists
	ErrDuplicate          = errors.New("duplicate puzzle")
	ErrInvalidCrosshareID = errors.New("invalid crosshare id")
)

func (s *Store) insertPuzzle(ctx context.Context, data models.Crossword, crosshareID *string) (models.Puzzle, error) {
	var p models.Puzzle

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var maxNum sql.NullInt64
		if err := tx.QueryRowContext(ctx, `SELECT MAX(puzzle_number) FROM puzzles`).Scan(&maxNum); err != nil {
			return fmt.Errorf("failed to query max puzzle number: %w", err)
		}

		data.Number = int(maxNum.Int64) + 1
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode puzzle data: %w", err)
		}

		p = models.Puzzle{
			ID:           auth.GenerateID(),
			PuzzleNumber: data.Number,
			Name:         truncate(data.Name, 255),
			Data:         data,
			CrosshareID:  crosshareID,
			CreatedAt:    s.now(),
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO puzzles (id, puzzle_number, name, data, crosshare_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, p.PuzzleNumber, p.Name, string(payload), p.CrosshareID, p.CreatedAt)
		return err
	})

	if err != nil {
		return models.Puzzle{}, err
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}
