// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/danielhkuo/crossword/convert"
	"github.com/danielhkuo/crossword/crosshare"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/models"
)

// ErrNoPuzzles means neither the database nor Crosshare has a puzzle to offer
var ErrNoPuzzles = errors.New("no more puzzles available")

// Source is where new puzzles come from; *crosshare.Client satisfies it
type Source interface {
	FetchPuzzleList(ctx context.Context, page int) ([]crosshare.PuzzleSummary, error)
	FetchPuzzle(ctx context.Context, id string) (crosshare.Puzzle, error)
}

type Catalog struct {
	store    *db.Store
	source   Source
	filter   crosshare.SizeFilter
	maxPages int
	now      func() time.Time

	// One Crosshare scan at a time
	fetchMu sync.Mutex
}

func New(store *db.Store, source Source, filter crosshare.SizeFilter, maxPages int) *Catalog {
	if maxPages < 1 {
		maxPages = 1
	}
	return &Catalog{
		store:    store,
		source:   source,
		filter:   filter,
		maxPages: maxPages,
		now:      time.Now,
	}
}

// Next returns the lowest-numbered puzzle the user has not started, fetching
// a new one from Crosshare when the database has none left. The puzzle is
// recorded as started for the user.
func (c *Catalog) Next(ctx context.Context, userID string) (models.Puzzle, error) {
	puzzle, err := c.store.NextUnplayedPuzzle(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		puzzle, err = c.fetchFor(ctx, userID)
	}
	if err != nil {
		return models.Puzzle{}, err
	}

	if err := c.store.StartProgress(ctx, userID, puzzle.ID); err != nil {
		return models.Puzzle{}, err
	}

	slog.Info("puzzle served",
		"user_id", userID,
		"puzzle_id", puzzle.ID,
		"puzzle_number", puzzle.PuzzleNumber,
	)
	return puzzle, nil
}

// fetchFor re-checks the database once it holds the scan lock, since
// another request may have imported a puzzle while this one waited
func (c *Catalog) fetchFor(ctx context.Context, userID string) (models.Puzzle, error) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()

	puzzle, err := c.store.NextUnplayedPuzzle(ctx, userID)
	if !errors.Is(err, db.ErrNotFound) {
		return puzzle, err
	}
	return c.fetchNew(ctx)
}

// FetchNew walks the featured pages and stores the first puzzle that is not
// already stored and passes the size filter. Fetch failures are logged and
// reported as ErrNoPuzzles.
func (c *Catalog) FetchNew(ctx context.Context) (models.Puzzle, error) {
	c.fetchMu.Lock()
	defer c.fetchMu.Unlock()
	return c.fetchNew(ctx)
}

func (c *Catalog) fetchNew(ctx context.Context) (models.Puzzle, error) {
	for page := 1; page <= c.maxPages; page++ {
		summaries, err := c.source.FetchPuzzleList(ctx, page)
		if err != nil {
			slog.Error("failed to fetch puzzle list from crosshare", "page", page, "error", err)
			return models.Puzzle{}, ErrNoPuzzles
		}
		if len(summaries) == 0 {
			break
		}

		for _, summary := range summaries {
			if summary.ID == "" {
				continue
			}

			_, err := c.store.PuzzleByCrosshareID(ctx, summary.ID)
			if err == nil {
				continue
			}
			if !errors.Is(err, db.ErrNotFound) {
				return models.Puzzle{}, err
			}

			src, err := c.source.FetchPuzzle(ctx, summary.ID)
			if err != nil {
				slog.Error("failed to fetch puzzle from crosshare", "crosshare_id", summary.ID, "error", err)
				return models.Puzzle{}, ErrNoPuzzles
			}

			if !c.filter.Accept(src) {
				slog.Debug("skipping puzzle outside clue range",
					"crosshare_id", summary.ID,
					"clues", crosshare.ClueCount(src),
					"min", c.filter.Min,
					"max", c.filter.Max,
				)
				continue
			}

			puzzle, created, err := c.Import(ctx, src)
			if err != nil {
				if errors.Is(err, convert.ErrInvalidGrid) || errors.Is(err, db.ErrInvalidCrosshareID) {
					slog.Warn("skipping malformed puzzle", "crosshare_id", summary.ID, "error", err)
					continue
				}
				return models.Puzzle{}, err
			}
			if !created {
				continue
			}

			slog.Info("fetched new puzzle from crosshare",
				"name", puzzle.Name,
				"puzzle_number", puzzle.PuzzleNumber,
				"clues", crosshare.ClueCount(src),
			)
			return puzzle, nil
		}
	}

	return models.Puzzle{}, ErrNoPuzzles
}

// Import converts and stores a Crosshare puzzle unless one with the same
// Crosshare ID exists already. created reports whether a row was inserted.
func (c *Catalog) Import(ctx context.Context, src crosshare.Puzzle) (puzzle models.Puzzle, created bool, err error) {
	switch n := utf8.RuneCountInString(src.ID); {
	case strings.TrimSpace(src.ID) == "":
		return models.Puzzle{}, false, fmt.Errorf("%w: empty", db.ErrInvalidCrosshareID)
	case n > db.MaxCrosshareIDLen:
		return models.Puzzle{}, false, fmt.Errorf("%w: %q is %d characters, max %d",
			db.ErrInvalidCrosshareID, src.ID, n, db.MaxCrosshareIDLen)
	}

	existing, err := c.store.PuzzleByCrosshareID(ctx, src.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return models.Puzzle{}, false, err
	}

	data, err := convert.CrosshareToCAPI(src, c.now())
	if err != nil {
		return models.Puzzle{}, false, fmt.Errorf("failed to convert puzzle %s: %w", src.ID, err)
	}

	puzzle, err = c.store.InsertPuzzle(ctx, data, src.ID)
	if errors.Is(err, db.ErrDuplicate) {
		existing, lookupErr := c.store.PuzzleByCrosshareID(ctx, src.ID)
		if lookupErr != nil {
			return models.Puzzle{}, false, lookupErr
		}
		return existing, false, nil
	}
	if err != nil {
		return models.Puzzle{}, false, err
	}

	return puzzle, true, nil
}
