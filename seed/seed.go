// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/crossword/catalog"
	"github.com/danielhkuo/crossword/convert"
	"github.com/danielhkuo/crossword/crosshare"
	"github.com/danielhkuo/crossword/db"
)

// DefaultConcurrency bounds parallel Crosshare downloads
const DefaultConcurrency = 4

//go:embed puzzles.yaml
var embeddedPuzzles []byte

var (
	ErrNoPuzzleFile = errors.New("seed file has no puzzles")
	ErrMissingID    = errors.New("seed puzzle has no id")
)

type file struct {
	Puzzles []crosshare.Puzzle `yaml:"puzzles"`
}

// Load decodes a seed file
func Load(r io.Reader) ([]crosshare.Puzzle, error) {
	var f file
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	if len(f.Puzzles) == 0 {
		return nil, ErrNoPuzzleFile
	}
	for i, p := range f.Puzzles {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("puzzle %d (%q): %w", i+1, p.Title, ErrMissingID)
		}
	}
	return f.Puzzles, nil
}

// LoadFile reads a seed file from disk, or the embedded puzzles when path is empty
func LoadFile(path string) ([]crosshare.Puzzle, error) {
	if path == "" {
		return Load(bytes.NewReader(embeddedPuzzles))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

type Options struct {
	// File is the seed file; empty means the embedded puzzles
	File string
	// Fetch is how many extra puzzles to download from Crosshare
	Fetch int
	// Concurrency bounds parallel downloads
	Concurrency int
	// MaxPages bounds the featured pages scanned for Fetch candidates
	MaxPages int
}

// Report counts what a run did
type Report struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
	Rejected int `json:"rejected"`
}

func (r Report) String() string {
	return fmt.Sprintf("inserted=%d skipped=%d rejected=%d", r.Inserted, r.Skipped, r.Rejected)
}

type Seeder struct {
	catalog *catalog.Catalog
	source  catalog.Source
	filter  crosshare.SizeFilter
}

func New(cat *catalog.Catalog, source catalog.Source, filter crosshare.SizeFilter) *Seeder {
	return &Seeder{
		catalog: cat,
		source:  source,
		filter:  filter,
	}
}

// Run imports the seed file and then any fetched puzzles.
// Puzzles already stored are skipped, so running twice changes nothing.
func (s *Seeder) Run(ctx context.Context, opts Options) (Report, error) {
	var report Report

	puzzles, err := LoadFile(opts.File)
	if err != nil {
		return report, err
	}

	for _, p := range puzzles {
		if err := s.importOne(ctx, p, &report); err != nil {
			return report, err
		}
	}

	if opts.Fetch > 0 {
		fetched, err := s.fetch(ctx, opts)
		if err != nil {
			return report, err
		}
		for _, p := range fetched {
			if !s.filter.Accept(p) {
				slog.Debug("rejecting fetched puzzle outside clue range",
					"crosshare_id", p.ID,
					"clues", crosshare.ClueCount(p),
				)
				report.Rejected++
				continue
			}
			if err := s.importOne(ctx, p, &report); err != nil {
				return report, err
			}
		}
	}

	slog.Info("seed complete",
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"rejected", report.Rejected,
	)
	return report, nil
}

func (s *Seeder) importOne(ctx context.Context, p crosshare.Puzzle, report *Report) error {
	puzzle, created, err := s.catalog.Import(ctx, p)
	if err != nil {
		if errors.Is(err, convert.ErrInvalidGrid) || errors.Is(err, db.ErrInvalidCrosshareID) {
			slog.Warn("rejecting malformed puzzle", "crosshare_id", p.ID, "error", err)
			report.Rejected++
			return nil
		}
		return err
	}

	if created {
		slog.Info("puzzle inserted", "name", puzzle.Name, "puzzle_number", puzzle.PuzzleNumber, "crosshare_id", p.ID)
		report.Inserted++
	} else {
		slog.Debug("puzzle already stored", "crosshare_id", p.ID, "puzzle_number", puzzle.PuzzleNumber)
		report.Skipped++
	}
	return nil
}

// fetch lists featured puzzles until it has opts.Fetch IDs, then downloads
// them in parallel. Results keep listing order.
func (s *Seeder) fetch(ctx context.Context, opts Options) ([]crosshare.Puzzle, error) {
	maxPages := opts.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	var ids []string
	for page := 1; page <= maxPages && len(ids) < opts.Fetch; page++ {
		summaries, err := s.source.FetchPuzzleList(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("failed to list featured page %d: %w", page, err)
		}
		if len(summaries) == 0 {
			break
		}
		for _, summary := range summaries {
			if summary.ID == "" {
				continue
			}
			ids = append(ids, summary.ID)
			if len(ids) == opts.Fetch {
				break
			}
		}
	}

	concurrency := opts.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	results := make([]crosshare.Puzzle, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, id := range ids {
		g.Go(func() error {
			p, err := s.source.FetchPuzzle(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to fetch puzzle %s: %w", id, err)
			}
			results[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("fetched puzzles from crosshare", "count", len(results), "concurrency", concurrency)
	return results, nil
}
