// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/crossword/auth"
	"github.com/danielhkuo/crossword/convert"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/models"
	"github.com/danielhkuo/crossword/testutil"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    db.Dialect
		wantErr bool
	}{
		{"postgres", db.Postgres, false},
		{"PostgreSQL", db.Postgres, false},
		{"sqlite", db.SQLite, false},
		{" sqlite3 ", db.SQLite, false},
		{"mysql", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := db.ParseDialect(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, db.ErrUnsupportedDialect)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	require.NoError(t, db.CreateSchema(context.Background(), conn, db.SQLite))
}

func TestFindOrCreateUser(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	first, created, err := store.FindOrCreateUser(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, first.ID, 36)

	second, created, err := store.FindOrCreateUser(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	got, err := store.GetUser(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", got.Email)

	_, err = store.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestInsertPuzzle_SequentialNumbers(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	p1 := testutil.CreateTestPuzzle(t, store, "ch-1")
	p2 := testutil.CreateTestPuzzle(t, store, "ch-2")
	p3 := testutil.CreateTestPuzzle(t, store, "")

	assert.Equal(t, 1, p1.PuzzleNumber)
	assert.Equal(t, 2, p2.PuzzleNumber)
	assert.Equal(t, 3, p3.PuzzleNumber)
	assert.Nil(t, p3.CrosshareID)

	got, err := store.GetPuzzle(ctx, p2.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Data.Number, "stored data carries the assigned number")
	assert.Equal(t, "Sample ch-2", got.Name)
	require.NotNil(t, got.CrosshareID)
	assert.Equal(t, "ch-2", *got.CrosshareID)
	assert.Len(t, got.Data.Entries, 4)

	byCH, err := store.PuzzleByCrosshareID(ctx, "ch-1")
	require.NoError(t, err)
	assert.Equal(t, p1.ID, byCH.ID)

	n, err := store.CountPuzzles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestInsertPuzzle_DuplicateCrosshareID(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	testutil.CreateTestPuzzle(t, store, "dup")

	data, err := convert.CrosshareToCAPI(testutil.SamplePuzzle("dup"), testutil.FixedNow)
	require.NoError(t, err)

	_, err = store.InsertPuzzle(ctx, data, "dup")
	assert.ErrorIs(t, err, db.ErrDuplicate)

	n, err := store.CountPuzzles(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertPuzzle_CrosshareIDTooLong(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	long := strings.Repeat("é", db.MaxCrosshareIDLen+1)
	data, err := convert.CrosshareToCAPI(testutil.SamplePuzzle(long), testutil.FixedNow)
	require.NoError(t, err)

	_, err = store.InsertPuzzle(ctx, data, long)
	assert.ErrorIs(t, err, db.ErrInvalidCrosshareID)

	n, err := store.CountPuzzles(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInsertPuzzle_Concurrent(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	data, err := convert.CrosshareToCAPI(testutil.SamplePuzzle("x"), testutil.FixedNow)
	require.NoError(t, err)

	const writers = 5
	var wg sync.WaitGroup
	numbers := make(chan int, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := store.InsertPuzzle(ctx, data, "")
			if assert.NoError(t, err) {
				numbers <- p.PuzzleNumber
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[int]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "puzzle number %d assigned twice", n)
		seen[n] = true
	}
	assert.Len(t, seen, writers)
}

func TestNextUnplayedPuzzle(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, store, "bob@example.com")

	_, err := store.NextUnplayedPuzzle(ctx, user.ID)
	assert.ErrorIs(t, err, db.ErrNotFound)

	p1 := testutil.CreateTestPuzzle(t, store, "a")
	p2 := testutil.CreateTestPuzzle(t, store, "b")

	next, err := store.NextUnplayedPuzzle(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, next.ID)

	require.NoError(t, store.StartProgress(ctx, user.ID, p1.ID))

	next, err = store.NextUnplayedPuzzle(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, next.ID)

	// Another user is unaffected
	other := testutil.CreateTestUser(t, store, "carol@example.com")
	next, err = store.NextUnplayedPuzzle(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, next.ID)
}

func TestStartProgress_Idempotent(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, store, "dan@example.com")
	puzzle := testutil.CreateTestPuzzle(t, store, "p")

	require.NoError(t, store.StartProgress(ctx, user.ID, puzzle.ID))
	_, err := store.UpdateCells(ctx, user.ID, puzzle.ID, map[string]string{"0,0": "c"})
	require.NoError(t, err)

	// A second start must not reset the cells
	require.NoError(t, store.StartProgress(ctx, user.ID, puzzle.ID))

	progress, err := store.GetProgress(ctx, user.ID, puzzle.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"0,0": "C"}, progress.CellProgress)
	assert.Equal(t, models.StatusInProgress, progress.Status)
	assert.Nil(t, progress.CompletedAt)
}

func TestUpdateCells(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	user := testutil.CreateTestUser(t, store, "eve@example.com")
	puzzle := testutil.CreateTestPuzzle(t, store, "p")

	t.Run("creates progress on first update", func(t *testing.T) {
		progress, err := store.UpdateCells(ctx, user.ID, puzzle.ID, map[string]string{"0,0": "c", "1,0": "a"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"0,0": "C", "1,0": "A"}, progress.CellProgress)
		assert.Equal(t, models.StatusInProgress, progress.Status)
	})

	t.Run("merges and clears cells", func(t *testing.T) {
		progress, err := store.UpdateCells(ctx, user.ID, puzzle.ID, map[string]string{"1,0": "", "2,0": "t", "2,2": ""})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"0,0": "C", "2,0": "T"}, progress.CellProgress)

		stored, err := store.GetProgress(ctx, user.ID, puzzle.ID)
		require.NoError(t, err)
		assert.Equal(t, progress.CellProgress, stored.CellProgress)
	})
}

func TestUpdateCells_KeepsStartedAt(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	started := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	saved := started.Add(time.Hour)

	user := testutil.CreateTestUser(t, store, "gil@example.com")
	puzzle := testutil.CreateTestPuzzle(t, store, "p")

	store.SetClock(func() time.Time { return started })
	require.NoError(t, store.StartProgress(ctx, user.ID, puzzle.ID))
	before, err := store.GetProgress(ctx, user.ID, puzzle.ID)
	require.NoError(t, err)

	store.SetClock(func() time.Time { return saved })
	progress, err := store.UpdateCells(ctx, user.ID, puzzle.ID, map[string]string{"0,0": "c"})
	require.NoError(t, err)

	assert.Equal(t, before.ID, progress.ID, "the started row is updated in place")
	assert.True(t, progress.StartedAt.Equal(started), "started_at %v", progress.StartedAt)
	assert.True(t, progress.LastUpdatedAt.Equal(saved), "last_updated_at %v", progress.LastUpdatedAt)
}

// saveCellsConcurrently has every goroutine save a different cell of a
// puzzle nobody has started, then checks no save was lost
func saveCellsConcurrently(t *testing.T, store *db.Store) {
	t.Helper()
	ctx := context.Background()

	user := testutil.CreateTestUser(t, store, auth.GenerateID()+"@example.com")
	puzzle := testutil.CreateTestPuzzle(t, store, "")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("%d,0", i)
			if _, err := store.UpdateCells(ctx, user.ID, puzzle.ID, map[string]string{key: "x"}); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent save failed: %v", err)
	}

	progress, err := store.GetProgress(ctx, user.ID, puzzle.ID)
	require.NoError(t, err)
	assert.Len(t, progress.CellProgress, writers)
}

func TestUpdateCells_ConcurrentFirstSaves(t *testing.T) {
	saveCellsConcurrently(t, testutil.SetupTestStore(t))
}

func TestUpdateCells_ConcurrentFirstSavesPostgres(t *testing.T) {
	saveCellsConcurrently(t, testutil.SetupPostgresStore(t))
}

func TestCompleteProgress(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	fixed := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return fixed })

	user := testutil.CreateTestUser(t, store, "fay@example.com")
	puzzle := testutil.CreateTestPuzzle(t, store, "p")

	err := store.CompleteProgress(ctx, user.ID, puzzle.ID)
	assert.True(t, errors.Is(err, db.ErrNotFound), "completing an unstarted puzzle")

	require.NoError(t, store.StartProgress(ctx, user.ID, puzzle.ID))
	require.NoError(t, store.CompleteProgress(ctx, user.ID, puzzle.ID))

	progress, err := store.GetProgress(ctx, user.ID, puzzle.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, progress.Status)
	require.NotNil(t, progress.CompletedAt)
	assert.True(t, fixed.Equal(*progress.CompletedAt))
}

func TestProgressHistory(t *testing.T) {
	store := testutil.SetupTestStore(t)
	ctx := context.Background()

	clock := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return clock })

	user := testutil.CreateTestUser(t, store, "gil@example.com")
	p1 := testutil.CreateTestPuzzle(t, store, "one")
	p2 := testutil.CreateTestPuzzle(t, store, "two")

	history, err := store.ProgressHistory(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NotNil(t, history)

	require.NoError(t, store.StartProgress(ctx, user.ID, p1.ID))
	clock = clock.Add(time.Hour)
	require.NoError(t, store.StartProgress(ctx, user.ID, p2.ID))

	history, err = store.ProgressHistory(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Newest first
	assert.Equal(t, p2.ID, history[0].Puzzle.ID)
	assert.Equal(t, p1.ID, history[1].Puzzle.ID)
	assert.Equal(t, 3, history[0].Puzzle.Data.Dimensions.Rows)
	assert.Equal(t, user.ID, history[0].Progress.UserID)
}
