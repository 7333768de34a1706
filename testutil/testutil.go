// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/crossword/auth"
	"github.com/danielhkuo/crossword/cliparse"
	"github.com/danielhkuo/crossword/convert"
	"github.com/danielhkuo/crossword/crosshare"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/models"
)

// FixedNow is the clock used for converted test puzzles
var FixedNow = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// SetupTestDB creates a fresh SQLite database with the full schema in a temp dir
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	conn, err := db.Open(ctx, db.SQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a Store over a fresh test database
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t), db.SQLite)
}

// PostgresURLEnv names the DSN used by tests that need a real Postgres server
const PostgresURLEnv = "TEST_POSTGRES_URL"

// SetupPostgresStore returns a Store over the Postgres database named by
// TEST_POSTGRES_URL, skipping the test when it is unset. Rows are not
// cleaned up, so callers should use fresh users and puzzles.
func SetupPostgresStore(t *testing.T) *db.Store {
	t.Helper()

	dsn := os.Getenv(PostgresURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresURLEnv)
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, db.Postgres, dsn)
	if err != nil {
		t.Fatalf("Failed to open postgres: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(ctx, conn, db.Postgres); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return db.NewStore(conn, db.Postgres)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Host:               "127.0.0.1",
		Port:               8000,
		DatabaseURL:        "sqlite://test.db",
		DatabaseType:       "sqlite",
		CORSOrigins:        []string{"http://localhost:5173"},
		CrosshareURL:       "http://crosshare.invalid",
		MinClues:           20,
		MaxClues:           25,
		CrosshareMaxPages:  3,
		CrosshareTimeout:   5 * time.Second,
		CrosshareCacheSize: 16,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// SamplePuzzle returns a 3x3 Crosshare puzzle:
//
//	C A T
//	A . O
//	B O W
//
// It numbers as 1-across CAT, 1-down CAB, 2-down TOW, 3-across BOW.
func SamplePuzzle(id string) crosshare.Puzzle {
	return crosshare.Puzzle{
		ID:         id,
		Title:      "Sample " + id,
		AuthorName: "Tester",
		Size:       crosshare.Size{Rows: 3, Cols: 3},
		Grid:       []string{"C", "A", "T", "A", ".", "O", "B", "O", "W"},
		Clues: []crosshare.Clue{
			{Num: 1, Dir: crosshare.DirAcross, Clue: "Feline"},
			{Num: 3, Dir: crosshare.DirAcross, Clue: "Archer's weapon"},
			{Num: 1, Dir: crosshare.DirDown, Clue: "Taxi"},
			{Num: 2, Dir: crosshare.DirDown, Clue: "Pull behind"},
		},
	}
}

// WithClueCount pads or trims the clue list so size filters see n clues
func WithClueCount(p crosshare.Puzzle, n int) crosshare.Puzzle {
	clues := make([]crosshare.Clue, 0, n)
	for i := 0; i < n; i++ {
		if i < len(p.Clues) {
			clues = append(clues, p.Clues[i])
			continue
		}
		clues = append(clues, crosshare.Clue{Num: 100 + i, Dir: crosshare.DirAcross, Clue: fmt.Sprintf("Filler %d", i)})
	}
	p.Clues = clues
	return p
}

// CreateTestUser inserts a user and returns it
func CreateTestUser(t *testing.T, store *db.Store, email string) models.User {
	t.Helper()

	user, _, err := store.FindOrCreateUser(context.Background(), email)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// CreateTestPuzzle converts and stores SamplePuzzle(crosshareID).
// An empty crosshareID stores the puzzle without one.
func CreateTestPuzzle(t *testing.T, store *db.Store, crosshareID string) models.Puzzle {
	t.Helper()

	src := SamplePuzzle(crosshareID)
	if crosshareID == "" {
		src = SamplePuzzle(auth.GenerateID()[:8])
	}

	data, err := convert.CrosshareToCAPI(src, FixedNow)
	if err != nil {
		t.Fatalf("Failed to convert test puzzle: %v", err)
	}

	puzzle, err := store.InsertPuzzle(context.Background(), data, crosshareID)
	if err != nil {
		t.Fatalf("Failed to create test puzzle: %v", err)
	}
	return puzzle
}

// FakeCrosshare serves featured listings and puzzle pages the way crosshare.org embeds them
type FakeCrosshare struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[int][]crosshare.PuzzleSummary
	puzzles  map[string]crosshare.Puzzle
	requests map[string]int
}

// NewFakeCrosshare starts a fake server; it is closed when the test ends
func NewFakeCrosshare(t *testing.T) *FakeCrosshare {
	t.Helper()

	f := &FakeCrosshare{
		pages:    map[int][]crosshare.PuzzleSummary{},
		puzzles:  map[string]crosshare.Puzzle{},
		requests: map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// AddPage lists the given puzzles on a featured page and makes each fetchable
func (f *FakeCrosshare) AddPage(page int, puzzles ...crosshare.Puzzle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range puzzles {
		f.pages[page] = append(f.pages[page], crosshare.PuzzleSummary{ID: p.ID, Title: p.Title, AuthorName: p.AuthorName})
		f.puzzles[p.ID] = p
	}
}

// AddListing lists summaries on a featured page without making them fetchable
func (f *FakeCrosshare) AddListing(page int, summaries ...crosshare.PuzzleSummary) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[page] = append(f.pages[page], summaries...)
}

// Requests returns how many times a path was hit
func (f *FakeCrosshare) Requests(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[path]
}

func (f *FakeCrosshare) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests[r.URL.Path]++
	f.mu.Unlock()

	var pageProps any

	switch {
	case strings.HasPrefix(r.URL.Path, "/featured/"):
		var page int
		if _, err := fmt.Sscanf(strings.TrimPrefix(r.URL.Path, "/featured/"), "%d", &page); err != nil {
			http.NotFound(w, r)
			return
		}
		f.mu.Lock()
		list := f.pages[page]
		f.mu.Unlock()
		if list == nil {
			list = []crosshare.PuzzleSummary{}
		}
		pageProps = map[string]any{"puzzles": list}

	case strings.HasPrefix(r.URL.Path, "/crosswords/"):
		id := strings.TrimPrefix(r.URL.Path, "/crosswords/")
		f.mu.Lock()
		p, ok := f.puzzles[id]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		pageProps = map[string]any{"puzzle": p}

	default:
		http.NotFound(w, r)
		return
	}

	payload, _ := json.Marshal(map[string]any{"props": map[string]any{"pageProps": pageProps}})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html><html><body><div id="__next"></div><script id="__NEXT_DATA__" type="application/json">%s</script></body></html>`, payload)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// UserHeaders returns the auth header for a user
func UserHeaders(userID string) map[string]string {
	return map[string]string{auth.UserIDHeader: userID}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
