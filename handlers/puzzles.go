// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crossword/catalog"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/middleware"
	"github.com/danielhkuo/crossword/models"
)

type PuzzleHandler struct {
	store   *db.Store
	catalog *catalog.Catalog
}

func NewPuzzleHandler(store *db.Store, cat *catalog.Catalog) *PuzzleHandler {
	return &PuzzleHandler{store: store, catalog: cat}
}

// Next handles GET /puzzles/next
func (h *PuzzleHandler) Next(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.store)
	if !ok {
		return
	}

	puzzle, err := h.catalog.Next(r.Context(), user.ID)
	if errors.Is(err, catalog.ErrNoPuzzles) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No more puzzles available")
		return
	}
	if err != nil {
		slog.Error("failed to get next puzzle", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get next puzzle")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PuzzleResponse{
		ID:           puzzle.ID,
		PuzzleNumber: puzzle.PuzzleNumber,
		Name:         puzzle.Name,
		Data:         puzzle.Data,
		Progress:     map[string]string{},
	})
}

// Get handles GET /puzzles/{id}
func (h *PuzzleHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.store)
	if !ok {
		return
	}

	puzzleID, ok := puzzleIDFromPath(w, r)
	if !ok {
		return
	}

	puzzle, err := h.store.GetPuzzle(r.Context(), puzzleID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Puzzle not found")
		return
	}
	if err != nil {
		slog.Error("failed to get puzzle", "puzzle_id", puzzleID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get puzzle")
		return
	}

	// null progress means the user never opened this puzzle
	var cells map[string]string
	progress, err := h.store.GetProgress(r.Context(), user.ID, puzzleID)
	switch {
	case err == nil:
		cells = progress.CellProgress
	case !errors.Is(err, db.ErrNotFound):
		slog.Error("failed to get progress", "puzzle_id", puzzleID, "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get puzzle")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PuzzleResponse{
		ID:           puzzle.ID,
		PuzzleNumber: puzzle.PuzzleNumber,
		Name:         puzzle.Name,
		Data:         puzzle.Data,
		Progress:     cells,
	})
}
