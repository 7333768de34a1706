// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/middleware"
	"github.com/danielhkuo/crossword/models"
)

type ProgressHandler struct {
	store *db.Store
}

func NewProgressHandler(store *db.Store) *ProgressHandler {
	return &ProgressHandler{store: store}
}

// History handles GET /progress
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.store)
	if !ok {
		return
	}

	rows, err := h.store.ProgressHistory(r.Context(), user.ID)
	if err != nil {
		slog.Error("failed to get progress history", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to get progress")
		return
	}

	history := make([]models.ProgressHistoryItem, 0, len(rows))
	for _, row := range rows {
		history = append(history, models.ProgressHistoryItem{
			PuzzleID:             row.Puzzle.ID,
			PuzzleNumber:         row.Puzzle.PuzzleNumber,
			PuzzleName:           row.Puzzle.Name,
			Status:               row.Progress.Status,
			StartedAt:            row.Progress.StartedAt,
			CompletedAt:          row.Progress.CompletedAt,
			CompletionPercentage: CompletionPercentage(len(row.Progress.CellProgress), row.Puzzle.Data.Dimensions),
		})
	}

	middleware.JSONResponse(w, http.StatusOK, history)
}

// Update handles PUT /progress/{id}
func (h *ProgressHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.store)
	if !ok {
		return
	}

	puzzleID, ok := puzzleIDFromPath(w, r)
	if !ok {
		return
	}

	var req models.ProgressUpdateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	puzzle, err := h.store.GetPuzzle(r.Context(), puzzleID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Puzzle not found")
		return
	}
	if err != nil {
		slog.Error("failed to get puzzle", "puzzle_id", puzzleID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	for key := range req.Cells {
		if err := ValidateCellKey(key, puzzle.Data.Dimensions); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	progress, err := h.store.UpdateCells(r.Context(), user.ID, puzzleID, req.Cells)
	if err != nil {
		slog.Error("failed to update progress", "puzzle_id", puzzleID, "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update progress")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProgressResponse{
		PuzzleID:     puzzle.ID,
		PuzzleNumber: puzzle.PuzzleNumber,
		PuzzleName:   puzzle.Name,
		CellProgress: progress.CellProgress,
		Status:       progress.Status,
		StartedAt:    progress.StartedAt,
		CompletedAt:  progress.CompletedAt,
		TotalFilled:  len(progress.CellProgress),
	})
}

// Complete handles POST /progress/{id}/complete
func (h *ProgressHandler) Complete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.store)
	if !ok {
		return
	}

	puzzleID, ok := puzzleIDFromPath(w, r)
	if !ok {
		return
	}

	err := h.store.CompleteProgress(r.Context(), user.ID, puzzleID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Progress not found")
		return
	}
	if err != nil {
		slog.Error("failed to complete puzzle", "puzzle_id", puzzleID, "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to complete puzzle")
		return
	}

	slog.Info("puzzle completed", "puzzle_id", puzzleID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: models.StatusCompleted})
}

// CompletionPercentage is filled cells over total grid squares, to one decimal
func CompletionPercentage(filled int, dims models.Dimensions) float64 {
	total := dims.TotalCells()
	if total <= 0 {
		return 0
	}
	pct := float64(filled) / float64(total) * 100
	return math.Round(pct*10) / 10
}

// ValidateCellKey checks that key is "x,y" with the cell inside the grid
func ValidateCellKey(key string, dims models.Dimensions) error {
	xs, ys, ok := strings.Cut(key, ",")
	if !ok {
		return fmt.Errorf("cell key %q must be \"x,y\"", key)
	}

	x, errX := strconv.Atoi(xs)
	y, errY := strconv.Atoi(ys)
	if errX != nil || errY != nil {
		return fmt.Errorf("cell key %q must be \"x,y\"", key)
	}

	if x < 0 || x >= dims.Cols || y < 0 || y >= dims.Rows {
		return fmt.Errorf("cell %q is outside the %dx%d grid", key, dims.Cols, dims.Rows)
	}
	return nil
}
