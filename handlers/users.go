// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crossword/auth"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/middleware"
	"github.com/danielhkuo/crossword/models"
)

type AuthHandler struct {
	store *db.Store
}

func NewAuthHandler(store *db.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// Identify handles POST /auth/identify
func (h *AuthHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var req models.IdentifyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is required")
		return
	}

	email, err := auth.NormalizeEmail(req.Email)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email is not a valid address")
		return
	}

	user, created, err := h.store.FindOrCreateUser(r.Context(), email)
	if err != nil {
		slog.Error("failed to identify user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to identify user")
		return
	}

	if created {
		slog.Info("user created", "user_id", user.ID)
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// requireUser resolves the X-User-Id header to a stored user.
// It writes a 401 and returns false when that fails.
func requireUser(w http.ResponseWriter, r *http.Request, store *db.Store) (models.User, bool) {
	userID, err := auth.UserIDFromRequest(r)
	if err != nil {
		if errors.Is(err, auth.ErrMissingUserID) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "X-User-Id header required")
		} else {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid X-User-Id")
		}
		return models.User{}, false
	}

	user, err := store.GetUser(r.Context(), userID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown user")
		return models.User{}, false
	}
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to look up user")
		return models.User{}, false
	}

	return user, true
}

// puzzleIDFromPath validates the {id} path parameter, writing a 400 on failure
func puzzleIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := auth.ParseID(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid puzzle ID")
		return "", false
	}
	return id, true
}
