// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/crossword/catalog"
	"github.com/danielhkuo/crossword/cliparse"
	"github.com/danielhkuo/crossword/db"
	"github.com/danielhkuo/crossword/handlers"
	"github.com/danielhkuo/crossword/middleware"
	"github.com/danielhkuo/crossword/models"
)

// Banner is the plain-text body of GET /
const Banner = "crossword API v1"

func NewRouter(store *db.Store, cat *catalog.Catalog) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store)
	puzzleHandler := handlers.NewPuzzleHandler(store, cat)
	progressHandler := handlers.NewProgressHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.StatusResponse{Status: "ok"})
	})

	// Identity
	mux.HandleFunc("POST /auth/identify", middleware.WithLogging(authHandler.Identify))

	// Puzzles (require X-User-Id)
	mux.HandleFunc("GET /puzzles/next", middleware.WithLogging(puzzleHandler.Next))
	mux.HandleFunc("GET /puzzles/{id}", middleware.WithLogging(puzzleHandler.Get))

	// Progress (require X-User-Id)
	mux.HandleFunc("GET /progress", middleware.WithLogging(progressHandler.History))
	mux.HandleFunc("PUT /progress/{id}", middleware.WithLogging(progressHandler.Update))
	mux.HandleFunc("POST /progress/{id}/complete", middleware.WithLogging(progressHandler.Complete))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(Banner))
	})

	return mux
}

// NewHandler is the router wrapped in CORS, ready to serve
func NewHandler(store *db.Store, cat *catalog.Catalog, cfg cliparse.Config) http.Handler {
	return middleware.CORS(cfg.CORSOrigins)(NewRouter(store, cat))
}
