// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the crossword API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(store, cat)

NewHandler wraps the same mux in the CORS middleware and is what the
server listens with.

# Endpoints

Health and banner:

	GET /health - {"status":"ok"}
	GET /       - plain-text banner

Identity:

	POST /auth/identify - Find or create a user by email

Puzzles (require X-User-Id):

	GET /puzzles/next - Next unplayed puzzle, fetching from Crosshare if needed
	GET /puzzles/{id} - A puzzle with the caller's saved cells

Progress (require X-User-Id):

	GET  /progress               - History, newest first
	PUT  /progress/{id}          - Save cell edits
	POST /progress/{id}/complete - Mark a puzzle solved

# Handler Initialization

The router creates handler instances with dependency injection:

	authHandler := handlers.NewAuthHandler(store)
	puzzleHandler := handlers.NewPuzzleHandler(store, cat)
	progressHandler := handlers.NewProgressHandler(store)

All handlers receive the store and configuration; the puzzle handler also
gets the catalog.
*/
package router
