// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the crossword API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - AuthHandler: Email identification
  - PuzzleHandler: Next puzzle and puzzle retrieval
  - ProgressHandler: Cell saves, completion and history

Handlers are created via constructor functions:

	authHandler := handlers.NewAuthHandler(store)
	puzzleHandler := handlers.NewPuzzleHandler(store, cat)

# Identity

There are no sessions. A client identifies once by email and sends the
returned ID on every other request:

	POST /auth/identify → Identify (returns id)

Missing, malformed or unknown X-User-Id headers get 401.

# Puzzles

	GET /puzzles/next → Next (stored unplayed puzzle, else a Crosshare fetch)
	GET /puzzles/{id} → Get

Next records that the user started the puzzle, so repeated calls walk
the catalog. Its progress is always {}. Get returns null progress for a
puzzle the user never opened.

# Progress

	PUT  /progress/{id}          → Update (merge cells; "" clears)
	POST /progress/{id}/complete → Complete
	GET  /progress               → History

Cell keys are "x,y" and must lie inside the grid. History reports
CompletionPercentage: filled cells over all grid squares, blocks included.
*/
package handlers
