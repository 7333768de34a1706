// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the crossword API server.

crossword serves Guardian-style (CAPI) crossword puzzles converted from
Crosshare, hands each user the next puzzle they have not played, and saves
their cells as they solve.

# Starting the Server

With no configuration the server uses a local SQLite file:

	go run . serve

Or with flags and a PostgreSQL database:

	go run . serve -p 8000 -d "postgres://..."

Seed the catalog first so there is something to play:

	go run . seed --fetch 10

# Configuration

Settings come from flags, environment variables, .env.local and
crossword.yaml, in that order of precedence:

  - DATABASE_URL (-d): sqlite:// or postgres:// URL (default: sqlite://crossword.db)
  - DATABASE_TYPE (-t): sqlite or postgres; inferred from the URL when empty
  - PORT (-p), HOST: listen address (default: 127.0.0.1:8000)
  - CORS_ORIGINS: comma-separated allowed origins
  - CROSSHARE_URL, MIN_CLUES, MAX_CLUES, CROSSHARE_MAX_PAGES: puzzle fetching
  - CROSSHARE_TIMEOUT, CROSSHARE_CACHE_SIZE: Crosshare client tuning
  - LOG_LEVEL, LOG_FORMAT: slog level and text|json output

# Architecture

The server uses a handler-based architecture with dependency injection:

  - cli: cobra commands (serve, seed, task, version)
  - server: Listener lifecycle and --reload
  - handlers: HTTP request handlers (auth, puzzles, progress)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - catalog: Next-puzzle selection and Crosshare import
  - crosshare: Crosshare page client
  - convert: Crosshare to CAPI conversion
  - seed: Bundled and fetched puzzle seeding
  - tasks: Developer tasks shared with the Makefile
  - models: Request/response and CAPI types
  - auth: IDs and email normalization
  - db: Schema and Store
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
