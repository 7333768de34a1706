// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema, and provides the Store
used by every other package.

# Backends

Two dialects are supported with the same SQL:

  - PostgreSQL via lib/pq
  - SQLite via modernc.org/sqlite (pure Go, no cgo)

Open picks the driver from the dialect:

	conn, err := db.Open(ctx, db.SQLite, "crossword.db")

SQLite connections are limited to one open connection, and foreign keys
and a busy timeout are switched on through DSN pragmas. Because of the
single connection, code inside a transaction must use the *sql.Tx only.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(ctx, conn, db.SQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
JSON columns are JSONB on PostgreSQL and TEXT on SQLite.

# Tables

  - users: one row per email address
  - puzzles: CAPI crossword JSON with a sequential puzzle_number
  - user_puzzle_progress: filled cells and status per (user, puzzle)

# Relationships

	users 1──* user_puzzle_progress *──1 puzzles

All foreign keys use ON DELETE CASCADE.

# Store

Store wraps the connection with the queries the API and seeder need.
Missing rows come back as ErrNotFound; inserting a Crosshare puzzle that
is already stored returns ErrDuplicate, and a Crosshare ID longer than
MaxCrosshareIDLen returns ErrInvalidCrosshareID on either dialect.

	store := db.NewStore(conn, db.SQLite)

The Store takes the dialect so progress saves can lock their row with
SELECT ... FOR UPDATE on PostgreSQL.

Puzzle numbers are assigned inside InsertPuzzle as MAX(puzzle_number)+1.
If two writers pick the same number the unique constraint rejects one and
it retries.
*/
package db
