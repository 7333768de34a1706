// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - IdentifyRequest: email
  - ProgressUpdateRequest: cells (map "x,y" -> letter)

# Response Types

Types for JSON responses:

  - UserResponse: id, email, created_at
  - PuzzleResponse: id, puzzle_number, name, data, progress
  - ProgressResponse: puzzle_id, cell_progress, status, total_filled, ...
  - ProgressHistoryItem: one row of GET /progress
  - StatusResponse: status
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: a player identified by email
  - Puzzle: a stored crossword with its sequential puzzle_number
  - Progress: one user's cells for one puzzle

# Crossword Format

Puzzle data is stored and served in the CAPI crossword shape:

  - Crossword: dimensions, creator, dates (ms since epoch), entries
  - Entry: id ("1-across"), number, clue, direction, length, position,
    solution, group
  - Position: x (column), y (row), both 0-indexed

# Constants

Progress status values:

	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"

Entry directions:

	DirectionAcross = "across"
	DirectionDown   = "down"
*/
package models
