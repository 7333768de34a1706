// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package catalog decides which puzzle a user plays next and pulls new
puzzles from Crosshare when the database runs dry.

# Next Puzzle

	puzzle, err := cat.Next(ctx, userID)

Next picks the lowest puzzle_number the user has no progress row for. If
every stored puzzle has been started, it calls FetchNew. The returned
puzzle is recorded as in_progress so the same user is not offered it
again. ErrNoPuzzles means there is nothing left anywhere.

# Fetching

FetchNew scans featured pages 1..maxPages in order. Within a page it
skips listings without an ID, puzzles already stored, and puzzles whose
clue count falls outside the size filter, then imports the first one
left. A failed HTTP fetch ends the scan with ErrNoPuzzles after logging
the cause; the API treats that the same as an exhausted catalog.

Scans are serialized so two users running out at once do not race to
import the same listing.

# Import

Import is keyed on the Crosshare ID and is safe to repeat:

	puzzle, created, err := cat.Import(ctx, src)

The seeder uses it directly for puzzles that do not come from a listing.
*/
package catalog
