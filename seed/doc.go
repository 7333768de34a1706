// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seed populates the database with puzzles.

A seed file is YAML holding Crosshare-shaped puzzles:

	puzzles:
	  - id: local-pet-shop
	    title: Pet Shop
	    authorName: Crossword Team
	    size: {rows: 3, cols: 3}
	    grid: [C, A, T, A, ".", O, B, O, W]
	    clues:
	      - {num: 1, dir: 0, clue: Feline friend}

A starter file is compiled into the binary and used when no --file is
given. Puzzles from the file skip the clue-count filter; a grid that does
not match its size is counted as rejected.

With Options.Fetch > 0 the seeder also lists featured Crosshare pages,
downloads that many puzzles with bounded parallelism (errgroup), and
imports the ones the size filter accepts in listing order, so puzzle
numbers are stable across runs.

Every import goes through catalog.Import, keyed on the Crosshare ID, so a
second run only reports skipped puzzles.
*/
package seed
