// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package crosshare fetches puzzles from crosshare.org.

Crosshare has no public JSON API. Its pages are rendered by Next.js and
carry their data in a <script id="__NEXT_DATA__"> element; the client
downloads the page and decodes that script.

	client := crosshare.NewClient(crosshare.DefaultBaseURL)
	list, err := client.FetchPuzzleList(ctx, 1)    // GET /featured/1
	puzzle, err := client.FetchPuzzle(ctx, list[0].ID) // GET /crosswords/{id}

Fetched puzzles are cached in an LRU keyed by puzzle ID.

# Errors

  - *StatusError: non-2xx response
  - ErrNoNextData: page has no data script
  - ErrPuzzleNotFound: page data has no puzzle

# Filtering

SizeFilter keeps puzzles whose clue count is strictly inside (Min, Max).
DefaultSizeFilter is 20 < clues < 25.
*/
package crosshare
