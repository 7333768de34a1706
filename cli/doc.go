// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cli is the crossword command tree.

	crossword serve [--reload]
	crossword seed [--file path] [--fetch n] [--concurrency n]
	crossword task [help|install|dev|test|seed]
	crossword version

Configuration flags (--port, --database-url, --config, ...) are persistent
and shared by every subcommand; see package cliparse for precedence.
Commands that touch the database load the configuration and install a
slog logger at the configured level and format before doing anything else.
*/
package cli
