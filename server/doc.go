// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package server runs the crossword API.

Serve opens the database, creates the schema and listens until its
context is cancelled, then shuts down gracefully:

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := server.Serve(ctx, cfg, nil)

Run adds development reload. It takes a Loader instead of a Config and,
with Options.Reload, watches the env file and config file. After a burst
of changes settles it stops the listener, loads the configuration again
and starts a new one.
*/
package server
