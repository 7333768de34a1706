// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tasks holds the developer commands also found in the Makefile.

Each task is a fixed argv handed to a Runner:

	err := tasks.Run(ctx, tasks.ExecRunner{}, "test")
	os.Exit(tasks.ExitCode(err))

The child's exit status is passed through by ExitCode. Help prints the
same five-line summary as make help.
*/
package tasks
