// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/crossword/cliparse"
	"github.com/danielhkuo/crossword/server"
)

func newServeCmd() *cobra.Command {
	var reload bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API until interrupted.

With --reload the server restarts whenever the env file or config file
changes, picking up the new values. Go source is not watched; rerun the
command (or "task dev") after editing code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			load := func() (cliparse.Config, error) {
				return loadConfig(cmd)
			}
			return server.Run(ctx, load, server.Options{Reload: reload})
		},
	}

	cmd.Flags().BoolVar(&reload, "reload", false, "Restart when the env or config file changes (not on Go source edits)")
	return cmd
}
