// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/crossword/seed"
	"github.com/danielhkuo/crossword/server"
)

func newSeedCmd() *cobra.Command {
	var opts seed.Options

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Populate the database with puzzles",
		Long: `Import the bundled puzzles, or those in --file, and optionally download
--fetch more from Crosshare. Puzzles already stored are skipped, so seeding
twice is safe.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := server.OpenStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.DB().Close()

			client := server.NewCrosshareClient(cfg)
			seeder := seed.New(server.NewCatalog(store, client, cfg), client, server.SizeFilter(cfg))

			opts.MaxPages = cfg.CrosshareMaxPages
			report, err := seeder.Run(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Seed file (YAML); defaults to the bundled puzzles")
	cmd.Flags().IntVar(&opts.Fetch, "fetch", 0, "Also download this many featured puzzles from Crosshare")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", seed.DefaultConcurrency, "Parallel Crosshare downloads")
	return cmd
}
