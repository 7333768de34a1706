// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/crossword/cliparse"
	"github.com/danielhkuo/crossword/tasks"
)

// Version is set at build time with -ldflags "-X github.com/danielhkuo/crossword/cli.Version=..."
var Version = "dev"

// NewRootCmd creates the crossword command tree
func NewRootCmd() *cobra.Command {
	return newRootCmd(tasks.ExecRunner{})
}

func newRootCmd(runner tasks.Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crossword",
		Short: "Crossword puzzle API and tools",
		Long: `crossword serves daily-style crossword puzzles over HTTP, imports
puzzles from Crosshare, and tracks each user's progress.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("crossword version {{.Version}}\n")

	// Configuration flags are shared by every subcommand
	cliparse.BindFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newTaskCmd(runner))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the command tree and returns the process exit code
func Execute(ctx context.Context, args []string) int {
	return execute(ctx, NewRootCmd(), args)
}

func execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	// A failed child process has already reported on its own stderr
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return tasks.ExitCode(err)
}

// loadConfig reads configuration for cmd and installs the configured logger
func loadConfig(cmd *cobra.Command) (cliparse.Config, error) {
	cfg, err := cliparse.Load(cmd.Flags())
	if err != nil {
		return cfg, err
	}
	slog.SetDefault(newLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat))
	return cfg, nil
}

// newLogger builds a text or JSON slog logger at the given level
func newLogger(w io.Writer, level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "crossword version %s\n", Version)
		},
	}
}
