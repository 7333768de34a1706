// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/crossword/tasks"
)

func newTaskCmd(runner tasks.Runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task [help|install|dev|test|seed]",
		Short: "Run a developer task",
		Args:  cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			names := []string{"help"}
			for _, t := range tasks.Default() {
				names = append(names, t.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || args[0] == "help" {
				return tasks.Help(cmd.OutOrStdout())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return tasks.Run(ctx, runner, args[0])
		},
	}
	return cmd
}
