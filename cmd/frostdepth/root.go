package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "frostdepth",
		Short:        "Modified Berggren frost depth calculator",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "Log debug output to stderr")

	logger := func(w io.Writer) *slog.Logger {
		level := slog.LevelWarn
		if debug {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	}

	cmd.AddCommand(computeCmd(logger))
	cmd.AddCommand(modelsCmd())
	return cmd
}
