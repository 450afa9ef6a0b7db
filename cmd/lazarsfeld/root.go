package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lazarsfeld",
		Short: "Score texts against concepts with True/False model probes",
		Long: `Lazarsfeld evaluates texts against a hierarchy of concepts, dimensions and
True/False questions. Each question is asked to one or more language models and the
log-probability of the answer token becomes a score between 0 and 1.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if *debugLogging {
			level = slog.LevelDebug
		}
		logger := clog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		cmd.SetContext(clog.WithLogger(cmd.Context(), logger))
	}

	cmd.AddCommand(newEvalCommand())
	cmd.AddCommand(newConvertCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newCompareCommand())
	cmd.AddCommand(newShowCommand())

	return cmd
}

func execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newRootCommand().ExecuteContext(ctx)
}
