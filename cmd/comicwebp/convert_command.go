package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"comicwebp/internal/logging"
	"comicwebp/internal/pipeline"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <archive>",
		Short: "Convert a single comic archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, args[0])
		},
	}
}

// runConvert processes one archive and prints the run summary. Only a fatal
// run returns an error.
func runConvert(cmd *cobra.Command, ctx *commandContext, archivePath string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	defer ctx.close()

	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	signalCtx, cancel := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []pipeline.Option
	store, err := ctx.openHistory()
	if err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, pipeline.WithRecorder(store))
	}

	p := pipeline.New(cfg, ctx.executor, logger, opts...)
	report := p.Run(signalCtx, archivePath)
	renderReport(cmd.OutOrStdout(), report, shouldColorize(cmd.OutOrStdout()))
	return report.Err
}
