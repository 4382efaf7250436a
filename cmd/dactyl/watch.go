package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dactyl-manuform/internal/batch"
	"dactyl-manuform/internal/watch"
)

var (
	debounce time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch config.json5",
		Short: "Re-render a configuration every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
)

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet time before a rebuild")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	w, err := watch.New(path, debounce, logger)
	if err != nil {
		return err
	}
	rebuild := func(ctx context.Context) error {
		res := batch.Process(ctx, path, flags(), logger)
		if !res.Success() {
			return errors.New(res.Error)
		}
		logger.Info("rebuilt", zap.Int("artifacts", len(res.Artifacts)), zap.Float64("seconds", res.Seconds))
		return nil
	}
	if err := rebuild(cmd.Context()); err != nil {
		logger.Error("initial build failed", zap.Error(err))
	}
	return w.Run(cmd.Context(), rebuild)
}
