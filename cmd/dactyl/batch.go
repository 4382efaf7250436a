package main

import (
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dactyl-manuform/internal/batch"
)

var (
	jobs int

	batchCmd = &cobra.Command{
		Use:   "batch config.json5 [config.json5...]",
		Short: "Render many configurations with a worker pool",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBatch,
	}
)

func init() {
	batchCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "configurations rendered at once (default: NumCPU/4)")
}

func runBatch(cmd *cobra.Command, args []string) error {
	if jobs <= 0 {
		jobs = max(runtime.NumCPU()/4, 1)
	}
	start := time.Now()
	logger.Info("batch started", zap.Int("configs", len(args)), zap.Int("jobs", jobs))

	results := batch.Run(cmd.Context(), batch.Options{Flags: flags(), Jobs: jobs, Log: logger}, args)
	dir := outputDir
	if dir == "" {
		dir = "things"
	}
	return finish(start, results, dir)
}
