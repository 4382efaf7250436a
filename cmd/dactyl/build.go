package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dactyl-manuform/internal/batch"
	"dactyl-manuform/internal/builder"
	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/export"
)

var (
	configFile string

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Render one configuration",
		Long: `build renders both case halves, the thumb sections when they are separable,
both base plates and any loose OLED parts. Without -c the default
configuration is rendered.`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVarP(&configFile, "config", "c", "", "JSON5 configuration file")
}

// loadConfig reads path, or the defaults when path is empty, and applies the flags.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Defaults()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	cfg.Resolve(flags())
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	if configFile != "" {
		res := batch.Process(cmd.Context(), configFile, flags(), logger)
		return finish(start, []batch.Result{res}, outputFor(res))
	}

	cfg, err := loadConfig("")
	if err != nil {
		return err
	}
	res := batch.Result{Config: "defaults", Name: cfg.ConfigName}
	b, err := builder.New(&cfg, logger)
	if err != nil {
		return err
	}
	exp, err := export.New(&cfg, logger)
	if err != nil {
		return err
	}
	built, err := b.Build(cmd.Context())
	if err != nil {
		return err
	}
	if res.Artifacts, err = exp.ExportResult(cmd.Context(), cfg.ConfigName, built); err != nil {
		return err
	}
	res.Seconds = time.Since(start).Seconds()
	return finish(start, []batch.Result{res}, cfg.OutputDir)
}

// outputFor is where the artifacts of res went.
func outputFor(res batch.Result) string {
	if outputDir != "" {
		return outputDir
	}
	for _, a := range res.Artifacts {
		if a.STL != "" {
			return filepath.Dir(a.STL)
		}
	}
	cfg, err := loadConfig(res.Config)
	if err != nil {
		return "things"
	}
	return cfg.OutputDir
}

// finish writes the run manifest into dir and fails when any configuration failed.
func finish(start time.Time, results []batch.Result, dir string) error {
	m := batch.NewManifest(start, results)
	path := filepath.Join(dir, "manifest.json")
	if err := batch.WriteManifest(path, m); err != nil {
		logger.Warn("manifest write failed", zap.String("path", path), zap.Error(err))
	} else {
		logger.Info("manifest written", zap.String("path", path), zap.String("run_id", m.RunID))
	}
	if n := m.Failed(); n > 0 {
		for _, r := range results {
			if !r.Success() {
				logger.Error("failed", zap.String("config", r.Config), zap.String("error", r.Error))
			}
		}
		return fmt.Errorf("%d of %d configurations failed", n, len(results))
	}
	return nil
}
