package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dactyl-manuform/internal/config"
)

// --- Global Command Variables ---
var (
	verbose     bool
	outputDir   string
	workers     int
	resolution  float64
	preview     string
	noPreview   bool
	previewView string

	logger *zap.Logger

	rootCmd = &cobra.Command{
		Use:   "dactyl",
		Short: "Generate Dactyl Manuform keyboard cases",
		Long: `dactyl renders the case halves, thumb sections and base plates of a
Dactyl Manuform split keyboard from a JSON5 configuration into STL, DXF and
preview images.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogger,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "log every geometry step")
	pf.StringVarP(&outputDir, "output", "o", "", "output directory (default: save_dir or things)")
	pf.IntVarP(&workers, "workers", "w", 0, "meshing goroutines (default: NumCPU)")
	pf.Float64Var(&resolution, "resolution", 0, "mesh cell size in mm (default: mesh_resolution)")
	pf.StringVar(&preview, "preview", "", "preview format: webp, png, bmp or tga")
	pf.BoolVar(&noPreview, "no-preview", false, "skip preview images")
	pf.StringVar(&previewView, "view", "", "preview camera: iso, persp, top, front or side")

	rootCmd.AddCommand(buildCmd, batchCmd, watchCmd, defaultsCmd)
}

func setupLogger(cmd *cobra.Command, args []string) error {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	logger = l
	return nil
}

// flags collects the overrides given on the command line.
func flags() config.Flags {
	return config.Flags{
		OutputDir:      outputDir,
		Workers:        workers,
		MeshResolution: resolution,
		Preview:        config.PreviewFormat(preview),
		NoPreview:      noPreview,
		PreviewView:    previewView,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
