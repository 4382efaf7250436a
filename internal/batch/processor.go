// Package batch renders many configurations with a worker pool and records the run in a
// manifest.
package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"dactyl-manuform/internal/builder"
	"dactyl-manuform/internal/config"
	"dactyl-manuform/internal/export"
)

// progressInterval is how often a running batch logs its progress.
var progressInterval = 2 * time.Second

// Options are shared by every configuration of a run.
type Options struct {
	// Flags override every loaded configuration.
	Flags config.Flags
	// Jobs is the number of configurations rendered at once; each one meshes with
	// Flags.Workers goroutines.
	Jobs int
	Log  *zap.Logger
}

// Result is the outcome of one configuration.
type Result struct {
	Config    string            `json:"config"`
	Name      string            `json:"name,omitempty"`
	Artifacts []export.Artifact `json:"artifacts,omitempty"`
	Error     string            `json:"error,omitempty"`
	Seconds   float64           `json:"seconds"`
}

// Success reports whether the configuration rendered.
func (r Result) Success() bool { return r.Error == "" }

// Run renders every file with a pool of opts.Jobs workers. Results keep the order of
// files. Canceling ctx fails the configurations not yet finished.
func Run(ctx context.Context, opts Options, files []string) []Result {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	jobs := max(opts.Jobs, 1)
	total := len(files)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	var reporter sync.WaitGroup
	reporter.Add(1)
	go func() {
		defer reporter.Done()
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					log.Info("batch progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("configs_per_min", float64(p)/time.Since(start).Minutes()))
				}
			}
		}
	}()

	// Worker pool
	work := make(chan int, jobs*2)
	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = Process(ctx, files[idx], opts.Flags, log)
				processed.Add(1)
			}
		}()
	}
	for i := range files {
		work <- i
	}
	close(work)

	wg.Wait()
	close(done)
	reporter.Wait()

	failed := 0
	for _, r := range results {
		if !r.Success() {
			failed++
		}
	}
	log.Info("batch finished",
		zap.Int("configs", total),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(start)))
	return results
}

// Process loads, builds and exports one configuration file.
func Process(ctx context.Context, path string, flags config.Flags, log *zap.Logger) Result {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()
	res := Result{Config: path}
	fail := func(err error) Result {
		res.Error = err.Error()
		res.Seconds = time.Since(start).Seconds()
		log.Error("config failed", zap.String("config", path), zap.Error(err))
		return res
	}
	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return fail(err)
	}
	cfg.Resolve(flags)
	res.Name = cfg.ConfigName
	log = log.With(zap.String("config", cfg.ConfigName))

	b, err := builder.New(&cfg, log)
	if err != nil {
		return fail(err)
	}
	exp, err := export.New(&cfg, log)
	if err != nil {
		return fail(err)
	}
	built, err := b.Build(ctx)
	if err != nil {
		return fail(err)
	}
	res.Artifacts, err = exp.ExportResult(ctx, cfg.ConfigName, built)
	if err != nil {
		return fail(err)
	}
	res.Seconds = time.Since(start).Seconds()
	log.Info("config rendered",
		zap.Int("artifacts", len(res.Artifacts)),
		zap.Float64("seconds", res.Seconds))
	return res
}
