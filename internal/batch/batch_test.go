package batch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"dactyl-manuform/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRunReportsEveryConfig(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeConfig(t, dir, "broken.json5", "{ nrows: "),
		filepath.Join(dir, "missing.json5"),
		writeConfig(t, dir, "orbyl.json5", "{ thumb_style: 'TRACKBALL_ORBYL', ball_side: 'both', // no geometry\n}"),
	}
	core, logs := observer.New(zap.InfoLevel)
	opts := Options{Flags: config.Flags{OutputDir: filepath.Join(dir, "out")}, Jobs: 2, Log: zap.New(core)}

	results := Run(context.Background(), opts, files)
	require.Len(t, results, len(files))
	for i, r := range results {
		assert.Equal(t, files[i], r.Config)
		assert.False(t, r.Success(), r.Config)
		assert.NotEmpty(t, r.Error)
	}
	assert.Equal(t, "orbyl", results[2].Name)
	assert.Contains(t, results[2].Error, "TRACKBALL_ORBYL")

	assert.Equal(t, 3, logs.FilterMessage("config failed").Len())
	finished := logs.FilterMessage("batch finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(3), finished[0].ContextMap()["failed"])
}

func TestRunCanceled(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "kb.json5", "{}")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := Run(ctx, Options{Jobs: 4}, []string{path, path})
	for _, r := range results {
		assert.Equal(t, context.Canceled.Error(), r.Error)
	}
}

func TestRunEmpty(t *testing.T) {
	assert.Empty(t, Run(context.Background(), Options{}, nil))
}

func TestProgressTicker(t *testing.T) {
	old := progressInterval
	progressInterval = time.Millisecond
	t.Cleanup(func() { progressInterval = old })

	dir := t.TempDir()
	files := make([]string, 20)
	for i := range files {
		files[i] = filepath.Join(dir, "missing.json5")
	}
	core, logs := observer.New(zap.InfoLevel)
	Run(context.Background(), Options{Jobs: 1, Log: zap.New(core)}, files)
	// the reporter may or may not fire before the pool drains; it must not outlive Run
	for _, e := range logs.FilterMessage("batch progress").All() {
		assert.Equal(t, int64(20), e.ContextMap()["total"])
	}
}

func TestManifest(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	m := NewManifest(started, []Result{
		{Config: "a.json5", Name: "a"},
		{Config: "b.json5", Error: "boom"},
	})
	_, err := uuid.Parse(m.RunID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Failed())
	assert.True(t, m.Finished.After(started))

	path := filepath.Join(t.TempDir(), "out", "manifest.json")
	require.NoError(t, WriteManifest(path, m))
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Manifest
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, "boom", got.Results[1].Error)
	assert.NotContains(t, string(data), `"artifacts"`)
}
