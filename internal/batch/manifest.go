package batch

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Manifest records one run.
type Manifest struct {
	RunID    string    `json:"run_id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
}

// NewManifest stamps results with a fresh run id, finishing now.
func NewManifest(started time.Time, results []Result) Manifest {
	return Manifest{
		RunID:    uuid.NewString(),
		Started:  started,
		Finished: time.Now(),
		Results:  results,
	}
}

// Failed counts the configurations that did not render.
func (m Manifest) Failed() int {
	n := 0
	for _, r := range m.Results {
		if !r.Success() {
			n++
		}
	}
	return n
}

// WriteManifest writes m as indented JSON to path, creating its directory.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
