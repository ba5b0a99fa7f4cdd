package artifact

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/specmint/specmint/types"
)

const manifestFile = "run.yaml"

// Writer persists the merged document and a small run manifest next to it.
// The filesystem is injected so tests run against an in-memory backend.
type Writer struct {
	fs  afero.Fs
	dir string
}

// NewWriter creates a Writer rooted at dir on the given filesystem.
func NewWriter(fs afero.Fs, dir string) *Writer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Writer{fs: fs, dir: dir}
}

// manifest is the YAML record written alongside the document so a rerun can
// be compared against the previous batch.
type manifest struct {
	RunID          string    `yaml:"runId"`
	GeneratedAt    time.Time `yaml:"generatedAt"`
	TotalTasks     int       `yaml:"totalTasks"`
	Succeeded      int       `yaml:"succeeded"`
	Failed         int       `yaml:"failed"`
	TokensConsumed int       `yaml:"tokensConsumed"`
	TotalElapsed   string    `yaml:"totalElapsed"`
}

// Save writes the document under the configured directory and records the
// batch manifest. It returns the path the document was written to.
func (w *Writer) Save(name, document string, stats types.BatchStats) (string, error) {
	if err := w.fs.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", w.dir, err)
	}

	docPath := filepath.Join(w.dir, name)
	if err := w.writeAtomic(docPath, []byte(document)); err != nil {
		return "", err
	}

	m := manifest{
		RunID:          stats.RunID,
		GeneratedAt:    time.Now().UTC(),
		TotalTasks:     stats.TotalTasks,
		Succeeded:      stats.Succeeded,
		Failed:         stats.Failed,
		TokensConsumed: stats.TokensConsumed,
		TotalElapsed:   stats.TotalElapsed.String(),
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to marshal run manifest: %w", err)
	}
	if err := w.writeAtomic(filepath.Join(w.dir, manifestFile), data); err != nil {
		return "", err
	}
	return docPath, nil
}

// writeAtomic writes via a temp file and rename so a crash mid-write never
// leaves a truncated document behind.
func (w *Writer) writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := afero.WriteFile(w.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := w.fs.Rename(tmp, path); err != nil {
		_ = w.fs.Remove(tmp)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}
