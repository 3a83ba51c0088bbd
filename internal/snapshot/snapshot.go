// Package snapshot writes the dashboard's current view to plain-text
// files for offline inspection. The target directory is owned
// exclusively by the dashboard; each tick overwrites the previous
// snapshot in place.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Writer persists one snapshot per tick into a fixed directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer for dir, or nil when dir is empty so
// callers can treat the snapshot sink as optional.
func NewWriter(dir string) *Writer {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	return &Writer{dir: dir}
}

// Dir returns the snapshot directory.
func (w *Writer) Dir() string { return w.dir }

// Write overwrites the four snapshot files: a one-line header, the
// stats block, the rendered timeline, and the most recent log lines.
func (w *Writer) Write(header, stats, timeline string, logs []string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	files := map[string]string{
		"header.txt":   header + "\n",
		"stats.txt":    stats + "\n",
		"timeline.txt": timeline + "\n",
		"logs.txt":     strings.Join(logs, "\n") + "\n",
	}
	for name, content := range files {
		path := filepath.Join(w.dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
