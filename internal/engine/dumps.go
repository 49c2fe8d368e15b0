package engine

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/bamsammich/synclink/internal/snapshot"
)

// dumper writes the snapshots of one run under a shared run id so the three
// files can be matched up afterwards. A nil dumper writes nothing.
type dumper struct {
	dir     string
	runID   string
	logger  *slog.Logger
	written []string
}

func newDumper(dir, runID string, logger *slog.Logger) *dumper {
	if dir == "" {
		dir = os.TempDir()
	}
	return &dumper{dir: dir, runID: runID, logger: logger}
}

// DumpName returns the file name used for one snapshot of a run.
func DumpName(runID, label string) string {
	return fmt.Sprintf("synclink-%s-%s.snap.zst", runID, label)
}

func (d *dumper) write(s *snapshot.Snapshot, label string) error {
	if d == nil {
		return nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("dump dir: %w", err)
	}
	path := filepath.Join(d.dir, DumpName(d.runID, label))
	if err := s.WriteFile(path); err != nil {
		return err
	}
	d.written = append(d.written, path)
	d.logger.Info("snapshot dumped", "tree", label, "records", s.Len(), "file", path)
	return nil
}
