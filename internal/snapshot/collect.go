package snapshot

import (
	"fmt"
	"log/slog"

	"github.com/bamsammich/synclink/internal/fsys"
)

// Excluder decides whether a relative path is left out of a snapshot.
type Excluder interface {
	Excluded(relPath string, isDir bool) bool
}

// CollectOptions controls Collect.
type CollectOptions struct {
	Logger  *slog.Logger
	Exclude Excluder
	// OnSkip is called for every object left out because its kind is not
	// a directory, file or symlink.
	OnSkip func(relPath string, kind fsys.Kind)
}

// Collect enumerates everything below root. The root itself is not
// recorded. Directories are walked with an explicit stack so depth is
// bounded by memory, not by goroutine stack size. Devices, sockets, fifos
// and entries of unknown kind are skipped with a warning; any failure to
// read a directory is returned.
func Collect(fs fsys.FS, root string, opts CollectOptions) (*Snapshot, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := New(root)
	stack := []string{""}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fs.ReadDir(s.Abs(dir))
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", s.Root, err)
		}

		for _, e := range entries {
			rel := dir + e.Name
			isDir := e.Kind == fsys.Dir

			if opts.Exclude != nil && opts.Exclude.Excluded(rel, isDir) {
				logger.Debug("excluded", "path", rel)
				continue
			}

			switch e.Kind {
			case fsys.Dir:
				s.Append(rel, fsys.Dir)
				stack = append(stack, rel+Separator)
			case fsys.File, fsys.Symlink:
				s.Append(rel, e.Kind)
			default:
				logger.Warn("skipping unsupported object",
					"path", s.Abs(rel), "kind", e.Kind.String())
				if opts.OnSkip != nil {
					opts.OnSkip(rel, e.Kind)
				}
			}
		}
	}

	return s, nil
}
