package engine

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/bamsammich/synclink/internal/event"
	"github.com/bamsammich/synclink/internal/snapshot"
)

// ErrNotEmpty is returned when a directory queued for deletion still has
// entries, i.e. something the destination snapshot never saw (an unsupported
// object, an excluded entry, or an entry created during the run).
var ErrNotEmpty = errors.New("directory not empty")

// deleteQueued removes every record in queue from the destination. The queue
// must be sorted descending so that a directory's contents come before the
// directory itself.
func (x *executor) deleteQueued(queue *snapshot.Snapshot) error {
	return x.removeRecords(queue.Root, queue.Records)
}

// removeRecords deletes records (relative to root, sorted descending) in two
// passes: non-directories first, then directories. Directories are only ever
// removed with rmdir, so anything left inside one that the records do not
// cover stops the run with ErrNotEmpty.
//
//nolint:revive // cognitive-complexity: two passes over the same records read best side by side
func (x *executor) removeRecords(root string, records []snapshot.Record) error {
	for _, r := range records {
		if r.IsDir() || x.isEvicted(r.Path) {
			continue
		}
		if err := x.ctx.Err(); err != nil {
			return err
		}
		path := root + r.Path
		x.logger.Debug("unlinking", "path", path, "kind", r.Kind.String())
		if err := x.mutate(func() error { return x.fs.Unlink(path) }); err != nil {
			return fmt.Errorf("delete %s: %w", r.Path, err)
		}
		x.stats.AddFilesDeleted(1)
		x.emit(event.Event{Type: event.DeleteFile, Path: r.Path, Kind: r.Kind.String()})
	}

	for _, r := range records {
		if !r.IsDir() || x.isEvicted(r.Path) {
			continue
		}
		if err := x.ctx.Err(); err != nil {
			return err
		}
		path := strings.TrimSuffix(root+r.Path, snapshot.Separator)
		x.logger.Debug("removing directory", "path", path)
		if err := x.mutate(func() error { return x.fs.Rmdir(path) }); err != nil {
			if errors.Is(err, unix.ENOTEMPTY) || errors.Is(err, unix.EEXIST) {
				return fmt.Errorf("delete %s: %w: %w", r.Path, ErrNotEmpty, err)
			}
			return fmt.Errorf("delete %s: %w", r.Path, err)
		}
		x.stats.AddDirsDeleted(1)
		x.emit(event.Event{Type: event.DeleteDir, Path: r.Path, Kind: r.Kind.String()})
	}

	return nil
}
