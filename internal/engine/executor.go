package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bamsammich/synclink/internal/event"
	"github.com/bamsammich/synclink/internal/fsys"
	"github.com/bamsammich/synclink/internal/snapshot"
	"github.com/bamsammich/synclink/internal/stats"
)

// ErrKindConflict is returned when a destination object cannot be brought
// to the kind the source has.
var ErrKindConflict = errors.New("kind conflict")

// executor applies actions as Diff produces them. Every failure is fatal.
type executor struct {
	ctx     context.Context
	fs      fsys.FS
	logger  *slog.Logger
	stats   *stats.Collector
	events  chan<- event.Event
	limiter *rate.Limiter
	dryRun  bool

	// dst is the ascending destination snapshot, available while Diff runs.
	// A directory evicted by a kind conflict is emptied using only the
	// records found here.
	dst *snapshot.Snapshot

	// Names (without a trailing separator) of destination objects removed
	// because the source has a different kind there. Each entry covers
	// everything below it too.
	evicted map[string]struct{}
}

func (x *executor) emit(e event.Event) {
	if x.events == nil {
		return
	}
	e.Timestamp = time.Now()
	e.DryRun = x.dryRun
	select {
	case x.events <- e:
	case <-x.ctx.Done():
	}
}

// mutate runs op unless this is a dry run, after waiting for the op limiter.
func (x *executor) mutate(op func() error) error {
	if x.dryRun {
		return nil
	}
	if err := waitOp(x.ctx, x.limiter); err != nil {
		return err
	}
	return op()
}

// isEvicted reports whether rel was removed (or lies below something that
// was removed) while resolving a kind conflict.
func (x *executor) isEvicted(rel string) bool {
	if len(x.evicted) == 0 {
		return false
	}
	name := strings.TrimSuffix(rel, snapshot.Separator)
	for i := range len(name) {
		if name[i] == '/' {
			if _, ok := x.evicted[name[:i]]; ok {
				return true
			}
		}
	}
	_, ok := x.evicted[name]
	return ok
}

func (x *executor) evict(name string) {
	if x.evicted == nil {
		x.evicted = make(map[string]struct{})
	}
	x.evicted[strings.TrimSuffix(name, snapshot.Separator)] = struct{}{}
}

// trackedBelow returns the destination records at or below the directory
// name, sorted descending. The directory itself is always last, even when
// the snapshot never recorded it.
func (x *executor) trackedBelow(name string) []snapshot.Record {
	dir := strings.TrimSuffix(name, snapshot.Separator) + snapshot.Separator
	var recs []snapshot.Record
	if x.dst != nil {
		all := x.dst.Records
		lo := sort.Search(len(all), func(i int) bool { return all[i].Path >= dir })
		hi := lo
		for hi < len(all) && strings.HasPrefix(all[hi].Path, dir) {
			hi++
		}
		for i := hi - 1; i >= lo; i-- {
			if all[i].Path != dir {
				recs = append(recs, all[i])
			}
		}
	}
	return append(recs, snapshot.Record{Path: dir, Kind: fsys.Dir})
}

func (x *executor) apply(a Action) error {
	if err := x.ctx.Err(); err != nil {
		return err
	}
	switch a.Kind {
	case Create:
		x.logger.Debug("adding", "path", a.Src, "kind", a.Record.Kind.String())
		if a.Record.IsDir() {
			return x.createDir(a)
		}
		return x.createLink(a)
	case VerifyLink:
		x.logger.Debug("checking", "src", a.Src, "dst", a.Dst, "kind", a.Record.Kind.String())
		return x.verifyLink(a)
	default:
		return fmt.Errorf("unknown action %d for %s", a.Kind, a.Record.Path)
	}
}

// occupant returns what currently sits at a Create target. Targets inside an
// evicted subtree are known to be free.
func (x *executor) occupant(a Action) (fsys.Info, error) {
	if x.isEvicted(a.Record.Path) {
		return fsys.Info{}, nil
	}
	return x.fs.Lstat(strings.TrimSuffix(a.Dst, snapshot.Separator))
}

func (x *executor) createDir(a Action) error {
	srcInfo, err := x.fs.Lstat(strings.TrimSuffix(a.Src, snapshot.Separator))
	if err != nil {
		return err
	}
	if !srcInfo.Exists || srcInfo.Kind != fsys.Dir {
		return fmt.Errorf("source directory %s vanished", a.Src)
	}

	occ, err := x.occupant(a)
	if err != nil {
		return err
	}
	if occ.Exists {
		if occ.Kind == fsys.Dir {
			// Appeared since the destination was collected; nothing to do.
			x.logger.Debug("directory already present", "path", a.Dst)
			return nil
		}
		name := strings.TrimSuffix(a.Record.Path, snapshot.Separator)
		x.logger.Info("replacing with directory", "path", a.Dst, "was", occ.Kind.String())
		if err := x.mutate(func() error { return x.fs.Unlink(strings.TrimSuffix(a.Dst, snapshot.Separator)) }); err != nil {
			return err
		}
		x.evict(name)
		x.stats.AddReplaced(1)
		x.emit(event.Event{Type: event.Replaced, Path: a.Record.Path, Kind: occ.Kind.String()})
	}

	if err := x.mutate(func() error { return x.fs.Mkdir(a.Dst, srcInfo.Mode) }); err != nil {
		return err
	}
	x.stats.AddDirsCreated(1)
	x.emit(event.Event{Type: event.DirCreated, Path: a.Record.Path, Kind: a.Record.Kind.String()})
	return nil
}

func (x *executor) createLink(a Action) error {
	if !a.Record.Kind.Linkable() {
		return fmt.Errorf("cannot link %s of kind %s", a.Src, a.Record.Kind)
	}
	occ, err := x.occupant(a)
	if err != nil {
		return err
	}
	if occ.Exists {
		if occ.Kind != fsys.Dir {
			// Not in the destination snapshot but present now; make sure it
			// shares the source inode like any other match.
			return x.verifyLink(a)
		}
		x.logger.Info("replacing directory", "path", a.Dst, "with", a.Record.Kind.String())
		root := strings.TrimSuffix(a.Dst, a.Record.Path)
		if err := x.removeRecords(root, x.trackedBelow(a.Record.Path)); err != nil {
			return fmt.Errorf("%w: %w", ErrKindConflict, err)
		}
		x.evict(a.Record.Path)
		x.stats.AddReplaced(1)
		x.emit(event.Event{Type: event.Replaced, Path: a.Record.Path, Kind: occ.Kind.String()})
	}

	if err := x.mutate(func() error { return x.fs.Link(a.Src, a.Dst) }); err != nil {
		return err
	}
	x.stats.AddLinked(1)
	x.emit(event.Event{Type: event.Linked, Path: a.Record.Path, Kind: a.Record.Kind.String()})
	return nil
}

// verifyLink compares inode numbers with lstat on both sides. link(2) does
// not follow symlinks, so a linked symlink shares the symlink's own inode,
// and a file on one side with a symlink on the other is simply a mismatch.
func (x *executor) verifyLink(a Action) error {
	srcInfo, err := x.fs.Lstat(a.Src)
	if err != nil {
		return err
	}
	if !srcInfo.Exists {
		return fmt.Errorf("source %s vanished", a.Src)
	}
	dstInfo, err := x.fs.Lstat(a.Dst)
	if err != nil {
		return err
	}
	if !dstInfo.Exists {
		return fmt.Errorf("destination %s vanished", a.Dst)
	}
	if dstInfo.Kind == fsys.Dir {
		return fmt.Errorf("%w: %s is a directory", ErrKindConflict, a.Dst)
	}

	if srcInfo.Ino == dstInfo.Ino && srcInfo.Dev == dstInfo.Dev {
		x.stats.AddUnchanged(1)
		x.emit(event.Event{Type: event.Unchanged, Path: a.Record.Path, Kind: a.Record.Kind.String()})
		return nil
	}

	x.logger.Debug("relinking", "path", a.Dst, "src_ino", srcInfo.Ino, "dst_ino", dstInfo.Ino)
	// The destination path is briefly absent between these two calls.
	if err := x.mutate(func() error { return x.fs.Unlink(a.Dst) }); err != nil {
		return err
	}
	if err := x.mutate(func() error { return x.fs.Link(a.Src, a.Dst) }); err != nil {
		return err
	}
	x.stats.AddRelinked(1)
	x.emit(event.Event{Type: event.Relinked, Path: a.Record.Path, Kind: a.Record.Kind.String()})
	return nil
}
