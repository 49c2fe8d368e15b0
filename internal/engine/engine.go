package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bamsammich/synclink/internal/event"
	"github.com/bamsammich/synclink/internal/fsys"
	"github.com/bamsammich/synclink/internal/snapshot"
	"github.com/bamsammich/synclink/internal/stats"
)

// Config describes a sync operation.
type Config struct {
	Src string // source root, canonical absolute path
	Dst string // destination root, canonical absolute path

	FS      fsys.FS      // defaults to fsys.OS
	Logger  *slog.Logger // defaults to slog.Default()
	Exclude snapshot.Excluder
	Sort    snapshot.Algorithm

	DryRun bool
	MaxOps int // mutating calls per second; 0 means unlimited

	// Debug retains the sorted snapshots and the deletion queue as dump
	// files in DumpDir (os.TempDir when empty).
	Debug   bool
	DumpDir string

	// Events receives one event per action. Sends block until the event is
	// received or ctx is done, so the channel must be drained.
	Events chan<- event.Event
	Stats  *stats.Collector // created when nil
}

// Result is the outcome of a sync operation.
type Result struct {
	RunID string // short random id; also names the dump files
	Stats stats.Snapshot
	Dumps []string // dump files written, in creation order
	Err   error
}

// Run makes cfg.Dst a hard-link mirror of cfg.Src, blocking until complete.
// The first error aborts the run; objects already created or removed stay
// that way, and running again picks up where this run stopped.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.FS == nil {
		cfg.FS = fsys.OS{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}

	runID := uuid.New().String()[:8]
	r := &runner{cfg: cfg, ctx: ctx}
	if cfg.Debug {
		r.dumps = newDumper(cfg.DumpDir, runID, cfg.Logger)
	}
	err := r.run()

	res := Result{RunID: runID, Stats: cfg.Stats.Snapshot(), Err: err}
	if r.dumps != nil {
		res.Dumps = r.dumps.written
	}
	return res
}

type runner struct {
	cfg   Config
	ctx   context.Context
	dumps *dumper
}

func (r *runner) run() error {
	ctx, cfg := r.ctx, r.cfg

	src, err := r.collect(cfg.Src, "source")
	if err != nil {
		return err
	}
	cfg.Stats.SetSourceEntries(int64(src.Len()))

	dst, err := r.collect(cfg.Dst, "destination")
	if err != nil {
		return err
	}
	cfg.Stats.SetDestEntries(int64(dst.Len()))

	x := &executor{
		ctx:     ctx,
		fs:      cfg.FS,
		logger:  cfg.Logger,
		stats:   cfg.Stats,
		events:  cfg.Events,
		limiter: newOpLimiter(cfg.MaxOps),
		dryRun:  cfg.DryRun,
		dst:     dst,
	}

	deletions, err := Diff(src, dst, x.apply)
	if err != nil {
		return err
	}
	// Only the deletion queue is needed from here on.
	x.dst = nil
	src, dst = nil, nil //nolint:ineffassign,wastedassign // release both snapshots before deleting

	deletions.SortWith(snapshot.Descending, cfg.Sort)
	if err := r.dumps.write(deletions, "deletions"); err != nil {
		return err
	}
	return x.deleteQueued(deletions)
}

// collect builds, sorts and (in debug mode) dumps one tree's snapshot.
func (r *runner) collect(root, label string) (*snapshot.Snapshot, error) {
	cfg := r.cfg
	r.emit(event.Event{Type: event.ScanStarted, Root: root})
	start := time.Now()

	snap, err := snapshot.Collect(cfg.FS, root, snapshot.CollectOptions{
		Logger:  cfg.Logger,
		Exclude: cfg.Exclude,
		OnSkip: func(rel string, kind fsys.Kind) {
			cfg.Stats.AddSkipped(1)
			r.emit(event.Event{Type: event.Skipped, Root: root, Path: rel, Kind: kind.String()})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	snap.SortWith(snapshot.Ascending, cfg.Sort)

	cfg.Logger.Debug("collected", "tree", label, "root", root,
		"records", snap.Len(), "elapsed", time.Since(start))
	r.emit(event.Event{Type: event.ScanComplete, Root: root, Total: int64(snap.Len())})

	if err := r.dumps.write(snap, label); err != nil {
		return nil, err
	}
	return snap, nil
}

func (r *runner) emit(e event.Event) {
	if r.cfg.Events == nil {
		return
	}
	e.Timestamp = time.Now()
	e.DryRun = r.cfg.DryRun
	select {
	case r.cfg.Events <- e:
	case <-r.ctx.Done():
	}
}

// CheckRoots validates a source/destination pair before anything is
// collected. Both must be existing directories on the same device, and
// neither may contain the other. Paths are expected in canonical form.
func CheckRoots(fs fsys.FS, src, dst string) error {
	srcInfo, err := checkDir(fs, "source", src)
	if err != nil {
		return err
	}
	dstInfo, err := checkDir(fs, "destination", dst)
	if err != nil {
		return err
	}
	if srcInfo.Dev != dstInfo.Dev {
		return fmt.Errorf("source %s and destination %s are on different devices", src, dst)
	}

	s, d := snapshot.NormalizeRoot(src), snapshot.NormalizeRoot(dst)
	switch {
	case s == d:
		return fmt.Errorf("source and destination are the same directory: %s", src)
	case strings.HasPrefix(d, s):
		return fmt.Errorf("destination %s is inside source %s", dst, src)
	case strings.HasPrefix(s, d):
		return fmt.Errorf("source %s is inside destination %s", src, dst)
	}
	return nil
}

func checkDir(fs fsys.FS, label, path string) (fsys.Info, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return info, fmt.Errorf("%s: %w", label, err)
	}
	if !info.Exists {
		return info, fmt.Errorf("%s %s does not exist", label, path)
	}
	if info.Kind != fsys.Dir {
		return info, fmt.Errorf("%s %s is not a directory", label, path)
	}
	return info, nil
}
