package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector counts what a sync run did. The engine writes from one
// goroutine while presenters read from another, so every counter is atomic.
type Collector struct {
	sourceEntries atomic.Int64
	destEntries   atomic.Int64
	dirsCreated   atomic.Int64
	linked        atomic.Int64
	relinked      atomic.Int64
	unchanged     atomic.Int64
	replaced      atomic.Int64
	skipped       atomic.Int64
	filesDeleted  atomic.Int64
	dirsDeleted   atomic.Int64
	startTime     time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

func (c *Collector) SetSourceEntries(n int64) { c.sourceEntries.Store(n) }
func (c *Collector) SetDestEntries(n int64)   { c.destEntries.Store(n) }
func (c *Collector) AddDirsCreated(n int64)   { c.dirsCreated.Add(n) }
func (c *Collector) AddLinked(n int64)        { c.linked.Add(n) }
func (c *Collector) AddRelinked(n int64)      { c.relinked.Add(n) }
func (c *Collector) AddUnchanged(n int64)     { c.unchanged.Add(n) }
func (c *Collector) AddReplaced(n int64)      { c.replaced.Add(n) }
func (c *Collector) AddSkipped(n int64)       { c.skipped.Add(n) }
func (c *Collector) AddFilesDeleted(n int64)  { c.filesDeleted.Add(n) }
func (c *Collector) AddDirsDeleted(n int64)   { c.dirsDeleted.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	SourceEntries int64
	DestEntries   int64
	DirsCreated   int64
	Linked        int64
	Relinked      int64
	Unchanged     int64
	Replaced      int64
	Skipped       int64
	FilesDeleted  int64
	DirsDeleted   int64
	Elapsed       time.Duration
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		SourceEntries: c.sourceEntries.Load(),
		DestEntries:   c.destEntries.Load(),
		DirsCreated:   c.dirsCreated.Load(),
		Linked:        c.linked.Load(),
		Relinked:      c.relinked.Load(),
		Unchanged:     c.unchanged.Load(),
		Replaced:      c.replaced.Load(),
		Skipped:       c.skipped.Load(),
		FilesDeleted:  c.filesDeleted.Load(),
		DirsDeleted:   c.dirsDeleted.Load(),
		Elapsed:       c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Mutations is the number of actions that changed (or, in a dry run, would
// have changed) the destination. Zero means the trees were already in sync.
func (s Snapshot) Mutations() int64 {
	return s.DirsCreated + s.Linked + s.Relinked + s.Replaced + s.FilesDeleted + s.DirsDeleted
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"src=%d dst=%d mkdir=%d linked=%d relinked=%d unchanged=%d replaced=%d skipped=%d unlinked=%d rmdir=%d",
		s.SourceEntries, s.DestEntries, s.DirsCreated, s.Linked, s.Relinked,
		s.Unchanged, s.Replaced, s.Skipped, s.FilesDeleted, s.DirsDeleted,
	)
}
