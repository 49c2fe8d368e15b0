package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollectorConcurrent(t *testing.T) {
	c := NewCollector()
	const goroutines = 50
	const opsPerGoroutine = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range opsPerGoroutine {
				c.AddDirsCreated(1)
				c.AddLinked(1)
				c.AddRelinked(1)
				c.AddUnchanged(1)
				c.AddReplaced(1)
				c.AddSkipped(1)
				c.AddFilesDeleted(1)
				c.AddDirsDeleted(1)
			}
		}()
	}
	wg.Wait()

	s := c.Snapshot()
	expected := int64(goroutines * opsPerGoroutine)
	assert.Equal(t, expected, s.DirsCreated)
	assert.Equal(t, expected, s.Linked)
	assert.Equal(t, expected, s.Relinked)
	assert.Equal(t, expected, s.Unchanged)
	assert.Equal(t, expected, s.Replaced)
	assert.Equal(t, expected, s.Skipped)
	assert.Equal(t, expected, s.FilesDeleted)
	assert.Equal(t, expected, s.DirsDeleted)
}

func TestSnapshotMutations(t *testing.T) {
	s := Snapshot{
		DirsCreated:  1,
		Linked:       2,
		Relinked:     3,
		Unchanged:    100,
		Replaced:     4,
		Skipped:      7,
		FilesDeleted: 5,
		DirsDeleted:  6,
	}
	assert.Equal(t, int64(21), s.Mutations())
	assert.Zero(t, Snapshot{Unchanged: 9, Skipped: 2}.Mutations())
}

func TestSnapshotString(t *testing.T) {
	c := NewCollector()
	c.SetSourceEntries(10)
	c.SetDestEntries(8)
	c.AddDirsCreated(1)
	c.AddLinked(2)
	c.AddUnchanged(5)
	c.AddFilesDeleted(1)

	expected := "src=10 dst=8 mkdir=1 linked=2 relinked=0 unchanged=5 replaced=0 skipped=0 unlinked=1 rmdir=0"
	assert.Equal(t, expected, c.Snapshot().String())
}

func TestElapsed(t *testing.T) {
	c := NewCollector()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, c.Elapsed(), 5*time.Millisecond)
}
