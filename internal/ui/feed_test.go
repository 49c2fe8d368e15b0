package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/synclink/internal/config"
	"github.com/bamsammich/synclink/internal/stats"
)

func runFeed(t *testing.T, cfg Config, evs ...Event) string {
	t.Helper()

	var out bytes.Buffer
	cfg.Writer = &out
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	p := NewPresenter(cfg)

	events := make(chan Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)
	require.NoError(t, p.Run(events))
	return out.String()
}

func TestFeedPresenter_Verbose(t *testing.T) {
	out := runFeed(t, Config{Verbose: true},
		Event{Type: ScanStarted, Root: "/src"},
		Event{Type: DirCreated, Path: "dir/", Kind: "dir"},
		Event{Type: Linked, Path: "dir/file.txt", Kind: "file"},
		Event{Type: Unchanged, Path: "same.txt", Kind: "file"},
		Event{Type: Relinked, Path: "moved.txt", Kind: "file"},
		Event{Type: Replaced, Path: "x", Kind: "dir"},
		Event{Type: DeleteFile, Path: "old.txt", Kind: "file"},
		Event{Type: DeleteDir, Path: "olddir/", Kind: "dir"},
		Event{Type: Skipped, Path: "pipe", Kind: "other"},
	)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"mkdir    dir/",
		"link     dir/file.txt",
		"relink   moved.txt",
		"replace  x  (was dir)",
		"unlink   old.txt",
		"rmdir    olddir/",
		"skip     pipe  (other)",
	}, lines)
}

type failWriter struct{ writes int }

func (w *failWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, errors.New("broken pipe")
}

func TestFeedPresenter_DrainsAfterWriteError(t *testing.T) {
	w := &failWriter{}
	p := NewPresenter(Config{Writer: w, Stats: stats.NewCollector(), Verbose: true})

	events := make(chan Event) // unbuffered: every send needs a receiver
	done := make(chan error)
	go func() { done <- p.Run(events) }()
	for range 100 {
		events <- Event{Type: Linked, Path: "f", Kind: "file"}
	}
	close(events)

	require.Error(t, <-done)
	assert.Equal(t, 1, w.writes)
}

func TestFeedPresenter_NotVerbose(t *testing.T) {
	out := runFeed(t, Config{},
		Event{Type: Linked, Path: "a"},
		Event{Type: DeleteFile, Path: "b"},
	)
	assert.Empty(t, out)
}

func TestFeedPresenter_DryRunPrefix(t *testing.T) {
	out := runFeed(t, Config{Verbose: true, DryRun: true},
		Event{Type: Linked, Path: "a", DryRun: true},
	)
	assert.Equal(t, "[dry-run] link     a\n", out)
}

func TestFeedPresenter_Truncates(t *testing.T) {
	out := runFeed(t, Config{Verbose: true, Width: 30},
		Event{Type: Linked, Path: "some/deeply/nested/directory/tree/file.txt"},
	)
	assert.Contains(t, out, "…/")
	assert.Contains(t, out, "file.txt")
}

func TestFeedPresenter_Colored(t *testing.T) {
	green := "#00ff00"
	p := &feedPresenter{theme: NewTheme(config.ThemeConfig{Green: &green}, true)}

	line, ok := p.line(Event{Type: Linked, Path: "a"})
	require.True(t, ok)
	assert.Contains(t, line, "link")
	assert.Contains(t, line, "a")
}

func TestFeedPresenter_Summary(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddLinked(3)
	p := NewPresenter(Config{Stats: collector})

	assert.Contains(t, p.Summary(), "linked 3")
}

func TestQuietPresenter(t *testing.T) {
	p := NewPresenter(Config{Quiet: true})

	events := make(chan Event, 2)
	events <- Event{Type: Linked, Path: "a"}
	events <- Event{Type: DeleteFile, Path: "b"}
	close(events)

	require.NoError(t, p.Run(events))
	assert.Empty(t, p.Summary())
}
