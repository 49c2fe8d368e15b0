package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bamsammich/synclink/internal/stats"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input int64
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1000000, "1,000,000"},
		{14302, "14,302"},
		{-1000, "-1,000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCount(tt.input))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0ms", FormatDuration(0))
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "30s", FormatDuration(30*time.Second))
	assert.Equal(t, "3m 17s", FormatDuration(3*time.Minute+17*time.Second))
	assert.Equal(t, "1h 02m 03s", FormatDuration(1*time.Hour+2*time.Minute+3*time.Second))
}

func TestFormatOpsRate(t *testing.T) {
	assert.Equal(t, "0 ops/s", FormatOpsRate(0, time.Second))
	assert.Equal(t, "0 ops/s", FormatOpsRate(5, 0))
	assert.Equal(t, "2.5 ops/s", FormatOpsRate(5, 2*time.Second))
	assert.Equal(t, "1,500 ops/s", FormatOpsRate(3000, 2*time.Second))
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		width int
		want  string
	}{
		{"fits", "a/b/c.txt", 20, "a/b/c.txt"},
		{"disabled", "a/b/c.txt", 0, "a/b/c.txt"},
		{"drops leading components", "alpha/beta/gamma.txt", 14, "…/gamma.txt"},
		{"single long name", "averyveryverylongname", 8, "…/ngname"},
		{"tiny width", "abcdef", 2, "ef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncatePath(tt.path, tt.width))
		})
	}
}

func TestCompletionSummary(t *testing.T) {
	snap := stats.Snapshot{
		Linked:       1204,
		DirsCreated:  88,
		FilesDeleted: 2,
		Unchanged:    48917,
		Elapsed:      3 * time.Second,
	}

	assert.Equal(t,
		"done ✓  linked 1,204  relinked 0  mkdir 88  unlinked 2  rmdir 0  unchanged 48,917  time 3s",
		CompletionSummary(snap, false, Theme{}))

	snap.Replaced = 1
	snap.Skipped = 4
	got := CompletionSummary(snap, true, Theme{})
	assert.Contains(t, got, "dry run, nothing changed:")
	assert.Contains(t, got, "replaced 1")
	assert.Contains(t, got, "skipped 4")
}
