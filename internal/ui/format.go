package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/bamsammich/synclink/internal/stats"
)

// FormatCount formats an integer with comma separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		b.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatDuration formats elapsed time concisely. Runs under a second show
// milliseconds.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	if h > 0 {
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatOpsRate formats n operations over d as a per-second rate.
func FormatOpsRate(n int64, d time.Duration) string {
	if n <= 0 || d <= 0 {
		return "0 ops/s"
	}
	rate := float64(n) / d.Seconds()
	if rate < 10 {
		return fmt.Sprintf("%.1f ops/s", rate)
	}
	return FormatCount(int64(rate+0.5)) + " ops/s"
}

// TruncatePath shortens p to at most width runes by dropping leading
// components, marking the cut with "…/".
func TruncatePath(p string, width int) string {
	runes := []rune(p)
	if width <= 0 || len(runes) <= width {
		return p
	}
	if width <= 2 {
		return string(runes[len(runes)-width:])
	}
	tail := string(runes[len(runes)-(width-2):])
	if i := strings.Index(tail, "/"); i >= 0 && i < len(tail)-1 {
		tail = tail[i+1:]
	}
	return "…/" + tail
}

// CompletionSummary builds the final summary line from a snapshot.
// Format: done ✓  linked 1,204  relinked 3  mkdir 88  unlinked 2  rmdir 1  unchanged 48,917  time 3s
func CompletionSummary(snap stats.Snapshot, dryRun bool, t Theme) string {
	head := t.paint(t.ok, "done ✓")
	if dryRun {
		head = t.paint(t.muted, "dry run, nothing changed:")
	}

	parts := []string{head}
	add := func(label string, n int64, always bool) {
		if n == 0 && !always {
			return
		}
		parts = append(parts, label+" "+FormatCount(n))
	}
	add("linked", snap.Linked, true)
	add("relinked", snap.Relinked, true)
	add("mkdir", snap.DirsCreated, true)
	add("replaced", snap.Replaced, false)
	add("unlinked", snap.FilesDeleted, true)
	add("rmdir", snap.DirsDeleted, true)
	add("unchanged", snap.Unchanged, true)
	add("skipped", snap.Skipped, false)
	parts = append(parts, "time "+FormatDuration(snap.Elapsed))

	return strings.Join(parts, "  ")
}
