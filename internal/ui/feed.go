package ui

import (
	"fmt"
	"io"

	"github.com/bamsammich/synclink/internal/stats"
)

// feedPresenter prints one line per destination change when verbose, and a
// summary line at the end either way. Unchanged entries are never printed.
type feedPresenter struct {
	w       io.Writer
	stats   *stats.Collector
	theme   Theme
	width   int
	dryRun  bool
	verbose bool
}

func (p *feedPresenter) Run(events <-chan Event) error {
	var werr error
	for ev := range events {
		// After a failed write keep draining; the engine blocks on a full
		// channel.
		if !p.verbose || werr != nil {
			continue
		}
		if line, ok := p.line(ev); ok {
			if _, err := fmt.Fprintln(p.w, line); err != nil {
				werr = err
			}
		}
	}
	return werr
}

// line renders a feed line for ev. The verb column is fixed width so paths
// line up.
func (p *feedPresenter) line(ev Event) (string, bool) {
	t := p.theme
	var verb, detail string
	switch ev.Type {
	case DirCreated:
		verb = t.paint(t.create, "mkdir  ")
	case Linked:
		verb = t.paint(t.create, "link   ")
	case Relinked:
		verb = t.paint(t.relink, "relink ")
	case Replaced:
		verb = t.paint(t.replace, "replace")
		detail = "was " + ev.Kind
	case DeleteFile:
		verb = t.paint(t.remove, "unlink ")
	case DeleteDir:
		verb = t.paint(t.remove, "rmdir  ")
	case Skipped:
		verb = t.paint(t.muted, "skip   ")
		detail = ev.Kind
	default:
		return "", false
	}

	path := ev.Path
	if p.width > 0 {
		// verb, two spaces and room for a short detail.
		path = TruncatePath(path, p.width-len("replace")-2-len(detail)-3)
	}
	out := verb + "  " + path
	if detail != "" {
		out += "  " + t.paint(t.muted, "("+detail+")")
	}
	if ev.DryRun {
		out = t.paint(t.muted, "[dry-run] ") + out
	}
	return out, true
}

func (p *feedPresenter) Summary() string {
	return CompletionSummary(p.stats.Snapshot(), p.dryRun, p.theme)
}
