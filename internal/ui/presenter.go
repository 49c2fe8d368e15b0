package ui

import (
	"io"

	"github.com/bamsammich/synclink/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan Event) error
	// Summary returns the final summary line.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer  io.Writer
	Stats   *stats.Collector
	Theme   Theme
	Width   int // terminal width for truncating feed paths; 0 disables
	DryRun  bool
	Quiet   bool
	Verbose bool
}

// NewPresenter creates the appropriate presenter based on configuration.
//
//nolint:ireturn // factory selects the presenter implementation
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	return &feedPresenter{
		w:       cfg.Writer,
		stats:   cfg.Stats,
		theme:   cfg.Theme,
		width:   cfg.Width,
		dryRun:  cfg.DryRun,
		verbose: cfg.Verbose,
	}
}
