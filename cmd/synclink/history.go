package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/bamsammich/synclink/internal/journal"
	"github.com/bamsammich/synclink/internal/ui"
)

func newHistoryCmd(stdout io.Writer) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent sync runs",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if limit <= 0 {
				return fmt.Errorf("invalid --limit %d: must be positive", limit)
			}
			j, err := journal.Open(journal.DefaultPath())
			if err != nil {
				return err
			}
			defer j.Close()

			runs, err := j.Recent(limit)
			if err != nil {
				return err
			}
			w := bufio.NewWriter(stdout)
			for i := range runs {
				writeRun(w, &runs[i])
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to show")
	return cmd
}

func writeRun(w io.Writer, r *journal.Run) {
	status := "ok"
	switch {
	case r.Err != "":
		status = "failed: " + r.Err
	case r.DryRun:
		status = "dry-run"
	}
	fmt.Fprintf(w, "%s  %s  %s -> %s  %s  %s  %s\n",
		r.ID,
		r.Started.Local().Format(time.DateTime),
		r.Src, r.Dst,
		r.Stats.String(),
		ui.FormatDuration(r.Elapsed),
		status,
	)
}

// recordRun appends a run to the history journal. The journal is a
// convenience, so failures only warn.
//
//nolint:gocritic // hugeParam: called once per process
func recordRun(logger *slog.Logger, r journal.Run) {
	j, err := journal.Open(journal.DefaultPath())
	if err != nil {
		logger.Warn("history journal unavailable", "error", err)
		return
	}
	defer j.Close()
	if err := j.Record(r); err != nil {
		logger.Warn("failed to record run", "error", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
