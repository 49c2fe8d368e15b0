package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bamsammich/synclink/internal/snapshot"
)

func newInspectCmd(stdout io.Writer) *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:   "inspect <dump>...",
		Short: "Print the records of snapshot dumps written with --debug",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			w := bufio.NewWriter(stdout)
			for _, path := range args {
				s, err := snapshot.ReadFile(path)
				if err != nil {
					return err
				}
				writeDump(w, path, s, absolute)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVarP(&absolute, "absolute", "a", false, "print absolute paths instead of paths relative to the root")
	return cmd
}

func writeDump(w io.Writer, name string, s *snapshot.Snapshot, absolute bool) {
	fmt.Fprintf(w, "# %s: root %s, %d records\n", name, s.Root, s.Len())
	for _, r := range s.Records {
		p := r.Path
		if absolute {
			p = s.Abs(p)
		}
		fmt.Fprintf(w, "%s\t%s\n", r.Kind, p)
	}
}
