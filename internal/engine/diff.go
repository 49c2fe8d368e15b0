package engine

import (
	"fmt"

	"github.com/bamsammich/synclink/internal/snapshot"
)

// ActionKind identifies what the executor must do for a record.
type ActionKind int

const (
	// Create makes the record exist in the destination: mkdir for
	// directories, a hard link to the source for files and symlinks.
	Create ActionKind = iota + 1
	// VerifyLink makes sure the destination shares the source's inode.
	VerifyLink
)

func (k ActionKind) String() string {
	switch k {
	case Create:
		return "create"
	case VerifyLink:
		return "verify-link"
	default:
		return "unknown"
	}
}

// Action is one step produced by Diff.
type Action struct {
	Kind   ActionKind
	Record snapshot.Record // relative path and kind as seen in the source
	Src    string          // absolute source path
	Dst    string          // absolute destination path
}

// ActionFunc receives actions in merge order. Returning an error stops the
// diff immediately.
type ActionFunc func(Action) error

// Diff merges two ascending snapshots in a single pass. Paths only in src
// become Create actions and paths in both become VerifyLink actions (except
// directories, whose presence is all that matters); both are handed to fn
// as they are found. Paths only in dst are returned, in ascending order, as
// the deletion queue rooted at dst.Root.
func Diff(src, dst *snapshot.Snapshot, fn ActionFunc) (*snapshot.Snapshot, error) {
	deletions := snapshot.New(dst.Root)

	create := func(r snapshot.Record) error {
		return fn(Action{Kind: Create, Record: r, Src: src.Abs(r.Path), Dst: dst.Abs(r.Path)})
	}

	i, j := 0, 0
	for i < len(src.Records) && j < len(dst.Records) {
		s, d := src.Records[i], dst.Records[j]

		switch {
		case s.Path < d.Path:
			if err := create(s); err != nil {
				return deletions, err
			}
			i++

		case s.Path > d.Path:
			deletions.Records = append(deletions.Records, d)
			j++

		default:
			// Directory paths carry a trailing separator, so a directory
			// can only ever equal another directory.
			if s.IsDir() != d.IsDir() {
				return deletions, fmt.Errorf("%q is %s in source but %s in destination",
					s.Path, s.Kind, d.Kind)
			}
			if !s.IsDir() {
				err := fn(Action{Kind: VerifyLink, Record: s, Src: src.Abs(s.Path), Dst: dst.Abs(d.Path)})
				if err != nil {
					return deletions, err
				}
			}
			i++
			j++
		}
	}

	for ; i < len(src.Records); i++ {
		if err := create(src.Records[i]); err != nil {
			return deletions, err
		}
	}
	deletions.Records = append(deletions.Records, dst.Records[j:]...)

	return deletions, nil
}
