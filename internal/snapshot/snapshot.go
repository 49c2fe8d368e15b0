// Package snapshot records every directory, file and symlink under a root as
// a flat, sortable sequence of relative paths.
package snapshot

import (
	"strings"

	"github.com/bamsammich/synclink/internal/fsys"
)

// Separator terminates directory paths so that, in ascending byte order, a
// directory sorts immediately before its children.
const Separator = "/"

// Record is one object in a snapshot. Kind is what the filesystem reported
// at collection time; it is never derived from Path.
type Record struct {
	Path string // relative to the snapshot root; directories end in Separator
	Kind fsys.Kind
}

// IsDir reports whether the record is a directory.
func (r Record) IsDir() bool { return r.Kind == fsys.Dir }

// Snapshot is an ordered sequence of records rooted at one directory.
type Snapshot struct {
	// Root is absolute and always ends in Separator, so Root+Path is the
	// absolute path of a record.
	Root    string
	Records []Record
}

// New returns an empty snapshot rooted at root.
func New(root string) *Snapshot {
	return &Snapshot{Root: NormalizeRoot(root)}
}

// NormalizeRoot appends Separator to root if it is missing.
func NormalizeRoot(root string) string {
	if strings.HasSuffix(root, Separator) {
		return root
	}
	return root + Separator
}

// Append adds a record to the end of the snapshot.
func (s *Snapshot) Append(path string, kind fsys.Kind) {
	if kind == fsys.Dir && !strings.HasSuffix(path, Separator) {
		path += Separator
	}
	s.Records = append(s.Records, Record{Path: path, Kind: kind})
}

// Abs returns the absolute path for a relative record path.
func (s *Snapshot) Abs(rel string) string {
	return s.Root + rel
}

// Len returns the number of records.
func (s *Snapshot) Len() int { return len(s.Records) }
