// Package fsys is the filesystem primitive layer. The engine only ever talks
// to the filesystem through FS, so tests can substitute a recording fake.
package fsys

import "os"

// Kind classifies a filesystem object.
type Kind uint8

const (
	Unknown Kind = iota
	File
	Dir
	Symlink
	Other // devices, sockets, fifos
)

var kindNames = [...]string{
	Unknown: "unknown",
	File:    "file",
	Dir:     "dir",
	Symlink: "symlink",
	Other:   "other",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// Linkable reports whether objects of this kind are shared via hard links.
func (k Kind) Linkable() bool {
	return k == File || k == Symlink
}

// KindFromMode classifies an os.FileMode.
func KindFromMode(m os.FileMode) Kind {
	switch {
	case m.IsRegular():
		return File
	case m.IsDir():
		return Dir
	case m&os.ModeSymlink != 0:
		return Symlink
	case m&(os.ModeDevice|os.ModeCharDevice|os.ModeNamedPipe|os.ModeSocket) != 0:
		return Other
	default:
		return Unknown
	}
}

// Info is the result of a stat call. A missing object is reported as
// Exists == false with a nil error.
type Info struct {
	Kind   Kind
	Mode   uint32 // permission and special bits only
	Ino    uint64
	Dev    uint64
	Exists bool
}

// DirEntry is a single name returned by ReadDir.
type DirEntry struct {
	Name string
	Kind Kind
}

// FS is the set of primitives the engine needs.
type FS interface {
	// Stat follows symlinks.
	Stat(path string) (Info, error)
	// Lstat does not follow symlinks.
	Lstat(path string) (Info, error)
	// ReadDir lists the entries of dir, excluding "." and "..".
	ReadDir(dir string) ([]DirEntry, error)
	Mkdir(path string, mode uint32) error
	Link(oldpath, newpath string) error
	Unlink(path string) error
	Rmdir(path string) error
}
