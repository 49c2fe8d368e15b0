package fsys

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var _ FS = OS{}

// OS implements FS on the local filesystem.
type OS struct{}

func (OS) Stat(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return missingOr("stat", path, err)
	}
	return infoFromStat(&st), nil
}

func (OS) Lstat(path string) (Info, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return missingOr("lstat", path, err)
	}
	return infoFromStat(&st), nil
}

func missingOr(op, path string, err error) (Info, error) {
	if errors.Is(err, unix.ENOENT) {
		return Info{}, nil
	}
	return Info{}, fmt.Errorf("%s %s: %w", op, path, err)
}

func (OS) ReadDir(dir string) ([]DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", dir, err)
	}
	out := make([]DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, DirEntry{Name: e.Name(), Kind: KindFromMode(e.Type())})
	}
	return out, nil
}

func (OS) Mkdir(path string, mode uint32) error {
	if err := unix.Mkdir(path, mode&0o7777); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Link never follows a symlink at oldpath; the new name refers to the
// symlink itself.
func (OS) Link(oldpath, newpath string) error {
	if err := unix.Linkat(unix.AT_FDCWD, oldpath, unix.AT_FDCWD, newpath, 0); err != nil {
		return fmt.Errorf("link %s -> %s: %w", newpath, oldpath, err)
	}
	return nil
}

func (OS) Unlink(path string) error {
	if err := unix.Unlink(path); err != nil {
		return fmt.Errorf("unlink %s: %w", path, err)
	}
	return nil
}

func (OS) Rmdir(path string) error {
	if err := unix.Rmdir(path); err != nil {
		return fmt.Errorf("rmdir %s: %w", path, err)
	}
	return nil
}
