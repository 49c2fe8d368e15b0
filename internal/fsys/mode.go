package fsys

import (
	"os"

	"golang.org/x/sys/unix"
)

// modeFromUnix converts the S_IFMT bits of a raw st_mode into os.FileMode
// type bits.
func modeFromUnix(m uint32) os.FileMode {
	switch m & unix.S_IFMT {
	case unix.S_IFREG:
		return 0
	case unix.S_IFDIR:
		return os.ModeDir
	case unix.S_IFLNK:
		return os.ModeSymlink
	case unix.S_IFBLK:
		return os.ModeDevice
	case unix.S_IFCHR:
		return os.ModeDevice | os.ModeCharDevice
	case unix.S_IFIFO:
		return os.ModeNamedPipe
	case unix.S_IFSOCK:
		return os.ModeSocket
	default:
		return os.ModeIrregular
	}
}
