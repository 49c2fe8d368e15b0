//go:build darwin

package fsys

import "golang.org/x/sys/unix"

func infoFromStat(st *unix.Stat_t) Info {
	return Info{
		Exists: true,
		Kind:   KindFromMode(modeFromUnix(uint32(st.Mode))),
		Mode:   uint32(st.Mode) & 0o7777,
		Ino:    st.Ino,
		Dev:    uint64(st.Dev), //nolint:gosec // G115: dev_t is int32 on darwin
	}
}
