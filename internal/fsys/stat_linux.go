//go:build linux

package fsys

import "golang.org/x/sys/unix"

func infoFromStat(st *unix.Stat_t) Info {
	return Info{
		Exists: true,
		Kind:   KindFromMode(modeFromUnix(st.Mode)),
		Mode:   st.Mode & 0o7777,
		Ino:    st.Ino,
		Dev:    st.Dev,
	}
}
