package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/bamsammich/synclink/internal/fsys"
	"github.com/bamsammich/synclink/internal/snapshot"
	"github.com/bamsammich/synclink/internal/stats"
)

// buildTree populates root from a compact description. Entries ending in "/"
// are directories, "name->target" is a symlink, anything else is a file
// whose content is its own name.
//
//	buildTree(t, root, "a/", "a/f", "s->a/f")
func buildTree(t *testing.T, root string, entries ...string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(root, 0o755))
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e, "/"):
			require.NoError(t, os.MkdirAll(filepath.Join(root, e), 0o755))
		case strings.Contains(e, "->"):
			name, target, _ := strings.Cut(e, "->")
			p := filepath.Join(root, name)
			require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
			require.NoError(t, os.Symlink(target, p))
		default:
			p := filepath.Join(root, e)
			require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
			require.NoError(t, os.WriteFile(p, []byte(e), 0o644))
		}
	}
}

// newRoots creates empty src and dst directories under one temp dir, so
// both are on the same device.
func newRoots(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.Mkdir(src, 0o755))
	require.NoError(t, os.Mkdir(dst, 0o755))
	return src, dst
}

// listTree returns every relative path under root in collection form
// (directories with a trailing "/"), ascending.
func listTree(t *testing.T, root string) []string {
	t.Helper()

	snap, err := snapshot.Collect(fsys.OS{}, root, snapshot.CollectOptions{})
	require.NoError(t, err)
	snap.Sort(snapshot.Ascending)

	out := make([]string, 0, snap.Len())
	for _, r := range snap.Records {
		out = append(out, r.Path)
	}
	return out
}

// inode returns the lstat inode number of path.
func inode(t *testing.T, path string) uint64 {
	t.Helper()

	var st unix.Stat_t
	require.NoError(t, unix.Lstat(path, &st))
	return uint64(st.Ino) //nolint:unconvert // Ino is uint32 on some platforms
}

// requireShared asserts that every non-directory under src shares its inode
// with the object at the same relative path under dst.
func requireShared(t *testing.T, src, dst string) {
	t.Helper()

	for _, rel := range listTree(t, src) {
		if strings.HasSuffix(rel, "/") {
			continue
		}
		require.Equal(t, inode(t, filepath.Join(src, rel)), inode(t, filepath.Join(dst, rel)),
			"%s not hard-linked", rel)
	}
}

func runSync(t *testing.T, cfg Config) Result {
	t.Helper()

	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	return Run(t.Context(), cfg)
}

func mkfifo(path string) error {
	return unix.Mkfifo(path, 0o644)
}
