package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCreate(t *testing.T) {
	root := t.TempDir()
	store := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":        "const app = 1;\n",
		"lib/util.js":   "export const u = 2;\n",
		"lib/deep/x.py": "x = 3\n",
	})

	m := NewManager(root, store, 5)
	path, err := m.Create("before cleanup")
	require.NoError(t, err)

	assert.Equal(t, "const app = 1;\n", readFile(t, filepath.Join(path, "app.js")))
	assert.Equal(t, "x = 3\n", readFile(t, filepath.Join(path, "lib", "deep", "x.py")))

	// Bookkeeping files sit alongside the copied tree.
	assert.FileExists(t, filepath.Join(path, ".snapshot_meta.json"))
	assert.FileExists(t, filepath.Join(path, ".snapshot_checksums.json"))

	snaps := m.List()
	require.Len(t, snaps, 1)
	assert.Equal(t, "before cleanup", snaps[0].Label)
	assert.Equal(t, path, snaps[0].Path)
}

func TestCreateFlattensSeparatorLabel(t *testing.T) {
	root := t.TempDir()
	store := t.TempDir()
	writeTree(t, root, map[string]string{"app.js": "const app = 1;\n"})

	m := NewManager(root, store, 5)
	// Operation labels embed user arguments, so a folder argument like
	// "legacy/sub" reaches Create verbatim.
	path, err := m.Create("comment_imports_legacy/sub")
	require.NoError(t, err)

	// One snapshot directly under the store, never a nested tree.
	assert.Equal(t, store, filepath.Dir(path))
	entries, err := os.ReadDir(store)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.FileExists(t, filepath.Join(path, ".snapshot_meta.json"))

	snaps := m.List()
	require.Len(t, snaps, 1)
	assert.Equal(t, "comment_imports_legacy/sub", snaps[0].Label)

	// The round trip must survive the awkward label.
	writeTree(t, root, map[string]string{"app.js": "mangled\n"})
	result, err := m.RestoreLatest()
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "const app = 1;\n", readFile(t, filepath.Join(root, "app.js")))
}

func TestCreateSkipsNestedStore(t *testing.T) {
	root := t.TempDir()
	store := filepath.Join(root, "backup_snapshots")
	writeTree(t, root, map[string]string{"app.js": ""})

	m := NewManager(root, store, 5)
	first, err := m.Create("one")
	require.NoError(t, err)
	second, err := m.Create("two")
	require.NoError(t, err)

	// The second snapshot must not contain the first; a store inside the
	// root would otherwise snowball.
	assert.NoDirExists(t, filepath.Join(second, "backup_snapshots"))
	assert.FileExists(t, filepath.Join(first, "app.js"))
	assert.FileExists(t, filepath.Join(second, "app.js"))
}

func TestTrimRetention(t *testing.T) {
	root := t.TempDir()
	store := t.TempDir()
	writeTree(t, root, map[string]string{"app.js": ""})

	m := NewManager(root, store, 2)
	_, err := m.Create("a")
	require.NoError(t, err)
	_, err = m.Create("b")
	require.NoError(t, err)
	_, err = m.Create("c")
	require.NoError(t, err)

	snaps := m.List()
	require.Len(t, snaps, 2)
	assert.Equal(t, "c", snaps[0].Label)
	assert.Equal(t, "b", snaps[1].Label)
}

func TestRetainFloor(t *testing.T) {
	m := NewManager(t.TempDir(), t.TempDir(), 0)
	assert.Equal(t, 1, m.retain)
}

func TestRestoreLatest(t *testing.T) {
	root := t.TempDir()
	store := t.TempDir()
	writeTree(t, root, map[string]string{
		"app.js":      "original app\n",
		"lib/util.js": "original util\n",
	})

	m := NewManager(root, store, 5)
	_, err := m.Create("checkpoint")
	require.NoError(t, err)

	// Wreck the tree: modify, delete, and add.
	writeTree(t, root, map[string]string{"app.js": "mangled\n"})
	require.NoError(t, os.RemoveAll(filepath.Join(root, "lib")))
	writeTree(t, root, map[string]string{"intruder.js": "new\n"})

	result, err := m.RestoreLatest()
	require.NoError(t, err)

	assert.Empty(t, result.Errors)
	assert.Equal(t, 2, result.Restored)
	assert.Equal(t, "checkpoint", result.Snapshot.Label)

	assert.Equal(t, "original app\n", readFile(t, filepath.Join(root, "app.js")))
	assert.Equal(t, "original util\n", readFile(t, filepath.Join(root, "lib", "util.js")))
	assert.NoFileExists(t, filepath.Join(root, "intruder.js"))
}

func TestRestoreLatestPicksNewest(t *testing.T) {
	root := t.TempDir()
	store := t.TempDir()
	writeTree(t, root, map[string]string{"app.js": "v1\n"})

	m := NewManager(root, store, 5)
	_, err := m.Create("a")
	require.NoError(t, err)

	writeTree(t, root, map[string]string{"app.js": "v2\n"})
	_, err = m.Create("b")
	require.NoError(t, err)

	writeTree(t, root, map[string]string{"app.js": "wrecked\n"})

	result, err := m.RestoreLatest()
	require.NoError(t, err)
	assert.Equal(t, "b", result.Snapshot.Label)
	assert.Equal(t, "v2\n", readFile(t, filepath.Join(root, "app.js")))
}

func TestRestoreLatestEmptyStore(t *testing.T) {
	m := NewManager(t.TempDir(), t.TempDir(), 5)
	_, err := m.RestoreLatest()
	assert.ErrorIs(t, err, ErrNoSnapshots)
}
