package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryFSFileRoundTrip(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/a/b", 0755))
	require.NoError(t, fs.WriteFile("/a/b/f.txt", []byte("hello"), 0644))

	data, err := fs.ReadFile("/a/b/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	info, err := fs.Stat("/a/b/f.txt")
	require.NoError(t, err)
	assert.False(t, info.IsDir())
	assert.Equal(t, int64(5), info.Size())
}

func TestMemoryFSWriteRequiresParent(t *testing.T) {
	fs := NewMemoryFS()
	err := fs.WriteFile("/missing/f.txt", []byte("x"), 0644)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestMemoryFSSymlinkResolution(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/dest", 0755))
	require.NoError(t, fs.MkdirAll("/src/a", 0755))
	require.NoError(t, fs.WriteFile("/dest/real.txt", []byte("content"), 0644))
	require.NoError(t, fs.Symlink("../../dest/real.txt", "/src/a/link.txt"))

	// Readlink returns the literal target
	target, err := fs.Readlink("/src/a/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "../../dest/real.txt", target)

	// ReadFile follows the link, resolving relative to the link's dir
	data, err := fs.ReadFile("/src/a/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// Lstat sees the link itself, Stat the target
	linfo, err := fs.Lstat("/src/a/link.txt")
	require.NoError(t, err)
	assert.NotZero(t, linfo.Mode()&os.ModeSymlink)
	sinfo, err := fs.Stat("/src/a/link.txt")
	require.NoError(t, err)
	assert.Zero(t, sinfo.Mode()&os.ModeSymlink)
}

func TestMemoryFSDanglingSymlink(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/d", 0755))
	require.NoError(t, fs.Symlink("gone.txt", "/d/link.txt"))

	_, err := fs.Stat("/d/link.txt")
	assert.True(t, os.IsNotExist(err))

	_, err = fs.Lstat("/d/link.txt")
	assert.NoError(t, err)

	// removing a dangling link works
	require.NoError(t, fs.Remove("/d/link.txt"))
	assert.False(t, fs.Exists("/d/link.txt"))
}

func TestMemoryFSDirectorySymlinkTraversal(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/real/sub", 0755))
	require.NoError(t, fs.WriteFile("/real/sub/f.txt", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("/tree", 0755))
	require.NoError(t, fs.Symlink("../real", "/tree/alias"))

	data, err := fs.ReadFile("/tree/alias/sub/f.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))

	entries, err := fs.ReadDir("/tree/alias/sub")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "f.txt", entries[0].Name())
}

func TestMemoryFSReadDirSorted(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/d", 0755))
	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		require.NoError(t, fs.WriteFile("/d/"+name, nil, 0644))
	}

	entries, err := fs.ReadDir("/d")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a.txt", entries[0].Name())
	assert.Equal(t, "b.txt", entries[1].Name())
	assert.Equal(t, "c.txt", entries[2].Name())
}

func TestMemoryFSRename(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/d", 0755))
	require.NoError(t, fs.WriteFile("/d/old.txt", []byte("x"), 0644))

	require.NoError(t, fs.Rename("/d/old.txt", "/d/new.txt"))
	assert.False(t, fs.Exists("/d/old.txt"))
	data, err := fs.ReadFile("/d/new.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestMemoryFSRemoveNonEmptyDir(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/d/sub", 0755))
	require.Error(t, fs.Remove("/d"))
	require.NoError(t, fs.Remove("/d/sub"))
	require.NoError(t, fs.Remove("/d"))
}

func TestMemoryFSSymlinkExists(t *testing.T) {
	fs := NewMemoryFS()
	require.NoError(t, fs.MkdirAll("/d", 0755))
	require.NoError(t, fs.WriteFile("/d/f.txt", nil, 0644))
	err := fs.Symlink("anything", "/d/f.txt")
	require.Error(t, err)
	assert.True(t, os.IsExist(err))
}
