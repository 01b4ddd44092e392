package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealFileSystem_WriteAndRead(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "file.txt")

	require.NoError(t, fs.WriteFile(path, []byte("content"), 0o644))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestRealFileSystem_WriteFileAtomic(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	dir := t.TempDir()
	path := filepath.Join(dir, "target.txt")

	require.NoError(t, fs.WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, fs.WriteFileAtomic(path, []byte("second"), 0o644))

	data, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	// No temp files may survive.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRealFileSystem_WriteFileAtomic_Perm(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "private.txt")

	require.NoError(t, fs.WriteFileAtomic(path, []byte("secret"), 0o600))

	info, err := fs.GetFileInfo(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
}

func TestRealFileSystem_WriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	err := fs.WriteFileAtomic(filepath.Join(t.TempDir(), "no", "such", "dir", "f"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestRealFileSystem_Exists(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	path := filepath.Join(t.TempDir(), "exists.txt")

	assert.False(t, fs.Exists(path))
	require.NoError(t, fs.WriteFile(path, []byte(""), 0o644))
	assert.True(t, fs.Exists(path))
}

func TestRealFileSystem_CopyFile(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dest := filepath.Join(dir, "dest.txt")

	require.NoError(t, fs.WriteFile(src, []byte("payload"), 0o600))
	require.NoError(t, fs.CopyFile(src, dest))

	data, err := fs.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	info, err := fs.GetFileInfo(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
}

func TestRealFileSystem_MkdirAllAndIsDir(t *testing.T) {
	t.Parallel()

	fs := NewRealFileSystem()
	nested := filepath.Join(t.TempDir(), "a", "b", "c")

	require.NoError(t, fs.MkdirAll(nested, 0o755))
	assert.True(t, fs.IsDir(nested))
	assert.False(t, fs.IsDir(filepath.Join(nested, "missing")))
}
