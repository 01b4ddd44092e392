package dotfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigstrap/rigstrap/internal/testutil/mocks"
)

func TestStore_Upsert_CreatesFile(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := NewStore(fs)

	require.NoError(t, store.Upsert("/home/u/.zprofile", "env", []string{`export EDITOR="nvim"`}))

	data, err := fs.ReadFile("/home/u/.zprofile")
	require.NoError(t, err)
	assert.Equal(t, "# >>> rigstrap env >>>\nexport EDITOR=\"nvim\"\n# <<< rigstrap env <<<\n", string(data))
	assert.True(t, fs.IsDir("/home/u"))
}

func TestStore_Upsert_Idempotent(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := NewStore(fs)
	lines := []string{"export A=1", "export B=2"}

	require.NoError(t, store.Upsert("/home/u/.zshrc", "env", lines))
	first, err := fs.ReadFile("/home/u/.zshrc")
	require.NoError(t, err)

	require.NoError(t, store.Upsert("/home/u/.zshrc", "env", lines))
	second, err := fs.ReadFile("/home/u/.zshrc")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStore_Upsert_UpdateInPlace(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.zshrc", []byte("# mine\nalias g=git\n"), 0o644))
	store := NewStore(fs)

	require.NoError(t, store.Upsert("/home/u/.zshrc", "aliases", []string{"alias k=kubectl"}))
	require.NoError(t, store.Upsert("/home/u/.zshrc", "aliases", []string{"alias ll='ls -al'"}))

	data, err := fs.ReadFile("/home/u/.zshrc")
	require.NoError(t, err)
	content := string(data)

	assert.Equal(t, 1, strings.Count(content, StartMarker("aliases")))
	assert.Contains(t, content, "alias ll='ls -al'")
	assert.NotContains(t, content, "alias k=kubectl")
	assert.True(t, strings.HasPrefix(content, "# mine\nalias g=git\n"))
}

func TestStore_Upsert_TwoNamedBlocks(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := NewStore(fs)

	require.NoError(t, store.Upsert("/home/u/.zprofile", "env", []string{"export A=1"}))
	require.NoError(t, store.Upsert("/home/u/.zprofile", "path-go", []string{`export PATH="$HOME/go/bin:$PATH"`}))

	body, found, err := store.Read("/home/u/.zprofile", "env")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "export A=1\n", body)

	body, found, err = store.Read("/home/u/.zprofile", "path-go")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "export PATH=\"$HOME/go/bin:$PATH\"\n", body)
}

func TestStore_Upsert_InvalidName(t *testing.T) {
	t.Parallel()

	store := NewStore(mocks.NewFileSystem())

	assert.ErrorIs(t, store.Upsert("/f", "", nil), ErrEmptyName)
	assert.ErrorIs(t, store.Upsert("/f", "bad name", nil), ErrInvalidName)
}

func TestStore_Upsert_ReadFailure(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.zshrc", []byte("x\n"), 0o644))
	fs.FailWith("/home/u/.zshrc", errors.New("permission denied"))
	store := NewStore(fs)

	err := store.Upsert("/home/u/.zshrc", "env", []string{"export A=1"})
	assert.ErrorContains(t, err, "permission denied")
}

func TestStore_Remove(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.zshrc", []byte("# mine\n"), 0o644))
	store := NewStore(fs)

	require.NoError(t, store.Upsert("/home/u/.zshrc", "aliases", []string{"alias g=git"}))

	found, err := store.Remove("/home/u/.zshrc", "aliases")
	require.NoError(t, err)
	assert.True(t, found)

	data, err := fs.ReadFile("/home/u/.zshrc")
	require.NoError(t, err)
	assert.Equal(t, "# mine\n", string(data))

	// Removing again reports no block without touching the file.
	found, err = store.Remove("/home/u/.zshrc", "aliases")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Remove_MissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(mocks.NewFileSystem())

	found, err := store.Remove("/nope", "env")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_BackupIfExists(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/Brewfile", []byte("brew \"git\"\n"), 0o644))
	store := NewStore(fs)

	backup, err := store.BackupIfExists("/home/u/Brewfile")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(backup, "/home/u/Brewfile.bak."))

	copied, err := fs.ReadFile(backup)
	require.NoError(t, err)
	assert.Equal(t, "brew \"git\"\n", string(copied))

	original, err := fs.ReadFile("/home/u/Brewfile")
	require.NoError(t, err)
	assert.Equal(t, "brew \"git\"\n", string(original))
}

func TestStore_BackupIfExists_MissingFile(t *testing.T) {
	t.Parallel()

	store := NewStore(mocks.NewFileSystem())

	backup, err := store.BackupIfExists("/home/u/Brewfile")
	require.NoError(t, err)
	assert.Empty(t, backup)
}

func TestStore_PreservesFilePermissions(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.ssh/config", []byte(""), 0o600))
	store := NewStore(fs)

	require.NoError(t, store.Upsert("/home/u/.ssh/config", "host-github", []string{"Host github.com"}))

	info, err := fs.GetFileInfo("/home/u/.ssh/config")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode.Perm().String())
}
