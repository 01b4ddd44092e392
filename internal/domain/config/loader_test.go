package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigstrap/rigstrap/internal/testutil/mocks"
)

const sampleProfile = `
packages:
  formulae: [git, ripgrep]
  casks: [rectangle]
  extras:
    formulae: [gh]
shell:
  env:
    EDITOR: nvim
  aliases:
    g: git
runtimes:
  - name: go
    formula: go
    bin_dir: ~/go/bin
    min_version: "1.22"
macos:
  defaults:
    - domain: com.apple.finder
      key: AppleShowAllFiles
      type: bool
      value: "true"
git:
  name: Ada Lovelace
  email: ada@example.com
ssh:
  hosts:
    - host: github.com
      options:
        User: git
`

func writeProfile(t *testing.T, content string) (*mocks.FileSystem, string) {
	t.Helper()

	fs := mocks.NewFileSystem()
	path := "/home/u/rigstrap.yaml"
	require.NoError(t, fs.WriteFile(path, []byte(content), 0o644))
	return fs, path
}

func TestLoad_FullProfile(t *testing.T) {
	t.Parallel()

	fs, path := writeProfile(t, sampleProfile)

	profile, err := Load(fs, path)
	require.NoError(t, err)

	assert.Equal(t, []string{"git", "ripgrep"}, profile.Packages.Formulae)
	assert.Equal(t, []string{"rectangle"}, profile.Packages.Casks)
	assert.Equal(t, []string{"gh"}, profile.Packages.Extras.Formulae)
	assert.Equal(t, "nvim", profile.Shell.Env["EDITOR"])
	assert.Equal(t, "git", profile.Shell.Aliases["g"])
	require.Len(t, profile.Runtimes, 1)
	assert.Equal(t, "go", profile.Runtimes[0].Name)
	assert.Equal(t, "1.22", profile.Runtimes[0].MinVersion)
	require.Len(t, profile.MacOS.Defaults, 1)
	assert.Equal(t, "com.apple.finder", profile.MacOS.Defaults[0].Domain)
	assert.Equal(t, "ada@example.com", profile.Git.Email)
	require.Len(t, profile.SSH.Hosts, 1)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Parallel()

	fs, path := writeProfile(t, "packages:\n  formulae: [git]\n")

	profile, err := Load(fs, path)
	require.NoError(t, err)

	assert.Equal(t, DefaultLoginFile, profile.Shell.LoginFile)
	assert.Equal(t, DefaultInteractiveFile, profile.Shell.InteractiveFile)
	assert.Equal(t, DefaultSSHKeyPath, profile.SSH.KeyPath)
	assert.Equal(t, DefaultPromptConfig, profile.Prompt.ConfigPath)
	assert.Equal(t, DefaultManifestPath, profile.Manifest.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(mocks.NewFileSystem(), "/nope.yaml")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	fs, path := writeProfile(t, "packages: [not: a: mapping\n")

	_, err := Load(fs, path)
	assert.ErrorContains(t, err, "parse profile")
}

func TestLoad_RejectsRuntimeWithoutFormula(t *testing.T) {
	t.Parallel()

	fs, path := writeProfile(t, "runtimes:\n  - name: go\n")

	_, err := Load(fs, path)
	assert.ErrorContains(t, err, `runtime "go": formula is required`)
}

func TestLoad_RejectsUnknownDefaultType(t *testing.T) {
	t.Parallel()

	fs, path := writeProfile(t, `
macos:
  defaults:
    - domain: com.apple.dock
      key: tilesize
      type: size
      value: "48"
`)

	_, err := Load(fs, path)
	assert.ErrorContains(t, err, `unsupported type "size"`)
}
