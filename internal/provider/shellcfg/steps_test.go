package shellcfg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/testutil/mocks"
)

func runCtx() step.RunContext {
	return step.NewRunContext(context.Background())
}

func TestEnvStep_WritesSortedExports(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := NewEnvStep("/home/u/.zprofile", map[string]string{
		"EDITOR":   "nvim",
		"AWS_PAGE": "",
	}, dotfile.NewStore(fs))

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(runCtx()))

	data, err := fs.ReadFile("/home/u/.zprofile")
	require.NoError(t, err)
	assert.Equal(t,
		"# >>> rigstrap env >>>\n"+
			"export AWS_PAGE=\"\"\n"+
			"export EDITOR=\"nvim\"\n"+
			"# <<< rigstrap env <<<\n",
		string(data))

	status, err = s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestEnvStep_RecordsExportsForRun(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := NewEnvStep("/home/u/.zprofile", map[string]string{"EDITOR": "nvim"}, dotfile.NewStore(fs))

	ctx := runCtx()
	require.NoError(t, s.Apply(ctx))

	v, ok := ctx.Env().Lookup("EDITOR")
	require.True(t, ok)
	assert.Equal(t, "nvim", v)
}

func TestEnvStep_NeedsApplyWhenBlockStale(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	store := dotfile.NewStore(fs)
	require.NoError(t, store.Upsert("/home/u/.zprofile", "env", []string{`export EDITOR="vim"`}))

	s := NewEnvStep("/home/u/.zprofile", map[string]string{"EDITOR": "nvim"}, store)

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestAliasStep_PreservesUnmanagedContent(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.zshrc", []byte("# my zshrc\nsetopt autocd\n"), 0o644))

	s := NewAliasStep("/home/u/.zshrc", map[string]string{"g": "git"}, dotfile.NewStore(fs))
	require.NoError(t, s.Apply(runCtx()))

	data, err := fs.ReadFile("/home/u/.zshrc")
	require.NoError(t, err)
	assert.Equal(t,
		"# my zshrc\nsetopt autocd\n\n"+
			"# >>> rigstrap aliases >>>\n"+
			"alias g=\"git\"\n"+
			"# <<< rigstrap aliases <<<\n",
		string(data))
}

func TestCompile_EmitsEnvAndAliasSteps(t *testing.T) {
	t.Parallel()

	profile := &config.Profile{}
	profile.Shell.LoginFile = "~/.zprofile"
	profile.Shell.InteractiveFile = "~/.zshrc"

	steps := Compile(profile, dotfile.NewStore(mocks.NewFileSystem()))
	require.Len(t, steps, 2)
	assert.Equal(t, "shellcfg:env", steps[0].ID().String())
	assert.Equal(t, "shellcfg:aliases", steps[1].ID().String())
}
