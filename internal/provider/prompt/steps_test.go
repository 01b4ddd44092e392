package prompt

import (
	"context"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
	"github.com/rigstrap/rigstrap/internal/testutil/mocks"
)

func runCtx() step.RunContext {
	return step.NewRunContext(context.Background())
}

func TestInstallStep_SatisfiedWhenStarshipListed(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("brew", []string{"list", "--formula"}, ports.CommandResult{ExitCode: 0, Stdout: "git\nstarship\n"})

	status, err := NewInstallStep(runner).Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestInstallStep_ApplyInstallsStarship(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("brew", []string{"install", "starship"}, ports.CommandResult{ExitCode: 0})

	require.NoError(t, NewInstallStep(runner).Apply(runCtx()))
}

func TestInstallStep_PassesRecordedPathToBrew(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	runner.AddResult("brew", []string{"list", "--formula"}, ports.CommandResult{ExitCode: 0, Stdout: "starship\n"})
	runner.AddResult("brew", []string{"install", "starship"}, ports.CommandResult{ExitCode: 0})

	ctx := runCtx()
	ctx.Env().PrependPath("/opt/homebrew/bin")

	s := NewInstallStep(runner)
	_, err := s.Check(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Apply(ctx))

	calls := runner.Calls()
	require.Len(t, calls, 2)
	for _, call := range calls {
		require.Len(t, call.Env, 1)
		assert.Contains(t, call.Env[0], "PATH=/opt/homebrew/bin:")
	}
}

func TestConfigStep_WritesTOML(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	settings := map[string]interface{}{
		"add_newline": false,
		"directory":   map[string]interface{}{"truncation_length": int64(3)},
	}
	s := NewConfigStep("/home/u/.config/starship.toml", settings, fs)

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)

	require.NoError(t, s.Apply(runCtx()))

	data, err := fs.ReadFile("/home/u/.config/starship.toml")
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["add_newline"])

	status, err = s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestConfigStep_NeedsApplyWhenFileDrifts(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.config/starship.toml", []byte("add_newline = true\n"), 0o644))

	s := NewConfigStep("/home/u/.config/starship.toml", map[string]interface{}{"add_newline": false}, fs)

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestInitStep_WritesEvalBlock(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	s := NewInitStep("/home/u/.zshrc", dotfile.NewStore(fs))

	require.NoError(t, s.Apply(runCtx()))

	data, err := fs.ReadFile("/home/u/.zshrc")
	require.NoError(t, err)
	assert.Equal(t,
		"# >>> rigstrap prompt >>>\n"+
			"eval \"$(starship init zsh)\"\n"+
			"# <<< rigstrap prompt <<<\n",
		string(data))

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestInitStep_DependsOnInstall(t *testing.T) {
	t.Parallel()

	deps := NewInitStep("~/.zshrc", nil).DependsOn()
	require.Len(t, deps, 1)
	assert.Equal(t, "prompt:install", deps[0].String())
}

func TestCompile_OmitsConfigStepWithoutSettings(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	profile := &config.Profile{}
	profile.Shell.InteractiveFile = "~/.zshrc"
	profile.Prompt.ConfigPath = "~/.config/starship.toml"

	steps := Compile(profile, mocks.NewCommandRunner(), fs, dotfile.NewStore(fs))
	require.Len(t, steps, 2)
	assert.Equal(t, "prompt:install", steps[0].ID().String())
	assert.Equal(t, "prompt:init", steps[1].ID().String())

	profile.Prompt.Settings = map[string]interface{}{"add_newline": false}
	steps = Compile(profile, mocks.NewCommandRunner(), fs, dotfile.NewStore(fs))
	require.Len(t, steps, 3)
	assert.Equal(t, "prompt:config", steps[1].ID().String())
}
