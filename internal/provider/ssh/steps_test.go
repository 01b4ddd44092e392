package ssh

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
	"github.com/rigstrap/rigstrap/internal/testutil/mocks"
)

const validPubKey = "ssh-ed25519 AAAAC3NzaC1lZDI1NTE5AAAAINjjOGjnns58B4RT75AiMv5U2zJ1JJFi+WHklAEwaXsf ada@example.com\n"

func runCtx() step.RunContext {
	return step.NewRunContext(context.Background())
}

func TestKeygenStep_NeedsApplyWhenNoKey(t *testing.T) {
	t.Parallel()

	s := NewKeygenStep("/home/u/.ssh/id_ed25519", "", mocks.NewCommandRunner(), mocks.NewFileSystem())

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusNeedsApply, status)
}

func TestKeygenStep_SatisfiedWithValidKeyPair(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.ssh/id_ed25519", []byte("PRIVATE"), 0o600))
	require.NoError(t, fs.WriteFile("/home/u/.ssh/id_ed25519.pub", []byte(validPubKey), 0o644))

	s := NewKeygenStep("/home/u/.ssh/id_ed25519", "", mocks.NewCommandRunner(), fs)

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestKeygenStep_FailsOnCorruptPublicKey(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.ssh/id_ed25519", []byte("PRIVATE"), 0o600))
	require.NoError(t, fs.WriteFile("/home/u/.ssh/id_ed25519.pub", []byte("not a key\n"), 0o644))

	s := NewKeygenStep("/home/u/.ssh/id_ed25519", "", mocks.NewCommandRunner(), fs)

	_, err := s.Check(runCtx())
	assert.ErrorContains(t, err, "invalid public key")
}

func TestKeygenStep_RefusesIncompletePair(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	require.NoError(t, fs.WriteFile("/home/u/.ssh/id_ed25519", []byte("PRIVATE"), 0o600))

	s := NewKeygenStep("/home/u/.ssh/id_ed25519", "", mocks.NewCommandRunner(), fs)

	_, err := s.Check(runCtx())
	assert.ErrorContains(t, err, "refusing to overwrite")
}

func TestKeygenStep_ApplyGeneratesAndValidates(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	args := []string{"-t", "ed25519", "-f", "/home/u/.ssh/id_ed25519", "-N", "", "-C", "ada@example.com"}
	runner.AddResult("ssh-keygen", args, ports.CommandResult{ExitCode: 0})

	// Simulate ssh-keygen's output files.
	require.NoError(t, fs.WriteFile("/home/u/.ssh/id_ed25519.pub", []byte(validPubKey), 0o644))

	s := NewKeygenStep("/home/u/.ssh/id_ed25519", "ada@example.com", runner, fs)
	require.NoError(t, s.Apply(runCtx()))

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "ssh-keygen", calls[0].Command)
}

func TestKeygenStep_ApplySurfacesKeygenFailure(t *testing.T) {
	t.Parallel()

	runner := mocks.NewCommandRunner()
	args := []string{"-t", "ed25519", "-f", "/home/u/.ssh/id_ed25519", "-N", ""}
	runner.AddResult("ssh-keygen", args, ports.CommandResult{ExitCode: 1, Stderr: "permission denied"})

	s := NewKeygenStep("/home/u/.ssh/id_ed25519", "", runner, mocks.NewFileSystem())
	assert.ErrorContains(t, s.Apply(runCtx()), "permission denied")
}

func TestHostStep_WritesHostBlock(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	host := config.SSHHost{
		Host: "github.com",
		Options: map[string]string{
			"User":         "git",
			"IdentityFile": "~/.ssh/id_ed25519",
		},
	}
	s := NewHostStep(host, fs, dotfile.NewStore(fs))

	require.NoError(t, s.Apply(runCtx()))

	data, err := fs.ReadFile(ports.ExpandPath("~/.ssh/config"))
	require.NoError(t, err)
	assert.Equal(t,
		"# >>> rigstrap host-github.com >>>\n"+
			"Host github.com\n"+
			"  IdentityFile ~/.ssh/id_ed25519\n"+
			"  User git\n"+
			"# <<< rigstrap host-github.com <<<\n",
		string(data))

	status, err := s.Check(runCtx())
	require.NoError(t, err)
	assert.Equal(t, step.StatusSatisfied, status)
}

func TestHostStep_CreatesConfigWithOwnerOnlyPerms(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	host := config.SSHHost{Host: "github.com"}
	require.NoError(t, NewHostStep(host, fs, dotfile.NewStore(fs)).Apply(runCtx()))

	info, err := fs.GetFileInfo(ports.ExpandPath("~/.ssh/config"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
}

func TestCompile_KeygenPlusOneStepPerHost(t *testing.T) {
	t.Parallel()

	fs := mocks.NewFileSystem()
	profile := &config.Profile{}
	profile.SSH.KeyPath = "~/.ssh/id_ed25519"
	profile.SSH.Hosts = []config.SSHHost{{Host: "github.com"}, {Host: "gitlab.com"}}

	steps := Compile(profile, mocks.NewCommandRunner(), fs, dotfile.NewStore(fs))

	ids := make([]string, 0, len(steps))
	for _, s := range steps {
		ids = append(ids, s.ID().String())
	}
	assert.Equal(t, []string{"ssh:keygen", "ssh:config:github.com", "ssh:config:gitlab.com"}, ids)
}
