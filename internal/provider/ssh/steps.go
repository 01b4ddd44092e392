// Package ssh generates the user's ed25519 key pair and maintains
// managed Host blocks in ~/.ssh/config.
package ssh

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	cryptossh "golang.org/x/crypto/ssh"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// KeygenID identifies the key generation step.
var KeygenID = step.MustNewID("ssh:keygen")

const configPath = "~/.ssh/config"

// KeygenStep generates an ed25519 key pair when none exists. An
// existing but unparsable key pair fails the step rather than being
// overwritten.
type KeygenStep struct {
	keyPath string
	comment string
	runner  ports.CommandRunner
	fs      ports.FileSystem
}

// NewKeygenStep creates the key generation step.
func NewKeygenStep(keyPath, comment string, runner ports.CommandRunner, fs ports.FileSystem) *KeygenStep {
	return &KeygenStep{keyPath: keyPath, comment: comment, runner: runner, fs: fs}
}

// ID returns the step identifier.
func (s *KeygenStep) ID() step.ID {
	return KeygenID
}

// DependsOn returns the step dependencies.
func (s *KeygenStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *KeygenStep) Summary() string {
	return fmt.Sprintf("Generate ed25519 key at %s", s.keyPath)
}

// Check validates an existing key pair or reports that one is needed.
func (s *KeygenStep) Check(_ step.RunContext) (step.Status, error) {
	key := ports.ExpandPath(s.keyPath)
	pub := key + ".pub"

	keyExists := s.fs.Exists(key)
	pubExists := s.fs.Exists(pub)

	if !keyExists && !pubExists {
		return step.StatusNeedsApply, nil
	}
	if keyExists != pubExists {
		return step.StatusNeedsApply, fmt.Errorf("key pair at %s is incomplete; refusing to overwrite", key)
	}

	if err := s.validatePublicKey(pub); err != nil {
		return step.StatusNeedsApply, err
	}
	return step.StatusSatisfied, nil
}

// Apply runs ssh-keygen with an empty passphrase, then validates the
// produced public key.
func (s *KeygenStep) Apply(ctx step.RunContext) error {
	key := ports.ExpandPath(s.keyPath)

	if err := s.fs.MkdirAll(filepath.Dir(key), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(key), err)
	}

	args := []string{"-t", "ed25519", "-f", key, "-N", ""}
	if s.comment != "" {
		args = append(args, "-C", s.comment)
	}

	result, err := s.runner.Run(ctx.Context(), "ssh-keygen", args...)
	if err != nil {
		return fmt.Errorf("ssh-keygen: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("ssh-keygen failed: %s", strings.TrimSpace(result.Stderr))
	}

	return s.validatePublicKey(key + ".pub")
}

func (s *KeygenStep) validatePublicKey(path string) error {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read public key %s: %w", path, err)
	}
	if _, _, _, _, err := cryptossh.ParseAuthorizedKey(data); err != nil {
		return fmt.Errorf("invalid public key %s: %w", path, err)
	}
	return nil
}

// HostStep maintains one managed Host block in ~/.ssh/config.
type HostStep struct {
	host  config.SSHHost
	fs    ports.FileSystem
	store *dotfile.Store
}

// NewHostStep creates a config block step for one host.
func NewHostStep(host config.SSHHost, fs ports.FileSystem, store *dotfile.Store) *HostStep {
	return &HostStep{host: host, fs: fs, store: store}
}

// ID returns the step identifier.
func (s *HostStep) ID() step.ID {
	return step.MustNewID("ssh:config:" + s.host.Host)
}

// DependsOn returns the step dependencies.
func (s *HostStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *HostStep) Summary() string {
	return fmt.Sprintf("Configure ssh host %s", s.host.Host)
}

func (s *HostStep) blockName() string {
	return "host-" + s.host.Host
}

func (s *HostStep) lines() []string {
	lines := []string{"Host " + s.host.Host}

	opts := make([]string, 0, len(s.host.Options))
	for k := range s.host.Options {
		opts = append(opts, k)
	}
	sort.Strings(opts)
	for _, k := range opts {
		lines = append(lines, fmt.Sprintf("  %s %s", k, s.host.Options[k]))
	}
	return lines
}

// Check compares the managed block against the desired host entry.
func (s *HostStep) Check(_ step.RunContext) (step.Status, error) {
	body, found, err := s.store.Read(ports.ExpandPath(configPath), s.blockName())
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if found && body == strings.Join(s.lines(), "\n")+"\n" {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply writes the host block. A fresh config file is created with
// owner-only permissions.
func (s *HostStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(configPath)

	if err := s.fs.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if !s.fs.Exists(path) {
		if err := s.fs.WriteFile(path, nil, 0o600); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
	}

	return s.store.Upsert(path, s.blockName(), s.lines())
}

// Compile returns the SSH steps for a profile: the keygen step, plus
// one host block step per configured host.
func Compile(profile *config.Profile, runner ports.CommandRunner, fs ports.FileSystem, store *dotfile.Store) []step.Step {
	steps := []step.Step{
		NewKeygenStep(profile.SSH.KeyPath, profile.SSH.Comment, runner, fs),
	}
	for _, h := range profile.SSH.Hosts {
		steps = append(steps, NewHostStep(h, fs, store))
	}
	return steps
}
