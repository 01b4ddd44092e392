// Package prompt installs the starship prompt, writes its TOML
// configuration, and hooks it into the interactive shell.
package prompt

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
	"github.com/rigstrap/rigstrap/internal/provider/homebrew"
)

// Step identifiers for the prompt provider.
var (
	InstallID = step.MustNewID("prompt:install")
	ConfigID  = step.MustNewID("prompt:config")
	InitID    = step.MustNewID("prompt:init")
)

const initBlockName = "prompt"

// InstallStep installs starship via Homebrew.
type InstallStep struct {
	runner ports.CommandRunner
}

// NewInstallStep creates the starship install step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{runner: runner}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.ID {
	return InstallID
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []step.ID {
	return []step.ID{homebrew.InstallID}
}

// Summary describes the step.
func (s *InstallStep) Summary() string {
	return "Install the starship prompt"
}

// Check determines if starship is already installed.
func (s *InstallStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.RunEnv(ctx.Context(), pathEnv(ctx), "brew", "list", "--formula")
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if !result.Success() {
		return step.StatusNeedsApply, fmt.Errorf("brew list failed: %s", strings.TrimSpace(result.Stderr))
	}
	for _, line := range strings.Split(result.Stdout, "\n") {
		if strings.TrimSpace(line) == "starship" {
			return step.StatusSatisfied, nil
		}
	}
	return step.StatusNeedsApply, nil
}

// Apply installs starship.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	result, err := s.runner.RunEnv(ctx.Context(), pathEnv(ctx), "brew", "install", "starship")
	if err != nil {
		return fmt.Errorf("brew install starship: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("brew install starship failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// ConfigStep writes starship.toml from the profile's settings. The
// file is generated wholesale: manual edits to it are overwritten.
type ConfigStep struct {
	path     string
	settings map[string]interface{}
	fs       ports.FileSystem
}

// NewConfigStep creates the starship configuration step.
func NewConfigStep(path string, settings map[string]interface{}, fs ports.FileSystem) *ConfigStep {
	return &ConfigStep{path: path, settings: settings, fs: fs}
}

// ID returns the step identifier.
func (s *ConfigStep) ID() step.ID {
	return ConfigID
}

// DependsOn returns the step dependencies.
func (s *ConfigStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *ConfigStep) Summary() string {
	return fmt.Sprintf("Write prompt configuration to %s", s.path)
}

// Check compares the rendered configuration against the file on disk.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	desired, err := s.render()
	if err != nil {
		return step.StatusNeedsApply, err
	}

	path := ports.ExpandPath(s.path)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}
	data, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusNeedsApply, fmt.Errorf("read %s: %w", path, err)
	}
	if bytes.Equal(data, desired) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply writes the rendered configuration.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	desired, err := s.render()
	if err != nil {
		return err
	}

	path := ports.ExpandPath(s.path)
	if err := s.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}
	if err := s.fs.WriteFileAtomic(path, desired, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *ConfigStep) render() ([]byte, error) {
	data, err := toml.Marshal(s.settings)
	if err != nil {
		return nil, fmt.Errorf("render prompt configuration: %w", err)
	}
	return data, nil
}

// InitStep adds the starship init hook to the interactive shell file.
type InitStep struct {
	file  string
	store *dotfile.Store
}

// NewInitStep creates the shell hook step.
func NewInitStep(file string, store *dotfile.Store) *InitStep {
	return &InitStep{file: file, store: store}
}

// ID returns the step identifier.
func (s *InitStep) ID() step.ID {
	return InitID
}

// DependsOn returns the step dependencies.
func (s *InitStep) DependsOn() []step.ID {
	return []step.ID{InstallID}
}

// Summary describes the step.
func (s *InitStep) Summary() string {
	return fmt.Sprintf("Hook starship into %s", s.file)
}

func (s *InitStep) lines() []string {
	return []string{`eval "$(starship init zsh)"`}
}

// Check compares the managed init block.
func (s *InitStep) Check(_ step.RunContext) (step.Status, error) {
	body, found, err := s.store.Read(ports.ExpandPath(s.file), initBlockName)
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if found && body == s.lines()[0]+"\n" {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply writes the init block.
func (s *InitStep) Apply(_ step.RunContext) error {
	return s.store.Upsert(ports.ExpandPath(s.file), initBlockName, s.lines())
}

// Compile returns the prompt steps for a profile. The configuration
// step is omitted when the profile declares no settings, leaving any
// hand-maintained starship.toml alone.
func Compile(profile *config.Profile, runner ports.CommandRunner, fs ports.FileSystem, store *dotfile.Store) []step.Step {
	steps := []step.Step{NewInstallStep(runner)}
	if len(profile.Prompt.Settings) > 0 {
		steps = append(steps, NewConfigStep(profile.Prompt.ConfigPath, profile.Prompt.Settings, fs))
	}
	steps = append(steps, NewInitStep(profile.Shell.InteractiveFile, store))
	return steps
}

// pathEnv builds a PATH override from directories recorded by earlier
// steps, so a brew bootstrapped this run is found.
func pathEnv(ctx step.RunContext) []string {
	entries := ctx.Env().PathEntries()
	if len(entries) == 0 {
		return nil
	}
	return []string{"PATH=" + strings.Join(entries, ":") + ":" + os.Getenv("PATH")}
}
