// Package git maintains identity, editor, and alias settings in the
// user's ~/.gitconfig. Settings outside the managed keys are preserved.
package git

import (
	"bytes"
	"fmt"
	"sort"

	"gopkg.in/ini.v1"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// ConfigID identifies the gitconfig step.
var ConfigID = step.MustNewID("git:config")

type entry struct {
	section string
	key     string
	value   string
}

// ConfigStep writes the profile's git settings into the config file.
type ConfigStep struct {
	path string
	cfg  config.Git
	fs   ports.FileSystem
}

// NewConfigStep creates the gitconfig step. Path defaults to
// ~/.gitconfig when empty.
func NewConfigStep(path string, cfg config.Git, fs ports.FileSystem) *ConfigStep {
	if path == "" {
		path = "~/.gitconfig"
	}
	return &ConfigStep{path: path, cfg: cfg, fs: fs}
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
	return fmt.Sprintf("Configure git identity and aliases in %s", s.path)
}

// Check reports Satisfied when every managed key already holds its
// desired value.
func (s *ConfigStep) Check(_ step.RunContext) (step.Status, error) {
	entries := s.entries()
	if len(entries) == 0 {
		return step.StatusSatisfied, nil
	}

	path := ports.ExpandPath(s.path)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusNeedsApply, fmt.Errorf("read %s: %w", path, err)
	}

	file, err := ini.Load(data)
	if err != nil {
		return step.StatusNeedsApply, fmt.Errorf("parse %s: %w", path, err)
	}

	for _, e := range entries {
		if file.Section(e.section).Key(e.key).String() != e.value {
			return step.StatusNeedsApply, nil
		}
	}
	return step.StatusSatisfied, nil
}

// Apply merges the managed keys into the existing file and rewrites it.
func (s *ConfigStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(s.path)

	file := ini.Empty()
	if s.fs.Exists(path) {
		data, err := s.fs.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if file, err = ini.Load(data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	for _, e := range s.entries() {
		file.Section(e.section).Key(e.key).SetValue(e.value)
	}

	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := s.fs.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *ConfigStep) entries() []entry {
	var entries []entry
	if s.cfg.Name != "" {
		entries = append(entries, entry{"user", "name", s.cfg.Name})
	}
	if s.cfg.Email != "" {
		entries = append(entries, entry{"user", "email", s.cfg.Email})
	}
	if s.cfg.Editor != "" {
		entries = append(entries, entry{"core", "editor", s.cfg.Editor})
	}

	aliases := make([]string, 0, len(s.cfg.Aliases))
	for a := range s.cfg.Aliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	for _, a := range aliases {
		entries = append(entries, entry{"alias", a, s.cfg.Aliases[a]})
	}
	return entries
}

// Compile returns the git steps for a profile. A profile without git
// settings produces none.
func Compile(profile *config.Profile, fs ports.FileSystem) []step.Step {
	g := profile.Git
	if g.Name == "" && g.Email == "" && g.Editor == "" && len(g.Aliases) == 0 {
		return nil
	}
	return []step.Step{NewConfigStep("", g, fs)}
}
