package homebrew

import (
	"fmt"

	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// ManifestID identifies the Brewfile regeneration step.
var ManifestID = step.MustNewID("homebrew:manifest")

// ManifestStep regenerates the Brewfile from the profile's package
// lists. The manifest is a generated file, so it is rewritten wholesale
// rather than block-managed; the previous version is backed up first.
type ManifestStep struct {
	path     string
	formulae []string
	casks    []string
	fs       ports.FileSystem
	store    *dotfile.Store
}

// NewManifestStep creates the Brewfile step. Extras belong in the
// formulae and casks slices only when their group is enabled.
func NewManifestStep(path string, formulae, casks []string, fs ports.FileSystem, store *dotfile.Store) *ManifestStep {
	return &ManifestStep{
		path:     path,
		formulae: formulae,
		casks:    casks,
		fs:       fs,
		store:    store,
	}
}

// ID returns the step identifier.
func (s *ManifestStep) ID() step.ID {
	return ManifestID
}

// DependsOn returns the step dependencies.
func (s *ManifestStep) DependsOn() []step.ID {
	return []step.ID{InstallID}
}

// Summary describes the step.
func (s *ManifestStep) Summary() string {
	return fmt.Sprintf("Regenerate Brewfile at %s", s.path)
}

// Check compares the existing manifest against the desired content.
func (s *ManifestStep) Check(_ step.RunContext) (step.Status, error) {
	path := ports.ExpandPath(s.path)
	if !s.fs.Exists(path) {
		return step.StatusNeedsApply, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return step.StatusNeedsApply, fmt.Errorf("read manifest %s: %w", path, err)
	}
	if string(data) == s.render() {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply backs up the current manifest, then writes the new one.
func (s *ManifestStep) Apply(_ step.RunContext) error {
	path := ports.ExpandPath(s.path)
	if _, err := s.store.BackupIfExists(path); err != nil {
		return err
	}
	if err := s.fs.WriteFileAtomic(path, []byte(s.render()), 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

func (s *ManifestStep) render() string {
	var b []byte
	for _, f := range s.formulae {
		b = append(b, fmt.Sprintf("brew %q\n", f)...)
	}
	for _, c := range s.casks {
		b = append(b, fmt.Sprintf("cask %q\n", c)...)
	}
	return string(b)
}
