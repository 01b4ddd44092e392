// Package macos applies system preferences through the `defaults`
// command-line tool.
package macos

import (
	"fmt"
	"strings"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// DefaultsStep sets one preference key via `defaults write`.
type DefaultsStep struct {
	def    config.Default
	runner ports.CommandRunner
}

// NewDefaultsStep creates a step for one preference key.
func NewDefaultsStep(def config.Default, runner ports.CommandRunner) *DefaultsStep {
	return &DefaultsStep{def: def, runner: runner}
}

// ID returns the step identifier.
func (s *DefaultsStep) ID() step.ID {
	return step.MustNewID(fmt.Sprintf("macos:defaults:%s:%s", s.def.Domain, s.def.Key))
}

// DependsOn returns the step dependencies.
func (s *DefaultsStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *DefaultsStep) Summary() string {
	return fmt.Sprintf("Set %s %s = %s", s.def.Domain, s.def.Key, s.def.Value)
}

// Check reads the current value and compares it to the desired one.
// A missing key reads as needing apply, not as an error.
func (s *DefaultsStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "defaults", "read", s.def.Domain, s.def.Key)
	if err != nil {
		return step.StatusNeedsApply, fmt.Errorf("defaults read %s %s: %w", s.def.Domain, s.def.Key, err)
	}
	if !result.Success() {
		return step.StatusNeedsApply, nil
	}

	current := normalize(s.def.Type, strings.TrimSpace(result.Stdout))
	desired := normalize(s.def.Type, s.def.Value)
	if current == desired {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply writes the preference.
func (s *DefaultsStep) Apply(ctx step.RunContext) error {
	args := []string{"write", s.def.Domain, s.def.Key, "-" + s.def.Type, s.def.Value}
	result, err := s.runner.Run(ctx.Context(), "defaults", args...)
	if err != nil {
		return fmt.Errorf("defaults write %s %s: %w", s.def.Domain, s.def.Key, err)
	}
	if !result.Success() {
		return fmt.Errorf("defaults write %s %s failed: %s", s.def.Domain, s.def.Key, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// normalize maps boolean spellings to the "1"/"0" form `defaults read`
// prints, so "true" compares equal to a stored 1.
func normalize(typ, value string) string {
	if typ != "bool" {
		return value
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes":
		return "1"
	default:
		return "0"
	}
}

// Compile returns one step per preference key in the profile.
func Compile(profile *config.Profile, runner ports.CommandRunner) []step.Step {
	steps := make([]step.Step, 0, len(profile.MacOS.Defaults))
	for _, d := range profile.MacOS.Defaults {
		steps = append(steps, NewDefaultsStep(d, runner))
	}
	return steps
}
