// Package runtime installs language toolchains through Homebrew and
// wires their bin directories onto PATH.
package runtime

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
	"github.com/rigstrap/rigstrap/internal/provider/homebrew"
)

// InstallStep installs one toolchain formula, upgrading when an
// installed version is older than the profile's minimum.
type InstallStep struct {
	rt     config.Runtime
	runner ports.CommandRunner
}

// NewInstallStep creates a toolchain install step.
func NewInstallStep(rt config.Runtime, runner ports.CommandRunner) *InstallStep {
	return &InstallStep{rt: rt, runner: runner}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.ID {
	return step.MustNewID("runtime:install:" + s.rt.Name)
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []step.ID {
	return []step.ID{homebrew.InstallID}
}

// Summary describes the step.
func (s *InstallStep) Summary() string {
	if s.rt.MinVersion != "" {
		return fmt.Sprintf("Install %s (>= %s)", s.rt.Name, s.rt.MinVersion)
	}
	return fmt.Sprintf("Install %s", s.rt.Name)
}

// Check reports Satisfied when the formula is installed and meets the
// minimum version, if one is declared.
func (s *InstallStep) Check(ctx step.RunContext) (step.Status, error) {
	version, installed, err := s.installedVersion(ctx)
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if !installed {
		return step.StatusNeedsApply, nil
	}
	if s.rt.MinVersion != "" && belowMinimum(version, s.rt.MinVersion) {
		return step.StatusNeedsApply, nil
	}
	return step.StatusSatisfied, nil
}

// belowMinimum compares a brew version against the profile's minimum.
// Brew appends a bottle revision ("1.22.4_1") that is not valid semver;
// the suffix is stripped before comparing. A version that still does
// not parse is treated as meeting the minimum, since re-upgrading on
// every run is worse than skipping an uncheckable constraint.
func belowMinimum(version, min string) bool {
	v := "v" + strings.SplitN(version, "_", 2)[0]
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, "v"+min) < 0
}

// Apply installs the formula, or upgrades it when an older version is
// already present.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	_, installed, err := s.installedVersion(ctx)
	if err != nil {
		return err
	}

	verb := "install"
	if installed {
		verb = "upgrade"
	}

	result, err := s.runner.RunEnv(ctx.Context(), pathEnv(ctx), "brew", verb, s.rt.Formula)
	if err != nil {
		return fmt.Errorf("brew %s %s: %w", verb, s.rt.Formula, err)
	}
	if !result.Success() {
		return fmt.Errorf("brew %s %s failed: %s", verb, s.rt.Formula, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// installedVersion probes brew for the formula's installed version.
// A nonzero exit means the formula is not installed.
func (s *InstallStep) installedVersion(ctx step.RunContext) (string, bool, error) {
	result, err := s.runner.RunEnv(ctx.Context(), pathEnv(ctx), "brew", "list", "--versions", s.rt.Formula)
	if err != nil {
		return "", false, fmt.Errorf("brew list --versions %s: %w", s.rt.Formula, err)
	}
	if !result.Success() {
		return "", false, nil
	}

	// Output is "<formula> <version> [<version>...]".
	fields := strings.Fields(result.Stdout)
	if len(fields) < 2 {
		return "", false, nil
	}
	return fields[1], true, nil
}

// PathStep maintains the managed PATH block for one toolchain in the
// login shell file.
type PathStep struct {
	rt        config.Runtime
	loginFile string
	store     *dotfile.Store
}

// NewPathStep creates a PATH block step for a toolchain.
func NewPathStep(rt config.Runtime, loginFile string, store *dotfile.Store) *PathStep {
	return &PathStep{rt: rt, loginFile: loginFile, store: store}
}

// ID returns the step identifier.
func (s *PathStep) ID() step.ID {
	return step.MustNewID("runtime:path:" + s.rt.Name)
}

// DependsOn returns the step dependencies.
func (s *PathStep) DependsOn() []step.ID {
	return []step.ID{step.MustNewID("runtime:install:" + s.rt.Name)}
}

// Summary describes the step.
func (s *PathStep) Summary() string {
	return fmt.Sprintf("Add %s to PATH in %s", s.rt.BinDir, s.loginFile)
}

func (s *PathStep) blockName() string {
	return "path-" + s.rt.Name
}

func (s *PathStep) line() string {
	return fmt.Sprintf(`export PATH="%s:$PATH"`, ports.ExpandPath(s.rt.BinDir))
}

// Check reports Satisfied when the PATH block already holds the entry.
func (s *PathStep) Check(_ step.RunContext) (step.Status, error) {
	body, found, err := s.store.Read(ports.ExpandPath(s.loginFile), s.blockName())
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if found && body == s.line()+"\n" {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply writes the PATH block and records the prepend for this run.
func (s *PathStep) Apply(ctx step.RunContext) error {
	ctx.Env().PrependPath(ports.ExpandPath(s.rt.BinDir))
	return s.store.Upsert(ports.ExpandPath(s.loginFile), s.blockName(), []string{s.line()})
}

// Compile returns install and PATH steps for the profile's runtimes.
// Runtimes without a bin directory get no PATH step.
func Compile(profile *config.Profile, runner ports.CommandRunner, store *dotfile.Store) []step.Step {
	var steps []step.Step
	for _, rt := range profile.Runtimes {
		steps = append(steps, NewInstallStep(rt, runner))
		if rt.BinDir != "" {
			steps = append(steps, NewPathStep(rt, profile.Shell.LoginFile, store))
		}
	}
	return steps
}

func pathEnv(ctx step.RunContext) []string {
	entries := ctx.Env().PathEntries()
	if len(entries) == 0 {
		return nil
	}
	return []string{"PATH=" + strings.Join(entries, ":") + ":" + os.Getenv("PATH")}
}
