package homebrew

import (
	"fmt"
	"os"
	"strings"

	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// Homebrew's bin directory on Apple Silicon. Recorded in the run's
// environment set so later steps find a freshly bootstrapped brew.
const brewBinDir = "/opt/homebrew/bin"

const installScriptURL = "https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh"

// InstallID identifies the bootstrap step every package install depends on.
var InstallID = step.MustNewID("homebrew:install")

// InstallStep bootstraps Homebrew itself. It always runs; its failure
// is treated as an unrecoverable precondition by the application.
type InstallStep struct {
	runner ports.CommandRunner
}

// NewInstallStep creates the Homebrew bootstrap step.
func NewInstallStep(runner ports.CommandRunner) *InstallStep {
	return &InstallStep{runner: runner}
}

// ID returns the step identifier.
func (s *InstallStep) ID() step.ID {
	return InstallID
}

// DependsOn returns the step dependencies.
func (s *InstallStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *InstallStep) Summary() string {
	return "Bootstrap the Homebrew package manager"
}

// Check probes for an existing brew binary.
func (s *InstallStep) Check(ctx step.RunContext) (step.Status, error) {
	result, err := s.runner.Run(ctx.Context(), "brew", "--version")
	if err != nil {
		// brew absent from PATH; bootstrap needed.
		return step.StatusNeedsApply, nil
	}
	if result.Success() {
		ctx.Env().PrependPath(brewBinDir)
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply runs the official install script non-interactively.
func (s *InstallStep) Apply(ctx step.RunContext) error {
	script := fmt.Sprintf(`/bin/bash -c "$(curl -fsSL %s)"`, installScriptURL)
	result, err := s.runner.RunEnv(ctx.Context(), []string{"NONINTERACTIVE=1"}, "/bin/bash", "-c", script)
	if err != nil {
		return fmt.Errorf("run homebrew installer: %w", err)
	}
	if !result.Success() {
		return fmt.Errorf("homebrew installer exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}

	ctx.Env().PrependPath(brewBinDir)
	return nil
}

// FormulaStep installs one Homebrew formula.
type FormulaStep struct {
	formula string
	id      step.ID
	runner  ports.CommandRunner
}

// NewFormulaStep creates an install step for a core formula.
func NewFormulaStep(formula string, runner ports.CommandRunner) *FormulaStep {
	return &FormulaStep{
		formula: formula,
		id:      step.MustNewID("homebrew:formula:" + formula),
		runner:  runner,
	}
}

// NewExtraFormulaStep creates an install step for a flag-gated extra formula.
func NewExtraFormulaStep(formula string, runner ports.CommandRunner) *FormulaStep {
	return &FormulaStep{
		formula: formula,
		id:      step.MustNewID("homebrew-extra:formula:" + formula),
		runner:  runner,
	}
}

// ID returns the step identifier.
func (s *FormulaStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *FormulaStep) DependsOn() []step.ID {
	return []step.ID{InstallID}
}

// Summary describes the step.
func (s *FormulaStep) Summary() string {
	return fmt.Sprintf("Install formula %s", s.formula)
}

// Check determines if the formula is already installed.
func (s *FormulaStep) Check(ctx step.RunContext) (step.Status, error) {
	installed, err := listInstalled(ctx, s.runner, "--formula")
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if installed[s.formula] {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply installs the formula.
func (s *FormulaStep) Apply(ctx step.RunContext) error {
	return runBrew(ctx, s.runner, "install", s.formula)
}

// CaskStep installs one Homebrew cask.
type CaskStep struct {
	cask   string
	id     step.ID
	runner ports.CommandRunner
}

// NewCaskStep creates an install step for a core cask.
func NewCaskStep(cask string, runner ports.CommandRunner) *CaskStep {
	return &CaskStep{
		cask:   cask,
		id:     step.MustNewID("homebrew:cask:" + cask),
		runner: runner,
	}
}

// NewExtraCaskStep creates an install step for a flag-gated extra cask.
func NewExtraCaskStep(cask string, runner ports.CommandRunner) *CaskStep {
	return &CaskStep{
		cask:   cask,
		id:     step.MustNewID("homebrew-extra:cask:" + cask),
		runner: runner,
	}
}

// ID returns the step identifier.
func (s *CaskStep) ID() step.ID {
	return s.id
}

// DependsOn returns the step dependencies.
func (s *CaskStep) DependsOn() []step.ID {
	return []step.ID{InstallID}
}

// Summary describes the step.
func (s *CaskStep) Summary() string {
	return fmt.Sprintf("Install cask %s", s.cask)
}

// Check determines if the cask is already installed.
func (s *CaskStep) Check(ctx step.RunContext) (step.Status, error) {
	installed, err := listInstalled(ctx, s.runner, "--cask")
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if installed[s.cask] {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

// Apply installs the cask.
func (s *CaskStep) Apply(ctx step.RunContext) error {
	return runBrew(ctx, s.runner, "install", "--cask", s.cask)
}

// listInstalled returns the set of installed formulae or casks.
func listInstalled(ctx step.RunContext, runner ports.CommandRunner, kind string) (map[string]bool, error) {
	result, err := runner.RunEnv(ctx.Context(), pathEnv(ctx), "brew", "list", kind)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, fmt.Errorf("brew list %s failed: %s", kind, strings.TrimSpace(result.Stderr))
	}

	installed := make(map[string]bool)
	for _, line := range strings.Split(result.Stdout, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			installed[name] = true
		}
	}
	return installed, nil
}

// runBrew runs a brew subcommand, surfacing stderr on failure.
func runBrew(ctx step.RunContext, runner ports.CommandRunner, args ...string) error {
	result, err := runner.RunEnv(ctx.Context(), pathEnv(ctx), "brew", args...)
	if err != nil {
		return fmt.Errorf("brew %s: %w", args[0], err)
	}
	if !result.Success() {
		return fmt.Errorf("brew %s failed: %s", strings.Join(args, " "), strings.TrimSpace(result.Stderr))
	}
	return nil
}

// pathEnv builds a PATH override including directories recorded by
// earlier steps, so a brew bootstrapped this run is found even when the
// parent process started without it.
func pathEnv(ctx step.RunContext) []string {
	entries := ctx.Env().PathEntries()
	if len(entries) == 0 {
		return nil
	}
	return []string{"PATH=" + strings.Join(entries, ":") + ":" + os.Getenv("PATH")}
}
