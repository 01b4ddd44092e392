// Package app wires adapters, providers, and the execution engine into
// the rigstrap application used by the command-line interface.
package app

import (
	"context"
	"fmt"
	"io"
	goruntime "runtime"

	"github.com/rigstrap/rigstrap/internal/adapters/command"
	"github.com/rigstrap/rigstrap/internal/adapters/filesystem"
	"github.com/rigstrap/rigstrap/internal/adapters/logging"
	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/execution"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
	"github.com/rigstrap/rigstrap/internal/provider/git"
	"github.com/rigstrap/rigstrap/internal/provider/homebrew"
	"github.com/rigstrap/rigstrap/internal/provider/macos"
	"github.com/rigstrap/rigstrap/internal/provider/prompt"
	runtimeprov "github.com/rigstrap/rigstrap/internal/provider/runtime"
	"github.com/rigstrap/rigstrap/internal/provider/shellcfg"
	"github.com/rigstrap/rigstrap/internal/provider/ssh"
)

// PreconditionError indicates the host cannot be provisioned at all.
// Nothing runs when one is returned.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return "precondition failed: " + e.Reason
}

// RunOptions configures one plan or apply run.
type RunOptions struct {
	ProfilePath string
	Selection   config.Selection
	DryRun      bool
	SummaryFile string
}

// Rigstrap is the application facade: it loads the profile, compiles
// provider steps into a graph, and plans or applies the result.
type Rigstrap struct {
	out    io.Writer
	fs     ports.FileSystem
	runner ports.CommandRunner
	logger ports.Logger
	store  *dotfile.Store
	goos   string
}

// Option configures a Rigstrap instance.
type Option func(*Rigstrap)

// WithFileSystem replaces the filesystem adapter.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(r *Rigstrap) { r.fs = fs }
}

// WithRunner replaces the command runner adapter.
func WithRunner(runner ports.CommandRunner) Option {
	return func(r *Rigstrap) { r.runner = runner }
}

// WithLogger replaces the logger.
func WithLogger(logger ports.Logger) Option {
	return func(r *Rigstrap) { r.logger = logger }
}

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) Option {
	return func(r *Rigstrap) { r.goos = goos }
}

// New creates a Rigstrap writing human-readable output to out.
func New(out io.Writer, opts ...Option) *Rigstrap {
	r := &Rigstrap{
		out:    out,
		fs:     filesystem.NewRealFileSystem(),
		runner: command.NewRealRunner(),
		logger: logging.NewNopLogger(),
		goos:   goruntime.GOOS,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.store = dotfile.NewStore(r.fs)
	return r
}

// CheckPreconditions verifies the host can be provisioned.
func (r *Rigstrap) CheckPreconditions() error {
	if r.goos != "darwin" {
		return &PreconditionError{Reason: fmt.Sprintf("rigstrap provisions macOS only, running on %s", r.goos)}
	}
	return nil
}

// Plan resolves the execution plan without applying anything and
// prints it.
func (r *Rigstrap) Plan(ctx context.Context, opts RunOptions) (*execution.Plan, error) {
	plan, _, err := r.plan(opts)
	if err != nil {
		return nil, err
	}
	r.printPlan(ctx, plan, opts.Selection)
	return plan, nil
}

// Apply plans and executes the run, prints the results, and writes the
// summary file when one was requested. A failed Homebrew bootstrap is
// fatal; any other step failure is reported but does not error.
func (r *Rigstrap) Apply(ctx context.Context, opts RunOptions) (*execution.Report, error) {
	if err := r.CheckPreconditions(); err != nil {
		return nil, err
	}

	plan, _, err := r.plan(opts)
	if err != nil {
		return nil, err
	}

	executor := execution.NewExecutor().
		WithDryRun(opts.DryRun).
		WithLogger(r.logger)

	report := executor.Execute(ctx, plan)
	r.printReport(report)

	if opts.SummaryFile != "" {
		if err := r.writeSummary(opts.SummaryFile, report); err != nil {
			return report, err
		}
	}

	for _, result := range report.Results() {
		if result.StepID().Equals(homebrew.InstallID) && result.Status() == step.StatusFailed {
			return report, fmt.Errorf("homebrew bootstrap failed: %w", result.Error())
		}
	}

	return report, nil
}

// plan loads the profile, compiles providers, and resolves order.
func (r *Rigstrap) plan(opts RunOptions) (*execution.Plan, *config.Profile, error) {
	profile, err := config.Load(r.fs, ports.ExpandPath(opts.ProfilePath))
	if err != nil {
		return nil, nil, err
	}

	graph, err := r.buildGraph(profile, opts.Selection)
	if err != nil {
		return nil, nil, err
	}

	plan, err := execution.NewPlanner().Plan(graph, opts.Selection.StepEnabled)
	if err != nil {
		return nil, nil, err
	}
	return plan, profile, nil
}

// buildGraph registers every provider's steps, providers in fixed
// order, steps in provider order. Registration order breaks ties in
// the resolved plan, so runs are deterministic.
func (r *Rigstrap) buildGraph(profile *config.Profile, sel config.Selection) (*step.Graph, error) {
	var steps []step.Step
	steps = append(steps, homebrew.NewProvider(r.runner, r.fs, r.store).Compile(profile, sel)...)
	steps = append(steps, shellcfg.Compile(profile, r.store)...)
	steps = append(steps, runtimeprov.Compile(profile, r.runner, r.store)...)
	steps = append(steps, macos.Compile(profile, r.runner)...)
	steps = append(steps, git.Compile(profile, r.fs)...)
	steps = append(steps, ssh.Compile(profile, r.runner, r.fs, r.store)...)
	steps = append(steps, prompt.Compile(profile, r.runner, r.fs, r.store)...)

	graph := step.NewGraph()
	for _, s := range steps {
		if err := graph.Add(s); err != nil {
			return nil, fmt.Errorf("register step %s: %w", s.ID().String(), err)
		}
	}
	return graph, nil
}
