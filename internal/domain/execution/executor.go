package execution

import (
	"context"
	"fmt"
	"time"

	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// Skip reasons surfaced in the report.
const (
	ReasonDisabled    = "disabled by flags"
	ReasonDepFailed   = "dependency failed"
	ReasonDepSkipped  = "dependency skipped"
	ReasonRunCanceled = "run canceled"
	ReasonDryRun      = "dry run"
)

// Executor runs a Plan strictly one step at a time, in plan order.
// One step's failure never aborts independent steps; dependents of a
// failed or skipped step are skipped rather than executed against a
// half-configured system. Cancellation is honored between steps only;
// a step already running completes (or fails) before the run stops.
type Executor struct {
	dryRun bool
	logger ports.Logger
}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithDryRun returns an Executor that reports what would happen without
// applying anything.
func (e *Executor) WithDryRun(dryRun bool) *Executor {
	return &Executor{dryRun: dryRun, logger: e.logger}
}

// WithLogger returns an Executor that emits per-step log entries.
func (e *Executor) WithLogger(logger ports.Logger) *Executor {
	return &Executor{dryRun: e.dryRun, logger: logger}
}

// Execute runs all plan entries in order and returns the completed
// report: exactly one result per registered step.
func (e *Executor) Execute(ctx context.Context, plan *Plan) *Report {
	report := NewReport()
	terminal := make(map[string]step.Status, plan.Len())

	runCtx := step.NewRunContext(ctx).WithDryRun(e.dryRun)

	canceled := false
	for _, entry := range plan.Entries() {
		if !canceled {
			select {
			case <-ctx.Done():
				canceled = true
			default:
			}
		}

		var result Result
		switch {
		case canceled:
			result = NewSkippedResult(entry.Step().ID(), ReasonRunCanceled)
		default:
			result = e.executeEntry(entry, runCtx, terminal)
		}

		terminal[entry.Step().ID().String()] = result.Status()
		report.Add(result)
		e.logResult(ctx, result)
	}

	report.Finish()
	return report
}

// executeEntry runs a single plan entry through the step state machine:
// Pending -> {Skipped | Running -> {Succeeded | Failed}}.
func (e *Executor) executeEntry(entry PlanEntry, runCtx step.RunContext, terminal map[string]step.Status) Result {
	s := entry.Step()
	id := s.ID()

	if !entry.Enabled() {
		return NewSkippedResult(id, ReasonDisabled)
	}

	for _, depID := range s.DependsOn() {
		switch terminal[depID.String()] {
		case step.StatusFailed:
			return NewSkippedResult(id, fmt.Sprintf("%s: %s", ReasonDepFailed, depID.String()))
		case step.StatusSkipped:
			return NewSkippedResult(id, fmt.Sprintf("%s: %s", ReasonDepSkipped, depID.String()))
		}
	}

	status, err := s.Check(runCtx)
	if err != nil {
		return NewResult(id, step.StatusFailed, fmt.Errorf("check: %w", err))
	}
	if status == step.StatusSatisfied {
		return NewResult(id, step.StatusSatisfied, nil)
	}

	if runCtx.DryRun() {
		return NewSkippedResult(id, ReasonDryRun)
	}

	start := time.Now()
	if err := s.Apply(runCtx); err != nil {
		return NewResult(id, step.StatusFailed, err).WithDuration(time.Since(start))
	}

	return NewResult(id, step.StatusSucceeded, nil).WithDuration(time.Since(start))
}

func (e *Executor) logResult(ctx context.Context, result Result) {
	if e.logger == nil {
		return
	}

	fields := []ports.Field{
		ports.F("step", result.StepID().String()),
		ports.F("status", result.Status().String()),
	}
	if result.Reason() != "" {
		fields = append(fields, ports.F("reason", result.Reason()))
	}

	switch result.Status() {
	case step.StatusFailed:
		fields = append(fields, ports.F("error", result.Error()))
		e.logger.Error(ctx, "step failed", fields...)
	case step.StatusSkipped:
		e.logger.Info(ctx, "step skipped", fields...)
	default:
		e.logger.Info(ctx, "step completed", fields...)
	}
}
