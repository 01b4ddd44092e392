package execution

import (
	"time"

	"github.com/google/uuid"

	"github.com/rigstrap/rigstrap/internal/domain/step"
)

// Result captures the outcome of one step.
type Result struct {
	stepID   step.ID
	status   step.Status
	reason   string
	err      error
	duration time.Duration
}

// NewResult creates a Result for a step that ran (or failed).
func NewResult(stepID step.ID, status step.Status, err error) Result {
	return Result{stepID: stepID, status: status, err: err}
}

// NewSkippedResult creates a Result for a step that was not executed.
func NewSkippedResult(stepID step.ID, reason string) Result {
	return Result{stepID: stepID, status: step.StatusSkipped, reason: reason}
}

// StepID returns the ID of the step this result belongs to.
func (r Result) StepID() step.ID {
	return r.stepID
}

// Status returns the final status of the step.
func (r Result) Status() step.Status {
	return r.status
}

// Reason returns why the step was skipped, if it was.
func (r Result) Reason() string {
	return r.reason
}

// Error returns the error that failed the step, if any.
func (r Result) Error() error {
	return r.err
}

// Duration returns how long the step's apply took.
func (r Result) Duration() time.Duration {
	return r.duration
}

// WithDuration returns a copy of the result with duration set.
func (r Result) WithDuration(d time.Duration) Result {
	r.duration = d
	return r
}

// Summary aggregates result counts for a run.
type Summary struct {
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
}

// Report is the ordered record of one run: exactly one entry per
// registered step, in execution order.
type Report struct {
	runID      string
	startedAt  time.Time
	finishedAt time.Time
	results    []Result
}

// NewReport creates an empty report with a fresh run ID.
func NewReport() *Report {
	return &Report{
		runID:     uuid.NewString(),
		startedAt: time.Now().UTC(),
	}
}

// RunID returns the unique identifier of this run.
func (r *Report) RunID() string {
	return r.runID
}

// StartedAt returns when the run began.
func (r *Report) StartedAt() time.Time {
	return r.startedAt
}

// FinishedAt returns when the run completed.
func (r *Report) FinishedAt() time.Time {
	return r.finishedAt
}

// Add appends a step result.
func (r *Report) Add(result Result) {
	r.results = append(r.results, result)
}

// Finish stamps the completion time.
func (r *Report) Finish() {
	r.finishedAt = time.Now().UTC()
}

// Results returns all results in execution order.
func (r *Report) Results() []Result {
	return r.results
}

// Summary returns aggregate counts.
func (r *Report) Summary() Summary {
	s := Summary{Total: len(r.results)}
	for _, res := range r.results {
		switch {
		case res.status.Ok():
			s.Succeeded++
		case res.status == step.StatusSkipped:
			s.Skipped++
		case res.status == step.StatusFailed:
			s.Failed++
		}
	}
	return s
}

// HasFailures returns true if any step failed.
func (r *Report) HasFailures() bool {
	for _, res := range r.results {
		if res.status == step.StatusFailed {
			return true
		}
	}
	return false
}
