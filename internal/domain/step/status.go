package step

// Status represents the current state of a step.
type Status string

const (
	// StatusPending indicates the step has not run yet.
	StatusPending Status = "pending"
	// StatusSatisfied indicates the step's desired state is already met.
	StatusSatisfied Status = "satisfied"
	// StatusNeedsApply indicates the step needs to be applied.
	StatusNeedsApply Status = "needs-apply"
	// StatusSucceeded indicates the step's apply completed without error.
	StatusSucceeded Status = "succeeded"
	// StatusFailed indicates the step failed during check or apply.
	StatusFailed Status = "failed"
	// StatusSkipped indicates the step was not executed (disabled, or a
	// dependency failed or was skipped).
	StatusSkipped Status = "skipped"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if this status represents a final state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusSatisfied, StatusSucceeded, StatusFailed, StatusSkipped:
		return true
	case StatusPending, StatusNeedsApply:
		return false
	}
	return false
}

// Ok returns true if the step ended without failing: it succeeded, or
// was already satisfied.
func (s Status) Ok() bool {
	return s == StatusSatisfied || s == StatusSucceeded
}
