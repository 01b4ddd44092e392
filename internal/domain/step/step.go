// Package step defines the unit of provisioning work and the dependency
// graph that orders units for execution.
package step

// Step represents one idempotent unit of provisioning work.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() ID

	// DependsOn returns the IDs of steps that must complete before this one.
	DependsOn() []ID

	// Check determines the current status of this step.
	// Returns StatusSatisfied if no action is needed, StatusNeedsApply
	// if changes are required.
	Check(ctx RunContext) (Status, error)

	// Apply executes the step's changes. Running Apply multiple times
	// must produce the same end state.
	Apply(ctx RunContext) error

	// Summary returns a short human-readable description of the step.
	Summary() string
}
