// Package execution handles step orchestration: turning a validated
// step graph into an ordered plan and running it with isolated failure
// handling.
package execution

import (
	"fmt"

	"github.com/rigstrap/rigstrap/internal/domain/step"
)

// PlanEntry is a single step in execution order, together with whether
// the configuration enabled it for this run.
type PlanEntry struct {
	step    step.Step
	enabled bool
}

// Step returns the step to be executed.
func (e PlanEntry) Step() step.Step {
	return e.step
}

// Enabled returns whether the step is enabled for this run.
func (e PlanEntry) Enabled() bool {
	return e.enabled
}

// Plan is the resolved, ordered execution plan for one run.
// It contains every registered step, enabled or not, so the final
// report covers the full registry.
type Plan struct {
	entries []PlanEntry
}

// Entries returns all plan entries in execution order.
func (p *Plan) Entries() []PlanEntry {
	return p.entries
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	return len(p.entries)
}

// EnabledCount returns how many entries are enabled.
func (p *Plan) EnabledCount() int {
	n := 0
	for _, e := range p.entries {
		if e.enabled {
			n++
		}
	}
	return n
}

// Planner turns a step graph into an ordered Plan.
type Planner struct{}

// NewPlanner creates a new Planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// Plan validates the graph and resolves execution order. The enabled
// predicate reports whether configuration flags enabled a given step;
// disabled steps stay in the plan so they appear in the report as
// skipped. Validation failures (cycle, missing dependency) are fatal:
// nothing executes.
func (p *Planner) Plan(graph *step.Graph, enabled func(step.ID) bool) (*Plan, error) {
	if err := graph.Validate(); err != nil {
		return nil, fmt.Errorf("invalid step graph: %w", err)
	}

	sorted, err := graph.Sort()
	if err != nil {
		return nil, fmt.Errorf("resolve step order: %w", err)
	}

	entries := make([]PlanEntry, 0, len(sorted))
	for _, s := range sorted {
		entries = append(entries, PlanEntry{
			step:    s,
			enabled: enabled(s.ID()),
		})
	}

	return &Plan{entries: entries}, nil
}
