package step

import (
	"errors"
	"fmt"
)

// Errors for Graph operations.
var (
	ErrDuplicateStep    = errors.New("step with this ID already exists")
	ErrCyclicDependency = errors.New("cyclic dependency detected")
	ErrMissingDep       = errors.New("step depends on nonexistent step")
)

// Graph is a registration-ordered registry of steps with declared
// dependencies. Registration order is preserved so that execution order
// is reproducible run to run: ties between independent steps are always
// broken by the order in which they were registered.
type Graph struct {
	steps     map[string]Step
	order     []string            // IDs in registration order
	dependsOn map[string][]string // step ID -> dependency IDs
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		steps:     make(map[string]Step),
		dependsOn: make(map[string][]string),
	}
}

// Len returns the number of registered steps.
func (g *Graph) Len() int {
	return len(g.steps)
}

// Add registers a step.
// Returns ErrDuplicateStep if a step with the same ID already exists.
func (g *Graph) Add(s Step) error {
	id := s.ID().String()

	if _, exists := g.steps[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateStep, id)
	}

	g.steps[id] = s
	g.order = append(g.order, id)

	deps := s.DependsOn()
	depIDs := make([]string, len(deps))
	for i, dep := range deps {
		depIDs[i] = dep.String()
	}
	g.dependsOn[id] = depIDs

	return nil
}

// Get retrieves a step by ID.
func (g *Graph) Get(id ID) (Step, bool) {
	s, ok := g.steps[id.String()]
	return s, ok
}

// Steps returns all steps in registration order.
func (g *Graph) Steps() []Step {
	steps := make([]Step, 0, len(g.order))
	for _, id := range g.order {
		steps = append(steps, g.steps[id])
	}
	return steps
}

// Validate checks that all declared dependencies exist and that the
// graph is acyclic. It must pass before anything executes: a cycle or a
// missing dependency is fatal to the whole run.
func (g *Graph) Validate() error {
	for _, id := range g.order {
		for _, depID := range g.dependsOn[id] {
			if _, exists := g.steps[depID]; !exists {
				return fmt.Errorf("%w: step %q depends on %q", ErrMissingDep, id, depID)
			}
		}
	}
	return g.detectCycle()
}

// detectCycle walks the dependency graph depth-first, marking the
// recursion stack; revisiting a node already on the stack is a cycle.
func (g *Graph) detectCycle() error {
	const (
		unvisited = 0
		onStack   = 1
		done      = 2
	)
	state := make(map[string]int, len(g.steps))

	var visit func(id string) error
	visit = func(id string) error {
		switch state[id] {
		case onStack:
			return fmt.Errorf("%w: involving step %q", ErrCyclicDependency, id)
		case done:
			return nil
		}

		state[id] = onStack
		for _, depID := range g.dependsOn[id] {
			if _, exists := g.steps[depID]; !exists {
				continue
			}
			if err := visit(depID); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for _, id := range g.order {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

// Sort returns steps in dependency order. Steps with no unresolved
// dependencies come first; ties are broken by registration order.
// Returns ErrCyclicDependency if the graph contains a cycle.
func (g *Graph) Sort() ([]Step, error) {
	resolved := make(map[string]bool, len(g.steps))
	sorted := make([]Step, 0, len(g.steps))

	for len(sorted) < len(g.steps) {
		progressed := false

		for _, id := range g.order {
			if resolved[id] {
				continue
			}
			ready := true
			for _, depID := range g.dependsOn[id] {
				if _, exists := g.steps[depID]; !exists {
					continue
				}
				if !resolved[depID] {
					ready = false
					break
				}
			}
			if ready {
				resolved[id] = true
				sorted = append(sorted, g.steps[id])
				progressed = true
			}
		}

		if !progressed {
			return nil, ErrCyclicDependency
		}
	}

	return sorted, nil
}
