package step

import "context"

// RunContext provides context for step execution (Check, Apply).
// It carries the process context, the dry-run flag, and the accumulated
// environment mutations for this run.
type RunContext struct {
	ctx    context.Context
	dryRun bool
	env    *EnvSet
}

// NewRunContext creates a new RunContext with the given context.
func NewRunContext(ctx context.Context) RunContext {
	return RunContext{
		ctx: ctx,
		env: NewEnvSet(),
	}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// DryRun returns whether this is a dry-run execution.
func (r RunContext) DryRun() bool {
	return r.dryRun
}

// WithDryRun returns a new RunContext with the dry-run flag set.
func (r RunContext) WithDryRun(dryRun bool) RunContext {
	r.dryRun = dryRun
	return r
}

// Env returns the environment mutation set shared by all steps in a run.
func (r RunContext) Env() *EnvSet {
	return r.env
}

// WithEnv returns a new RunContext carrying the given environment set.
func (r RunContext) WithEnv(env *EnvSet) RunContext {
	r.env = env
	return r
}
