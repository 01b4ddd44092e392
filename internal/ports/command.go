// Package ports defines interfaces for external dependencies.
package ports

import (
	"context"
)

// CommandResult represents the result of executing an external command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records a command invocation.
type CommandCall struct {
	Command string
	Args    []string
	Env     []string
}

// CommandRunner executes external commands. Steps never interpret a
// collaborator's internals, only its exit code and output.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)

	// RunEnv runs a command with extra environment entries (KEY=value)
	// appended to the inherited environment.
	RunEnv(ctx context.Context, env []string, command string, args ...string) (CommandResult, error)
}
