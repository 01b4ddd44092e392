// Package command provides command execution adapters.
package command

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rigstrap/rigstrap/internal/ports"
)

// RealRunner executes actual external commands.
type RealRunner struct{}

// NewRealRunner creates a new RealRunner.
func NewRealRunner() *RealRunner {
	return &RealRunner{}
}

// Run executes a command and returns the result.
func (r *RealRunner) Run(ctx context.Context, command string, args ...string) (ports.CommandResult, error) {
	return r.RunEnv(ctx, nil, command, args...)
}

// RunEnv executes a command with extra environment entries appended to
// the inherited environment. When the entries override PATH, the
// command is resolved against that PATH: exec looks programs up in the
// parent's PATH, so a binary installed into an overridden directory
// mid-run would otherwise not be found.
func (r *RealRunner) RunEnv(ctx context.Context, env []string, command string, args ...string) (ports.CommandResult, error) {
	if path, ok := pathFromEnv(env); ok && !strings.Contains(command, "/") {
		if resolved, ok := lookPath(command, path); ok {
			command = resolved
		}
	}

	cmd := exec.CommandContext(ctx, command, args...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := ports.CommandResult{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, err
	}

	return result, nil
}

// IsNotFound reports whether err indicates the binary was absent from PATH.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// pathFromEnv returns the value of the last PATH entry in env.
func pathFromEnv(env []string) (string, bool) {
	path := ""
	for _, entry := range env {
		if v, ok := strings.CutPrefix(entry, "PATH="); ok {
			path = v
		}
	}
	return path, path != ""
}

// lookPath searches the given PATH for an executable regular file.
// Unlike exec.LookPath it ignores the process environment entirely.
func lookPath(file, path string) (string, bool) {
	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, file)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode().Perm()&0o111 != 0 {
			return candidate, true
		}
	}
	return "", false
}

// Ensure RealRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*RealRunner)(nil)
