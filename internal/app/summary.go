package app

import (
	"fmt"
	"strings"

	"github.com/rigstrap/rigstrap/internal/domain/execution"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// writeSummary renders the run report to a plain-text file. An existing
// summary at the same path is backed up first.
func (r *Rigstrap) writeSummary(path string, report *execution.Report) error {
	path = ports.ExpandPath(path)
	if _, err := r.store.BackupIfExists(path); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run: %s\n", report.RunID())
	fmt.Fprintf(&b, "started: %s\n", report.StartedAt().Format("2006-01-02T15:04:05Z"))
	fmt.Fprintf(&b, "finished: %s\n", report.FinishedAt().Format("2006-01-02T15:04:05Z"))

	s := report.Summary()
	fmt.Fprintf(&b, "summary: %d total, %d succeeded, %d skipped, %d failed\n\n", s.Total, s.Succeeded, s.Skipped, s.Failed)

	for _, result := range report.Results() {
		fmt.Fprintf(&b, "%-10s %s", result.Status().String(), result.StepID().String())
		switch {
		case result.Status() == step.StatusFailed:
			fmt.Fprintf(&b, " (%s)", result.Error().Error())
		case result.Reason() != "":
			fmt.Fprintf(&b, " (%s)", result.Reason())
		}
		b.WriteString("\n")
	}

	if err := r.fs.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write summary %s: %w", path, err)
	}
	return nil
}
