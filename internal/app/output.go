package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/execution"
	"github.com/rigstrap/rigstrap/internal/domain/step"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	reasonStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

func (r *Rigstrap) printPlan(_ context.Context, plan *execution.Plan, _ config.Selection) {
	fmt.Fprintln(r.out, titleStyle.Render("Plan"))
	for _, entry := range plan.Entries() {
		marker := pendingStyle.Render("run ")
		if !entry.Enabled() {
			marker = skipStyle.Render("skip")
		}
		fmt.Fprintf(r.out, "  %s  %-40s %s\n", marker, entry.Step().ID().String(), reasonStyle.Render(entry.Step().Summary()))
	}
	fmt.Fprintf(r.out, "\n%d of %d steps enabled\n", plan.EnabledCount(), plan.Len())
}

func (r *Rigstrap) printReport(report *execution.Report) {
	fmt.Fprintln(r.out, titleStyle.Render("Results"))
	for _, result := range report.Results() {
		fmt.Fprintf(r.out, "  %s  %-40s", statusLabel(result.Status()), result.StepID().String())
		switch {
		case result.Status() == step.StatusFailed:
			fmt.Fprintf(r.out, " %s", failStyle.Render(result.Error().Error()))
		case result.Reason() != "":
			fmt.Fprintf(r.out, " %s", reasonStyle.Render(result.Reason()))
		}
		fmt.Fprintln(r.out)
	}

	s := report.Summary()
	fmt.Fprintf(r.out, "\nrun %s: %d succeeded, %d skipped, %d failed\n",
		report.RunID(), s.Succeeded, s.Skipped, s.Failed)
}

func statusLabel(status step.Status) string {
	switch status {
	case step.StatusSucceeded, step.StatusSatisfied:
		return okStyle.Render("ok  ")
	case step.StatusFailed:
		return failStyle.Render("fail")
	case step.StatusSkipped:
		return skipStyle.Render("skip")
	default:
		return pendingStyle.Render(status.String())
	}
}
