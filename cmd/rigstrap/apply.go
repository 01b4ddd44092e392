package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rigstrap/rigstrap/internal/app"
)

func init() {
	flags := &groupFlags{}
	var dryRun bool
	var summaryFile string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the profile to this workstation",
		Long:  "Apply plans the enabled steps and executes them in dependency order.\nSteps whose state already matches the profile are left untouched; a\nstep failure skips its dependents and the run continues.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := app.New(os.Stdout, flags.appOptions()...)
			_, err := r.Apply(cmd.Context(), app.RunOptions{
				ProfilePath: flags.profilePath,
				Selection:   flags.selection(),
				DryRun:      dryRun,
				SummaryFile: summaryFile,
			})
			return err
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without applying")
	cmd.Flags().StringVar(&summaryFile, "summary-file", "", "write the run report to this file")

	rootCmd.AddCommand(cmd)
}
