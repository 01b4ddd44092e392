package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rigstrap/rigstrap/internal/app"
)

func init() {
	flags := &groupFlags{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would do, without changing anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := app.New(os.Stdout, flags.appOptions()...)
			_, err := r.Plan(cmd.Context(), app.RunOptions{
				ProfilePath: flags.profilePath,
				Selection:   flags.selection(),
			})
			return err
		},
	}

	flags.register(cmd)
	rootCmd.AddCommand(cmd)
}
