package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Exit codes. Partial completion is not an error: a run where some
// steps failed still exits 0; the report carries the detail.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var rootCmd = &cobra.Command{
	Use:           "rigstrap",
	Short:         "Provision a macOS developer workstation",
	Long:          "rigstrap applies a declarative profile to a macOS workstation:\nHomebrew packages, shell configuration, language runtimes, system\ndefaults, git, ssh, and the starship prompt.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if isUsageError(err) {
			return exitUsage
		}
		return exitError
	}
	return exitOK
}

func isUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "unknown flag") ||
		strings.Contains(msg, "unknown shorthand flag") ||
		strings.Contains(msg, "unknown command") ||
		strings.Contains(msg, "invalid argument")
}
