package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rigstrap/rigstrap/internal/adapters/logging"
	"github.com/rigstrap/rigstrap/internal/app"
	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// groupFlags is the set of selection flags shared by apply and plan.
type groupFlags struct {
	profilePath   string
	all           bool
	shell         bool
	runtimes      bool
	macosDefaults bool
	git           bool
	ssh           bool
	prompt        bool
	extraPackages bool
	verbose       bool
}

func (f *groupFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profilePath, "config", "c", "~/.config/rigstrap/rigstrap.yaml", "path to the profile")
	cmd.Flags().BoolVar(&f.all, "all", false, "enable every optional group")
	cmd.Flags().BoolVar(&f.shell, "shell", false, "write shell env and alias blocks")
	cmd.Flags().BoolVar(&f.runtimes, "runtimes", false, "install language runtimes")
	cmd.Flags().BoolVar(&f.macosDefaults, "macos-defaults", false, "apply macOS system defaults")
	cmd.Flags().BoolVar(&f.git, "git", false, "configure git identity and aliases")
	cmd.Flags().BoolVar(&f.ssh, "ssh", false, "generate ssh key and host config")
	cmd.Flags().BoolVar(&f.prompt, "prompt", false, "install and configure the starship prompt")
	cmd.Flags().BoolVar(&f.extraPackages, "extra-packages", false, "install extra packages")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "verbose step logging")
}

func (f *groupFlags) selection() config.Selection {
	sel := config.NewSelection()
	if f.all {
		return sel.WithAll()
	}

	for flag, group := range map[*bool]config.Group{
		&f.shell:         config.GroupShell,
		&f.runtimes:      config.GroupRuntimes,
		&f.macosDefaults: config.GroupMacOSDefaults,
		&f.git:           config.GroupGit,
		&f.ssh:           config.GroupSSH,
		&f.prompt:        config.GroupPrompt,
		&f.extraPackages: config.GroupExtraPackages,
	} {
		if *flag {
			sel = sel.WithGroup(group)
		}
	}
	return sel
}

func (f *groupFlags) appOptions() []app.Option {
	if !f.verbose {
		return nil
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(ports.LevelDebug),
		logging.WithTimestamp(false),
	)
	return []app.Option{app.WithLogger(logger)}
}
