package config

import (
	"github.com/rigstrap/rigstrap/internal/domain/step"
)

// Group names the optional step groups that flags can enable.
type Group string

// Optional step groups. Homebrew bootstrap, core package installs, and
// the Brewfile manifest are not in any group: they always run.
const (
	GroupShell         Group = "shell"
	GroupRuntimes      Group = "runtimes"
	GroupMacOSDefaults Group = "macos-defaults"
	GroupGit           Group = "git"
	GroupSSH           Group = "ssh"
	GroupPrompt        Group = "prompt"
	GroupExtraPackages Group = "extra-packages"
)

// Selection is the resolved set of enabled step groups for one run,
// derived from command-line flags. It replaces a bag of boolean
// globals with one structure mapped to step-enablement predicates.
type Selection struct {
	groups map[Group]bool
}

// NewSelection creates a Selection with only the always-run steps enabled.
func NewSelection() Selection {
	return Selection{groups: make(map[Group]bool)}
}

// WithAll returns a Selection with every optional group enabled.
func (s Selection) WithAll() Selection {
	for _, g := range []Group{
		GroupShell, GroupRuntimes, GroupMacOSDefaults,
		GroupGit, GroupSSH, GroupPrompt, GroupExtraPackages,
	} {
		s.groups[g] = true
	}
	return s
}

// WithGroup returns a Selection with one optional group enabled.
func (s Selection) WithGroup(g Group) Selection {
	s.groups[g] = true
	return s
}

// GroupEnabled reports whether a group was enabled by flags.
func (s Selection) GroupEnabled(g Group) bool {
	return s.groups[g]
}

// StepEnabled reports whether a step is enabled for this run, based on
// the provider segment of its ID. Steps of unknown providers are
// enabled: only declared optional groups are gated.
func (s Selection) StepEnabled(id step.ID) bool {
	switch id.Provider() {
	case "shellcfg":
		return s.groups[GroupShell]
	case "runtime":
		return s.groups[GroupRuntimes]
	case "macos":
		return s.groups[GroupMacOSDefaults]
	case "git":
		return s.groups[GroupGit]
	case "ssh":
		return s.groups[GroupSSH]
	case "prompt":
		return s.groups[GroupPrompt]
	case "homebrew-extra":
		return s.groups[GroupExtraPackages]
	default:
		return true
	}
}
