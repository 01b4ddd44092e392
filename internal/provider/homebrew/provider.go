// Package homebrew provisions packages through the Homebrew package
// manager: the brew bootstrap itself, formulae, casks, flag-gated
// extras, and the regenerated Brewfile manifest.
package homebrew

import (
	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// Provider compiles a profile's package lists into executable steps.
type Provider struct {
	runner ports.CommandRunner
	fs     ports.FileSystem
	store  *dotfile.Store
}

// NewProvider creates the Homebrew provider.
func NewProvider(runner ports.CommandRunner, fs ports.FileSystem, store *dotfile.Store) *Provider {
	return &Provider{runner: runner, fs: fs, store: store}
}

// Compile returns the steps for the profile's packages. The manifest
// covers extras only when their group is selected, so the Brewfile
// matches what the run actually installs.
func (p *Provider) Compile(profile *config.Profile, selection config.Selection) []step.Step {
	steps := []step.Step{NewInstallStep(p.runner)}

	for _, f := range profile.Packages.Formulae {
		steps = append(steps, NewFormulaStep(f, p.runner))
	}
	for _, c := range profile.Packages.Casks {
		steps = append(steps, NewCaskStep(c, p.runner))
	}
	for _, f := range profile.Packages.Extras.Formulae {
		steps = append(steps, NewExtraFormulaStep(f, p.runner))
	}
	for _, c := range profile.Packages.Extras.Casks {
		steps = append(steps, NewExtraCaskStep(c, p.runner))
	}

	formulae := profile.Packages.Formulae
	casks := profile.Packages.Casks
	if selection.GroupEnabled(config.GroupExtraPackages) {
		formulae = append(append([]string{}, formulae...), profile.Packages.Extras.Formulae...)
		casks = append(append([]string{}, casks...), profile.Packages.Extras.Casks...)
	}
	steps = append(steps, NewManifestStep(profile.Manifest.Path, formulae, casks, p.fs, p.store))

	return steps
}
