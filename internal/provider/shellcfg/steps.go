// Package shellcfg maintains the managed environment and alias blocks
// in the user's shell startup files.
package shellcfg

import (
	"fmt"
	"sort"

	"github.com/rigstrap/rigstrap/internal/domain/config"
	"github.com/rigstrap/rigstrap/internal/domain/step"
	"github.com/rigstrap/rigstrap/internal/dotfile"
	"github.com/rigstrap/rigstrap/internal/ports"
)

// Block names used in the managed shell files.
const (
	envBlockName   = "env"
	aliasBlockName = "aliases"
)

// EnvStep writes exported environment variables into a managed block in
// the login shell file.
type EnvStep struct {
	file  string
	env   map[string]string
	store *dotfile.Store
}

// NewEnvStep creates the environment block step.
func NewEnvStep(file string, env map[string]string, store *dotfile.Store) *EnvStep {
	return &EnvStep{file: file, env: env, store: store}
}

// ID returns the step identifier.
func (s *EnvStep) ID() step.ID {
	return step.MustNewID("shellcfg:env")
}

// DependsOn returns the step dependencies.
func (s *EnvStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *EnvStep) Summary() string {
	return fmt.Sprintf("Write environment exports to %s", s.file)
}

// Check compares the managed block against the desired exports.
func (s *EnvStep) Check(_ step.RunContext) (step.Status, error) {
	return blockStatus(s.store, s.file, envBlockName, s.lines())
}

// Apply writes the block and records the exports for later steps.
func (s *EnvStep) Apply(ctx step.RunContext) error {
	for k, v := range s.env {
		ctx.Env().Export(k, v)
	}
	return s.store.Upsert(ports.ExpandPath(s.file), envBlockName, s.lines())
}

func (s *EnvStep) lines() []string {
	lines := make([]string, 0, len(s.env))
	for _, k := range sortedKeys(s.env) {
		lines = append(lines, fmt.Sprintf("export %s=%q", k, s.env[k]))
	}
	return lines
}

// AliasStep writes shell aliases into a managed block in the
// interactive shell file.
type AliasStep struct {
	file    string
	aliases map[string]string
	store   *dotfile.Store
}

// NewAliasStep creates the alias block step.
func NewAliasStep(file string, aliases map[string]string, store *dotfile.Store) *AliasStep {
	return &AliasStep{file: file, aliases: aliases, store: store}
}

// ID returns the step identifier.
func (s *AliasStep) ID() step.ID {
	return step.MustNewID("shellcfg:aliases")
}

// DependsOn returns the step dependencies.
func (s *AliasStep) DependsOn() []step.ID {
	return nil
}

// Summary describes the step.
func (s *AliasStep) Summary() string {
	return fmt.Sprintf("Write aliases to %s", s.file)
}

// Check compares the managed block against the desired aliases.
func (s *AliasStep) Check(_ step.RunContext) (step.Status, error) {
	return blockStatus(s.store, s.file, aliasBlockName, s.lines())
}

// Apply writes the alias block.
func (s *AliasStep) Apply(_ step.RunContext) error {
	return s.store.Upsert(ports.ExpandPath(s.file), aliasBlockName, s.lines())
}

func (s *AliasStep) lines() []string {
	lines := make([]string, 0, len(s.aliases))
	for _, k := range sortedKeys(s.aliases) {
		lines = append(lines, fmt.Sprintf("alias %s=%q", k, s.aliases[k]))
	}
	return lines
}

// Compile returns the shell configuration steps for a profile. Empty
// maps still produce steps: an empty block is valid desired state and
// replaces stale content from earlier runs.
func Compile(profile *config.Profile, store *dotfile.Store) []step.Step {
	return []step.Step{
		NewEnvStep(profile.Shell.LoginFile, profile.Shell.Env, store),
		NewAliasStep(profile.Shell.InteractiveFile, profile.Shell.Aliases, store),
	}
}

// blockStatus reports Satisfied when the named block already holds
// exactly the desired lines.
func blockStatus(store *dotfile.Store, file, name string, lines []string) (step.Status, error) {
	body, found, err := store.Read(ports.ExpandPath(file), name)
	if err != nil {
		return step.StatusNeedsApply, err
	}
	if !found {
		return step.StatusNeedsApply, nil
	}
	if body == joinLines(lines) {
		return step.StatusSatisfied, nil
	}
	return step.StatusNeedsApply, nil
}

func joinLines(lines []string) string {
	out := ""
	for _, l := range lines {
		out += l + "\n"
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
