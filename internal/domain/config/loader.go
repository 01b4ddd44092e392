package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rigstrap/rigstrap/internal/ports"
)

// ErrProfileNotFound indicates the profile file does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// Defaults applied when the profile omits a value.
const (
	DefaultLoginFile       = "~/.zprofile"
	DefaultInteractiveFile = "~/.zshrc"
	DefaultSSHKeyPath      = "~/.ssh/id_ed25519"
	DefaultPromptConfig    = "~/.config/starship.toml"
	DefaultManifestPath    = "~/Brewfile"
)

var validDefaultTypes = map[string]bool{
	"bool":   true,
	"int":    true,
	"float":  true,
	"string": true,
}

// Load reads and validates a profile from the given path.
func Load(fs ports.FileSystem, path string) (*Profile, error) {
	if !fs.Exists(path) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, path)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", path, err)
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	applyDefaults(&profile)

	if err := validate(&profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}

	return &profile, nil
}

func applyDefaults(p *Profile) {
	if p.Shell.LoginFile == "" {
		p.Shell.LoginFile = DefaultLoginFile
	}
	if p.Shell.InteractiveFile == "" {
		p.Shell.InteractiveFile = DefaultInteractiveFile
	}
	if p.SSH.KeyPath == "" {
		p.SSH.KeyPath = DefaultSSHKeyPath
	}
	if p.Prompt.ConfigPath == "" {
		p.Prompt.ConfigPath = DefaultPromptConfig
	}
	if p.Manifest.Path == "" {
		p.Manifest.Path = DefaultManifestPath
	}
}

func validate(p *Profile) error {
	for i, rt := range p.Runtimes {
		if rt.Name == "" {
			return fmt.Errorf("runtimes[%d]: name is required", i)
		}
		if rt.Formula == "" {
			return fmt.Errorf("runtime %q: formula is required", rt.Name)
		}
	}

	for i, d := range p.MacOS.Defaults {
		if d.Domain == "" || d.Key == "" {
			return fmt.Errorf("macos.defaults[%d]: domain and key are required", i)
		}
		if !validDefaultTypes[d.Type] {
			return fmt.Errorf("macos.defaults[%d] (%s:%s): unsupported type %q", i, d.Domain, d.Key, d.Type)
		}
	}

	for i, h := range p.SSH.Hosts {
		if h.Host == "" {
			return fmt.Errorf("ssh.hosts[%d]: host is required", i)
		}
	}

	return nil
}
