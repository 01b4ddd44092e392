// Package config defines the declarative workstation profile and the
// flag-driven selection of optional step groups.
package config

// Profile is the declarative description of a workstation, loaded from
// rigstrap.yaml. Package lists and dotfile content live here; which
// optional groups actually run is decided by flags (Selection).
type Profile struct {
	Packages Packages  `yaml:"packages"`
	Shell    Shell     `yaml:"shell"`
	Runtimes []Runtime `yaml:"runtimes"`
	MacOS    MacOS     `yaml:"macos"`
	Git      Git       `yaml:"git"`
	SSH      SSH       `yaml:"ssh"`
	Prompt   Prompt    `yaml:"prompt"`
	Manifest Manifest  `yaml:"manifest"`
}

// Packages lists Homebrew formulae and casks. The core set always
// installs; extras only with the extra-packages flag.
type Packages struct {
	Formulae []string `yaml:"formulae"`
	Casks    []string `yaml:"casks"`
	Extras   Extras   `yaml:"extras"`
}

// Extras are optional, flag-gated package sets.
type Extras struct {
	Formulae []string `yaml:"formulae"`
	Casks    []string `yaml:"casks"`
}

// Shell configures the managed blocks written to the user's shell files.
// LoginFile receives environment exports and PATH entries; the
// interactive file receives aliases.
type Shell struct {
	LoginFile       string            `yaml:"login_file"`
	InteractiveFile string            `yaml:"interactive_file"`
	Env             map[string]string `yaml:"env"`
	Aliases         map[string]string `yaml:"aliases"`
}

// Runtime is a language toolchain installed via Homebrew, with an
// optional bin directory appended to PATH and an optional minimum
// version enforced before the install is considered satisfied.
type Runtime struct {
	Name       string `yaml:"name"`
	Formula    string `yaml:"formula"`
	BinDir     string `yaml:"bin_dir"`
	MinVersion string `yaml:"min_version"`
}

// MacOS holds `defaults write` settings.
type MacOS struct {
	Defaults []Default `yaml:"defaults"`
}

// Default is one macOS preference key.
// Type is one of "bool", "int", "float", "string".
type Default struct {
	Domain string `yaml:"domain"`
	Key    string `yaml:"key"`
	Type   string `yaml:"type"`
	Value  string `yaml:"value"`
}

// Git configures ~/.gitconfig identity and aliases.
type Git struct {
	Name    string            `yaml:"name"`
	Email   string            `yaml:"email"`
	Editor  string            `yaml:"editor"`
	Aliases map[string]string `yaml:"aliases"`
}

// SSH configures key generation and managed ~/.ssh/config host blocks.
type SSH struct {
	KeyPath string    `yaml:"key_path"`
	Comment string    `yaml:"comment"`
	Hosts   []SSHHost `yaml:"hosts"`
}

// SSHHost is one Host entry written to ~/.ssh/config.
type SSHHost struct {
	Host    string            `yaml:"host"`
	Options map[string]string `yaml:"options"`
}

// Prompt configures the starship prompt.
type Prompt struct {
	ConfigPath string                 `yaml:"config_path"`
	Settings   map[string]interface{} `yaml:"settings"`
}

// Manifest configures the regenerated Brewfile.
type Manifest struct {
	Path string `yaml:"path"`
}
