// rigstrap provisions a macOS developer workstation from a declarative
// profile: Homebrew packages, shell configuration, language runtimes,
// system defaults, git, ssh, and the starship prompt.
package main

import "os"

func main() {
	os.Exit(execute())
}
