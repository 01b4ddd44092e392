package step

import (
	"fmt"
	"sort"
)

// EnvSet accumulates environment mutations made by steps during a run.
// Steps record PATH prepends and variable exports here instead of
// mutating the real process environment, which keeps step logic
// deterministic under test. Shell configuration steps render the set
// into managed dotfile blocks; command-running steps pass it to spawned
// processes.
type EnvSet struct {
	pathEntries []string
	exports     map[string]string
}

// NewEnvSet creates an empty EnvSet.
func NewEnvSet() *EnvSet {
	return &EnvSet{
		exports: make(map[string]string),
	}
}

// PrependPath records a directory to be prepended to PATH.
// Duplicate entries are ignored; first registration wins the position.
func (e *EnvSet) PrependPath(dir string) {
	for _, existing := range e.pathEntries {
		if existing == dir {
			return
		}
	}
	e.pathEntries = append(e.pathEntries, dir)
}

// Export records an environment variable export.
func (e *EnvSet) Export(key, value string) {
	e.exports[key] = value
}

// PathEntries returns recorded PATH prepends in registration order.
func (e *EnvSet) PathEntries() []string {
	entries := make([]string, len(e.pathEntries))
	copy(entries, e.pathEntries)
	return entries
}

// Exports returns recorded exports as KEY=value pairs, sorted by key
// for deterministic output.
func (e *EnvSet) Exports() []string {
	keys := make([]string, 0, len(e.exports))
	for k := range e.exports {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, e.exports[k]))
	}
	return pairs
}

// Lookup returns the recorded value for a key.
func (e *EnvSet) Lookup(key string) (string, bool) {
	v, ok := e.exports[key]
	return v, ok
}
