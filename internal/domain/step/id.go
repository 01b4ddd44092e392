package step

import (
	"errors"
	"regexp"
	"strings"
)

// ID uniquely identifies a step within a run.
// Format: provider:action:resource (e.g., "homebrew:formula:git").
type ID struct {
	value string
}

// Errors for ID validation.
var (
	ErrEmptyID   = errors.New("step ID cannot be empty")
	ErrInvalidID = errors.New("step ID format invalid: must be alphanumeric with colons, hyphens, underscores, dots, or slashes")
)

// idPattern validates step ID format. Allows alphanumeric segments with
// hyphens, underscores, dots, and slashes, separated by colons. No spaces.
var idPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_./-]*(?::[a-zA-Z0-9][a-zA-Z0-9_./-]*)*$`)

// NewID creates a new ID from a string.
func NewID(value string) (ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ID{}, ErrEmptyID
	}

	if !idPattern.MatchString(trimmed) {
		return ID{}, ErrInvalidID
	}

	return ID{value: trimmed}, nil
}

// MustNewID creates a new ID from a string, panicking on error.
// Use this for compile-time known values that should never fail validation.
func MustNewID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic("invalid step ID: " + value + ": " + err.Error())
	}
	return id
}

// String returns the string representation.
func (id ID) String() string {
	return id.value
}

// Equals checks equality with another ID.
func (id ID) Equals(other ID) bool {
	return id.value == other.value
}

// Provider extracts the provider name (first segment).
func (id ID) Provider() string {
	parts := strings.SplitN(id.value, ":", 2)
	return parts[0]
}

// IsZero returns true if this is a zero-value ID.
func (id ID) IsZero() bool {
	return id.value == ""
}
