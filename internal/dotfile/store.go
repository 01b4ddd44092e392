package dotfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rigstrap/rigstrap/internal/ports"
)

// Errors for block store operations.
var (
	ErrEmptyName   = errors.New("block name cannot be empty")
	ErrInvalidName = errors.New("block name must not contain whitespace")
)

const (
	filePerm   = os.FileMode(0o644)
	dirPerm    = os.FileMode(0o755)
	backupTime = "20060102-150405"
)

var namePattern = regexp.MustCompile(`^\S+$`)

// Store inserts, updates, and removes named blocks in dotfiles.
//
// Writes are atomic (temp file plus rename), so a crash never leaves a
// truncated file. Safe for use from a single process only; a second
// process racing on the same file is not supported.
type Store struct {
	fs ports.FileSystem
}

// NewStore creates a Store backed by the given filesystem.
func NewStore(fs ports.FileSystem) *Store {
	return &Store{fs: fs}
}

// Upsert installs or replaces the named block in the file at path.
// The parent directory and the file are created when absent. Calling
// Upsert twice with identical arguments leaves the file byte-identical.
func (s *Store) Upsert(path, name string, lines []string) error {
	if err := validateName(name); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", path, err)
	}

	content, perm, err := s.readIfExists(path)
	if err != nil {
		return err
	}

	updated := upsertBlock(content, name, joinLines(lines))
	if updated == content {
		return nil
	}

	if err := s.fs.WriteFileAtomic(path, []byte(updated), perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Read returns the body of the named block, and whether it was found.
func (s *Store) Read(path, name string) (string, bool, error) {
	if err := validateName(name); err != nil {
		return "", false, err
	}

	content, _, err := s.readIfExists(path)
	if err != nil {
		return "", false, err
	}
	if !strings.Contains(content, StartMarker(name)) {
		return "", false, nil
	}
	return readBlock(content, name), true, nil
}

// Remove deletes the named block if present and reports whether a
// block was found and removed. Removing from a missing file is a no-op.
func (s *Store) Remove(path, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	if !s.fs.Exists(path) {
		return false, nil
	}

	content, perm, err := s.readIfExists(path)
	if err != nil {
		return false, err
	}

	updated, found := removeBlock(content, name)
	if !found {
		return false, nil
	}

	if err := s.fs.WriteFileAtomic(path, []byte(updated), perm); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// BackupIfExists copies the file to path + ".bak." + UTC timestamp
// (YYYYMMDD-HHMMSS) and returns the backup path. Returns "" when the
// file does not exist. One-second timestamp granularity is accepted.
func (s *Store) BackupIfExists(path string) (string, error) {
	if !s.fs.Exists(path) {
		return "", nil
	}

	backup := path + ".bak." + time.Now().UTC().Format(backupTime)
	if err := s.fs.CopyFile(path, backup); err != nil {
		return "", fmt.Errorf("back up %s: %w", path, err)
	}
	return backup, nil
}

// readIfExists returns the file's content and permission bits, or an
// empty string and the default permission when the file is absent.
func (s *Store) readIfExists(path string) (string, os.FileMode, error) {
	if !s.fs.Exists(path) {
		return "", filePerm, nil
	}

	data, err := s.fs.ReadFile(path)
	if err != nil {
		return "", filePerm, fmt.Errorf("read %s: %w", path, err)
	}

	perm := filePerm
	if info, err := s.fs.GetFileInfo(path); err == nil {
		perm = info.Mode.Perm()
	}
	return string(data), perm, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if !namePattern.MatchString(name) {
		return ErrInvalidName
	}
	return nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
