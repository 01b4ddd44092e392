package mocks

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rigstrap/rigstrap/internal/ports"
)

type memFile struct {
	data    []byte
	mode    os.FileMode
	modTime time.Time
}

// FileSystem is an in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string]memFile
	dirs     map[string]bool
	failures map[string]error
}

// NewFileSystem creates a new in-memory FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:    make(map[string]memFile),
		dirs:     make(map[string]bool),
		failures: make(map[string]error),
	}
}

// FailWith makes every operation on path return err.
func (m *FileSystem) FailWith(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[path] = err
}

// ReadFile returns the contents of an in-memory file.
func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failures[path]; err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	data := make([]byte, len(f.data))
	copy(data, f.data)
	return data, nil
}

// WriteFile stores a file in memory.
func (m *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[path]; err != nil {
		return err
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[path] = memFile{data: stored, mode: perm, modTime: time.Now()}
	return nil
}

// WriteFileAtomic behaves like WriteFile; in-memory writes are already atomic.
func (m *FileSystem) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return m.WriteFile(path, data, perm)
}

// Exists checks if a file or directory exists in memory.
func (m *FileSystem) Exists(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.files[path]; ok {
		return true
	}
	return m.dirs[path]
}

// Remove deletes a file or directory from memory.
func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[path]; err != nil {
		return err
	}
	if _, ok := m.files[path]; ok {
		delete(m.files, path)
		return nil
	}
	if m.dirs[path] {
		delete(m.dirs, path)
		return nil
	}
	return &os.PathError{Op: "remove", Path: path, Err: os.ErrNotExist}
}

// MkdirAll records a directory and all its parents.
func (m *FileSystem) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[path]; err != nil {
		return err
	}
	for p := path; p != "/" && p != "."; p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

// Rename moves a file in memory.
func (m *FileSystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[oldPath]
	if !ok {
		return &os.PathError{Op: "rename", Path: oldPath, Err: os.ErrNotExist}
	}
	m.files[newPath] = f
	delete(m.files, oldPath)
	return nil
}

// CopyFile copies a file in memory, preserving its mode.
func (m *FileSystem) CopyFile(src, dest string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failures[src]; err != nil {
		return err
	}
	if err := m.failures[dest]; err != nil {
		return err
	}
	f, ok := m.files[src]
	if !ok {
		return &os.PathError{Op: "open", Path: src, Err: os.ErrNotExist}
	}
	data := make([]byte, len(f.data))
	copy(data, f.data)
	m.files[dest] = memFile{data: data, mode: f.mode, modTime: time.Now()}
	return nil
}

// IsDir checks if a path is a recorded directory.
func (m *FileSystem) IsDir(path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[path]
}

// GetFileInfo returns metadata about an in-memory file.
func (m *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if f, ok := m.files[path]; ok {
		return ports.FileInfo{
			Size:    int64(len(f.data)),
			Mode:    f.mode,
			ModTime: f.modTime,
		}, nil
	}
	if m.dirs[path] {
		return ports.FileInfo{Mode: os.ModeDir | 0o755, IsDir: true}, nil
	}
	return ports.FileInfo{}, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
}

// Paths returns all stored file paths, sorted, for assertions.
func (m *FileSystem) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// PathsWithPrefix returns stored file paths under the given prefix, sorted.
func (m *FileSystem) PathsWithPrefix(prefix string) []string {
	matched := make([]string, 0)
	for _, p := range m.Paths() {
		if strings.HasPrefix(p, prefix) {
			matched = append(matched, p)
		}
	}
	return matched
}

// String renders the stored files for debugging failed assertions.
func (m *FileSystem) String() string {
	var b strings.Builder
	for _, p := range m.Paths() {
		f := m.files[p]
		fmt.Fprintf(&b, "%s (%d bytes)\n", p, len(f.data))
	}
	return b.String()
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
