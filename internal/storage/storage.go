package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store is the key-value persistence collaborator. Values are opaque text;
// callers own serialization.
type Store interface {
	// Get returns the value for key. ok is false when the key has never been set.
	Get(key string) (value string, ok bool, err error)
	// Set durably stores value under key, replacing any previous value.
	Set(key, value string) error
}

// Keys used by the goal and desk stores.
const (
	KeyGoals      = "founders-os-projects"
	KeyDesks      = "life-desks"
	KeyActiveDesk = "active-desk"
	KeyOnboarding = "life-desks-onboarding"
)

// ErrInvalidKey is returned for keys that cannot be mapped to a file name.
var ErrInvalidKey = errors.New("invalid storage key")

// BaseDir returns the root data directory. DESK_DATA_DIR overrides the
// default of ~/.desk.
func BaseDir() (string, error) {
	if dir := os.Getenv("DESK_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".desk"), nil
}

// File stores each key as its own file under <base>/state.
type File struct {
	dir string
}

// NewFile returns a File store rooted at base. Directories are created lazily
// on the first write.
func NewFile(base string) *File {
	return &File{dir: filepath.Join(base, "state")}
}

func (f *File) keyPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the file for key. A missing file is reported as ok == false.
func (f *File) Get(key string) (string, bool, error) {
	path, err := f.keyPath(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return string(data), true, nil
}

// Set atomically writes value for key.
func (f *File) Set(key, value string) error {
	path, err := f.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(value), 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Quarantine moves the file for key aside as <key>.json.corrupt so the next
// write starts fresh while the unreadable data is kept for inspection.
func (f *File) Quarantine(key string) (string, error) {
	path, err := f.keyPath(key)
	if err != nil {
		return "", err
	}
	backup := path + ".corrupt"
	if err := os.Rename(path, backup); err != nil {
		return "", fmt.Errorf("storage error backing up %s: %w", path, err)
	}
	return backup, nil
}

// Memory is an in-process Store, used for tests and dry runs.
type Memory struct {
	values map[string]string
	// FailWrites makes every Set return an error, for exercising the
	// swallow-and-continue path of the stores.
	FailWrites bool
}

// NewMemory returns an empty Memory store, optionally pre-populated.
func NewMemory(initial map[string]string) *Memory {
	m := &Memory{values: map[string]string{}}
	for k, v := range initial {
		m.values[k] = v
	}
	return m
}

func (m *Memory) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	if m.FailWrites {
		return fmt.Errorf("storage error: writes disabled for %q", key)
	}
	m.values[key] = value
	return nil
}
