// ABOUTME: File-backed credential storage in the XDG config directory
// ABOUTME: Keeps all slots in one JSON document written with mode 0600

package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// SessionFileName is the file holding the slots inside the config directory
const SessionFileName = "session.json"

// FileBackend stores slots as a flat JSON object on disk
type FileBackend struct {
	configDir string
	mu        sync.Mutex
}

// NewFileBackend creates a FileBackend rooted at configDir
func NewFileBackend(configDir string) *FileBackend {
	return &FileBackend{configDir: configDir}
}

// Path returns the location of the session file
func (f *FileBackend) Path() string {
	return filepath.Join(f.configDir, SessionFileName)
}

func (f *FileBackend) Get(_ context.Context, slot string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[slot]
	return v, ok, nil
}

func (f *FileBackend) SetAll(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		// Unreadable file, start fresh
		current = map[string]string{}
	}
	for k, v := range values {
		current[k] = v
	}
	return f.save(current)
}

func (f *FileBackend) Delete(_ context.Context, slots ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.load()
	if err != nil {
		current = map[string]string{}
	}
	for _, s := range slots {
		delete(current, s)
	}
	if len(current) == 0 {
		if err := os.Remove(f.Path()); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	return f.save(current)
}

// load reads the session file. A missing file is an empty store.
func (f *FileBackend) load() (map[string]string, error) {
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path(), err)
	}
	return values, nil
}

// save writes through a temp file and rename so readers never see a partial document
func (f *FileBackend) save(values map[string]string) error {
	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.configDir, ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.Path())
}
