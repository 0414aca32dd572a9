// Package store loads and saves the raw bytes of an edited file.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// ErrNoName is returned when a load or save is attempted without a file name.
var ErrNoName = errors.New("store: no file name")

// Store reads and writes whole files by name.
type Store interface {
	// Load returns the file contents. A file that does not exist yields
	// empty content and no error.
	Load(name string) ([]byte, error)
	// Save overwrites the file with data.
	Save(name string, data []byte) error
}

// FS is the Store backed by the local filesystem.
type FS struct {
	Perm fs.FileMode
}

// Load implements Store.
func (s FS) Load(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrNoName
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return data, nil
}

// Save implements Store. The data is written as given, without a trailing
// newline.
func (s FS) Save(name string, data []byte) error {
	if name == "" {
		return ErrNoName
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0644
	}
	if err := os.WriteFile(name, data, perm); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// Memory is an in-process Store. The zero value is ready to use.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
	// SaveErr, when set, is returned by every Save.
	SaveErr error
}

// Load implements Store.
func (m *Memory) Load(name string) ([]byte, error) {
	if name == "" {
		return nil, ErrNoName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.files[name]...), nil
}

// Save implements Store.
func (m *Memory) Save(name string, data []byte) error {
	if name == "" {
		return ErrNoName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	if m.files == nil {
		m.files = make(map[string][]byte)
	}
	m.files[name] = append([]byte(nil), data...)
	return nil
}
