// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend is a Backend that keeps each record list as a JSON file in a
// single directory.
type FileBackend struct {
	path string
}

// NewFileBackend returns a FileBackend rooted at the given directory, creating
// it if necessary.
func NewFileBackend(path string) (*FileBackend, error) {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Load reads the JSON document stored under key into target. It returns false
// without an error if no document exists yet.
func (f *FileBackend) Load(key string, target any) (bool, error) {
	data, err := os.ReadFile(f.keyPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read store file: %w", err)
	}
	if err = json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal store file: %w", err)
	}
	return true, nil
}

// Store writes value as a JSON document under key, replacing any previous document.
func (f *FileBackend) Store(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal store value: %w", err)
	}
	if err = os.WriteFile(f.keyPath(key), data, 0o600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}
	return nil
}

func (f *FileBackend) keyPath(key string) string {
	return filepath.Join(f.path, key+".json")
}
