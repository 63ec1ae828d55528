// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryBackend is an in-memory Backend. It is mainly useful for tests and as
// a fallback when no store directory is usable.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailLoads and FailStores make the respective operations fail, to exercise
	// degraded-persistence behavior in tests.
	FailLoads  bool
	FailStores bool
}

// NewMemoryBackend returns a new empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

// Load reads the value stored under key into target. It returns false without
// an error if the key does not exist.
func (m *MemoryBackend) Load(key string, target any) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailLoads {
		return false, fmt.Errorf("memory backend load failure")
	}
	data, ok := m.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("failed to unmarshal store value: %w", err)
	}
	return true, nil
}

// Store writes value under key, replacing any previous value.
func (m *MemoryBackend) Store(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStores {
		return fmt.Errorf("memory backend store failure")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal store value: %w", err)
	}
	m.data[key] = data
	return nil
}
