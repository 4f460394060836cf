// ABOUTME: Process-local credential backend
// ABOUTME: Used by tests and ephemeral runs that must not touch disk

package credstore

import (
	"context"
	"sync"
)

// MemoryBackend keeps slots in a map guarded by a mutex
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, slot string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[slot]
	return v, ok, nil
}

func (m *MemoryBackend) SetAll(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, slots ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range slots {
		delete(m.values, s)
	}
	return nil
}

// Set writes a single slot. Tests use it to plant partial or corrupt state.
func (m *MemoryBackend) Set(slot, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[slot] = value
}
