package storage

import (
	"context"
	"sync"
)

// MemoryKV is a process-local KeyValueStore. It does not survive restarts.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// ------------------------------------------------------------------------------------------------------
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// ------------------------------------------------------------------------------------------------------
func (m *MemoryKV) Get(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]string, len(keys))
	for _, key := range keys {
		if value, ok := m.values[key]; ok {
			result[key] = value
		}
	}
	return result, nil
}

// ------------------------------------------------------------------------------------------------------
func (m *MemoryKV) Set(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, value := range values {
		m.values[key] = value
	}
	return nil
}

// ------------------------------------------------------------------------------------------------------
func (m *MemoryKV) Close() error {
	return nil
}
