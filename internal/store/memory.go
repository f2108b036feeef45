package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore keeps values in process memory. Used in tests and for --store=memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]json.RawMessage)}
}

// Get implements Store
func (m *MemoryStore) Get(_ context.Context, keys ...string) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if value, ok := m.values[key]; ok {
			result[key] = append(json.RawMessage(nil), value...)
		}
	}
	return result, nil
}

// Set implements Store
func (m *MemoryStore) Set(_ context.Context, values map[string]any) error {
	encoded, err := encodeValues(values)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range encoded {
		m.values[key] = value
	}
	return nil
}

// Close implements Store
func (m *MemoryStore) Close() error {
	return nil
}
