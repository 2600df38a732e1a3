// Package database provides an in-memory storage backend for favedex.
package database

import "sync"

// MemoryStore is a process-local KV backend used for ephemeral runs and
// tests. Nothing survives Close.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// Ensure MemoryStore implements KV interface.
var _ KV = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Close releases the store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = nil
	return nil
}

// BackendType returns the storage backend name.
func (m *MemoryStore) BackendType() string {
	return "Memory"
}

// Get retrieves the value stored under key.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.values[key]
	return val, ok, nil
}

// Set stores value under key, replacing any previous value.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Delete removes key and its value.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
