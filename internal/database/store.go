// Package database provides key-value storage backends for favedex.
package database

// KV defines the interface for persistent key-value operations.
// Both the SQLite and in-memory implementations satisfy this interface.
type KV interface {
	Close() error

	// BackendType returns the name of the storage backend ("SQLite" or "Memory").
	BackendType() string

	// Get retrieves the value stored under key. Returns ok=false if the key
	// is absent; absence is not an error.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key and its value. Deleting an absent key is a no-op.
	Delete(key string) error
}
