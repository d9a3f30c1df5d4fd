package credstore

import (
	"errors"
	"sync"
)

// Backend errors.
var (
	// ErrKeyNotFound is returned by Get and Erase when no record exists
	// for the key.
	ErrKeyNotFound = errors.New("key not found")
)

// Backend is the raw key-value persistence capability the store is built
// on. Every call must be durable and atomic on its own: after Set returns
// nil the record survives a crash, and a crash during Set never leaves a
// partially written record readable.
type Backend interface {
	// Set stores value under (namespace, key), replacing any previous
	// record.
	Set(namespace, key string, value []byte) error

	// Get returns the value stored under (namespace, key), or
	// ErrKeyNotFound if no record exists. A stored zero-length value is
	// returned as an empty slice with a nil error.
	Get(namespace, key string) ([]byte, error)

	// Erase removes the record under (namespace, key). Returns
	// ErrKeyNotFound if no record exists.
	Erase(namespace, key string) error
}

// MemBackend is an in-memory Backend for tests and embedding.
// It is safe for concurrent use.
type MemBackend struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{data: make(map[string]map[string][]byte)}
}

// Set stores value under (namespace, key).
func (b *MemBackend) Set(namespace, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	ns, ok := b.data[namespace]
	if !ok {
		ns = make(map[string][]byte)
		b.data[namespace] = ns
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	ns[key] = cp
	return nil
}

// Get returns the value under (namespace, key) or ErrKeyNotFound.
func (b *MemBackend) Get(namespace, key string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.data[namespace][key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

// Erase removes the record under (namespace, key) or returns
// ErrKeyNotFound.
func (b *MemBackend) Erase(namespace, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.data[namespace][key]; !ok {
		return ErrKeyNotFound
	}
	delete(b.data[namespace], key)
	return nil
}

// Compile-time interface satisfaction check.
var _ Backend = (*MemBackend)(nil)
