// Package storage provides the key-value persistence collaborator the journal
// mirrors its state to. A Backend stores opaque string blobs under string
// keys and holds no resources open between calls.
package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DefaultKey is the key the journal snapshot is stored under.
const DefaultKey = "bullet-journal-data"

// Backend is the byte/string key-value store contract.
type Backend interface {
	// Get returns the value stored under key. ok is false when nothing is
	// stored; that is not an error.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
}

// Quarantiner is implemented by backends that can move an unreadable value
// aside instead of letting the next Set overwrite it.
type Quarantiner interface {
	Quarantine(key string) (string, error)
}

// ErrInvalidKey is returned for keys that cannot be stored safely.
var ErrInvalidKey = errors.New("invalid storage key")

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	}
	return nil
}

// MemoryBackend keeps values in a map. It is used in tests and for throwaway
// sessions; GetErr and SetErr let tests simulate a failing store.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
	sets   int

	GetErr error
	SetErr error
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}}
}

func (m *MemoryBackend) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	m.sets++
	return nil
}

// Sets returns how many successful Set calls were made.
func (m *MemoryBackend) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}
