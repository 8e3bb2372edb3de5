// Package local implements the on-device key-value store. It is the
// durable side of the dual-persistence layer: a write that fails here
// fails the whole operation.
package local

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Store is a flat string key-value store persisted as a single JSON file.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]string
}

// Open loads the store at path, starting empty when the file does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]string)}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("open state file: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&s.values); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	return s, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists immediately.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.save()
}

// Remove deletes key and persists. Removing a missing key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// GetOrSet returns the value under key, generating and persisting it with
// gen when absent. The read-modify-write runs under the store's lock, so
// concurrent callers observe exactly one generated value.
func (s *Store) GetOrSet(key string, gen func() string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[key]; ok {
		return v, nil
	}
	v := gen()
	s.values[key] = v
	if err := s.save(); err != nil {
		delete(s.values, key)
		return "", err
	}
	return v, nil
}

// save persists the value map. Caller holds the lock.
func (s *Store) save() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(s.values); err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	return nil
}
