// Package memory implements an in-memory key-value store for development and
// testing.
package memory

import (
	"sync"

	"github.com/internhub/portal-client/internal/core/ports"
)

// Store is a mutex-guarded map satisfying ports.KeyValueStore.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte
}

var _ ports.KeyValueStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

func (s *Store) Get(key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len reports the number of stored keys. Test helper.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
