package memory

import (
	"context"
	"sync"
)

// Store keeps values in process memory. Nothing survives a restart.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

func New() *Store {
	return &Store{values: map[string]string{}}
}

// NewSeeded returns a store pre-filled with seed.
func NewSeeded(seed map[string]string) *Store {
	s := New()
	for k, v := range seed {
		s.values[k] = v
	}
	return s
}

// Get implements kv.Store
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements kv.Store
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// Writes returns how many Set calls the store has served.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
