// Package memstore provides an in-memory store implementation for testing.
package memstore

import (
	"context"
	"sync"

	"github.com/discochess/insight/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store is an in-memory store for testing. It counts Get and Put calls so
// tests can assert on cache traffic.
type Store struct {
	mu      sync.RWMutex
	entries map[store.Key][]byte
	gets    int
	puts    int
	putErr  error
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		entries: make(map[store.Key][]byte),
	}
}

// FailPuts makes every subsequent Put return err (nil restores normal writes).
func (s *Store) FailPuts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putErr = err
}

// Get returns a copy of the entry stored under key.
func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++

	data, ok := s.entries[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Put stores a copy of payload so caller mutations do not affect the store.
func (s *Store) Put(ctx context.Context, key store.Key, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++

	if s.putErr != nil {
		return s.putErr
	}
	s.entries[key] = append([]byte(nil), payload...)
	return nil
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Calls returns the number of Get and Put calls made so far.
func (s *Store) Calls() (gets, puts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gets, s.puts
}

// Close is a no-op for the memory store.
func (s *Store) Close() error {
	return nil
}
