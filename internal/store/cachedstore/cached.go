package cachedstore

import (
	"context"

	"github.com/discochess/insight/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store wraps another Store with a memory tier. Reads check memory first and
// fall back to the underlying store; writes go to the underlying store first
// and only reach memory once they are durable.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// Get returns the payload for key, checking the memory tier first.
func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	if data, ok := s.backend.Get(key.String()); ok {
		return data, nil
	}

	data, err := s.underlying.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.backend.Set(key.String(), data)
	return data, nil
}

// Put writes through to the underlying store, then populates memory.
func (s *Store) Put(ctx context.Context, key store.Key, payload []byte) error {
	if err := s.underlying.Put(ctx, key, payload); err != nil {
		return err
	}
	s.backend.Set(key.String(), payload)
	return nil
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns memory tier statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}
