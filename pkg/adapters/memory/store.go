// Package memory provides in-memory implementations of the persistence
// ports, used in tests and for ephemeral editor sessions.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.LayoutStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.SerializedLayout
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.SerializedLayout),
	}
}

// Save persists the layout in memory. The document is deep-copied so the
// stored version is isolated from later edits, same as serialization would.
func (s *Store) Save(ctx context.Context, key string, layout *domain.Layout) error {
	doc := layout.Serialized()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = doc
	return nil
}

// Load retrieves the layout from memory. The returned handle owns a copy,
// so callers cannot mutate stored documents through it.
func (s *Store) Load(ctx context.Context, key string) (*domain.Layout, error) {
	s.mu.RLock()
	doc, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return domain.NewLayoutFrom(doc)
}

// Delete removes the layout.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the stored layout keys.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		keys = append(keys, key)
	}
	return keys, nil
}
