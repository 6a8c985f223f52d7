package middleware_test

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// mockStore is a minimal in-memory LayoutStore capturing what middlewares
// actually hand to the persistence layer.
type mockStore struct {
	data map[string]*domain.SerializedLayout
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]*domain.SerializedLayout)}
}

func (m *mockStore) Save(ctx context.Context, key string, layout *domain.Layout) error {
	m.data[key] = layout.Serialized()
	return nil
}

func (m *mockStore) Load(ctx context.Context, key string) (*domain.Layout, error) {
	doc, ok := m.data[key]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return domain.NewLayoutFrom(doc)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}
