package ports_test

import (
	"context"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// MockStore is a minimal in-memory LayoutStore used to exercise the
// contract suite itself. Real adapters live in pkg/adapters.
type MockStore struct {
	data map[string]*domain.SerializedLayout
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.SerializedLayout),
	}
}

func (m *MockStore) Save(ctx context.Context, key string, layout *domain.Layout) error {
	// Serialized returns a deep copy, simulating real serialization.
	m.data[key] = layout.Serialized()
	return nil
}

func (m *MockStore) Load(ctx context.Context, key string) (*domain.Layout, error) {
	doc, ok := m.data[key]
	if !ok {
		return nil, domain.ErrLayoutNotFound
	}
	return domain.NewLayoutFrom(doc)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

func TestMockStoreSatisfiesContract(t *testing.T) {
	ports.RunLayoutStoreContract(t, NewMockStore())
}
