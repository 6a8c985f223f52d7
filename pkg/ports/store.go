package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// LayoutStore defines the interface for persisting layout documents.
// This backs both explicit saves and the editor's autosave, enabling
// "close the tab & resume" workflows.
type LayoutStore interface {
	// Save persists the layout under the given key, overwriting any
	// previous version.
	Save(ctx context.Context, key string, layout *domain.Layout) error

	// Load retrieves the layout stored under the given key.
	// Returns domain.ErrLayoutNotFound if the key does not exist.
	Load(ctx context.Context, key string) (*domain.Layout, error)

	// Delete removes the layout stored under the given key.
	Delete(ctx context.Context, key string) error

	// List returns the keys of all stored layouts.
	List(ctx context.Context) ([]string, error)
}
