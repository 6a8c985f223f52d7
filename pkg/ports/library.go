package ports

import "context"

// TemplateLibrary defines how the editor retrieves reusable layout
// templates. This allows the storage layer (Loam, FS, Memory) to be
// decoupled.
type TemplateLibrary interface {
	// GetTemplate retrieves the raw serialized layout for a template by
	// name. It returns the raw bytes (which the codec will parse) or an
	// error.
	GetTemplate(name string) ([]byte, error)

	// ListTemplates returns the names of all templates available in the
	// library. This is used by pickers and the 'lattice new --from' flow.
	ListTemplates() ([]string, error)
}

// Watchable defines an interface for libraries that can notify about
// backend changes. This is typically used for hot-reload or dev-mode
// functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying library
	// changes. It abstracts away the specific event details, signaling only
	// that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
