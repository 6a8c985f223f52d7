package lattice

import (
	"log/slog"

	"github.com/aretw0/lattice/internal/editor"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

type config struct {
	engineOpts []editor.Option
	catalog    ports.WidgetCatalog
	catalogSet bool
	store      ports.LayoutStore
	storeKey   string
}

// Option configures an Editor.
type Option func(*config)

// WithCatalog replaces the default widget catalog. Passing nil disables
// the catalog entirely: every type tag then mints a bare config.
func WithCatalog(catalog ports.WidgetCatalog) Option {
	return func(c *config) {
		c.catalog = catalog
		c.catalogSet = true
	}
}

// WithStore enables best-effort autosave to the given store after every
// document change. See WithStoreKey for the key; it defaults to
// domain.DefaultAutosaveKey.
func WithStore(store ports.LayoutStore) Option {
	return func(c *config) {
		c.store = store
	}
}

// WithStoreKey selects the autosave key used with WithStore.
func WithStoreKey(key string) Option {
	return func(c *config) {
		c.storeKey = key
	}
}

// WithHistoryCapacity bounds the undo window to n snapshots.
func WithHistoryCapacity(n int) Option {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, editor.WithHistoryCapacity(n))
	}
}

// WithLogger sets a structured logger for engine internals (autosave
// failures, applied mutations at debug level).
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, editor.WithLogger(logger))
	}
}

// WithHooks registers observability callbacks fired on mutations, history
// movements and autosave attempts.
func WithHooks(hooks domain.EditorHooks) Option {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, editor.WithHooks(hooks))
	}
}

// WithStrictContainment rejects child insertion under widget types the
// catalog marks as leaves, and validates explicit configs against their
// property schemas. Off by default: the document model treats
// container-ness as a hint for palettes, not a structural rule.
func WithStrictContainment() Option {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, editor.WithStrictContainment())
	}
}

// WithLayout seeds the editor with an existing document (cloned) instead
// of an empty one.
func WithLayout(l *domain.Layout) Option {
	return func(c *config) {
		c.engineOpts = append(c.engineOpts, editor.WithLayout(l))
	}
}
