package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/history"
	"github.com/aretw0/lattice/pkg/ports"
)

// Engine owns one layout document and its undo history.
//
// All methods are safe for concurrent use; a single mutex serializes
// mutations so concurrent callers observe the document moving through a
// linear sequence of versions.
type Engine struct {
	mu      sync.Mutex
	doc     *domain.Layout
	history *history.History

	catalog  ports.WidgetCatalog
	store    ports.LayoutStore
	storeKey string
	strict   bool
	hooks    domain.EditorHooks
	logger   *slog.Logger

	historyOpts []history.Option
}

var _ ports.LayoutEditor = (*Engine)(nil)

// Option configures the Engine.
type Option func(*Engine)

// WithCatalog wires the widget catalog used to mint default configs for
// add operations. Without a catalog every type tag yields a bare config.
func WithCatalog(catalog ports.WidgetCatalog) Option {
	return func(e *Engine) {
		e.catalog = catalog
	}
}

// WithStore enables best-effort autosave: after every history push the
// document is saved under key (DefaultAutosaveKey when empty). Autosave
// failures are logged and reported through hooks, never returned.
func WithStore(store ports.LayoutStore, key string) Option {
	return func(e *Engine) {
		e.store = store
		e.storeKey = key
	}
}

// WithHistoryCapacity bounds the number of retained snapshots.
func WithHistoryCapacity(n int) Option {
	return func(e *Engine) {
		e.historyOpts = append(e.historyOpts, history.WithCapacity(n))
	}
}

// WithLogger sets a structured logger for internal events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithHooks registers observability callbacks.
func WithHooks(hooks domain.EditorHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithStrictContainment makes the engine reject child insertion under
// widget types the catalog marks as non-containers, and validate explicit
// configs against their declared property schemas. The document model
// itself never enforces either rule.
func WithStrictContainment() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// WithLayout seeds the engine with an existing document instead of an
// empty one. The document is cloned.
func WithLayout(l *domain.Layout) Option {
	return func(e *Engine) {
		if l != nil {
			e.doc = l.Clone()
		}
	}
}

// New creates an Engine. History starts with a single snapshot of the
// initial document and the cursor on it.
func New(opts ...Option) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.doc == nil {
		e.doc = domain.NewLayout()
	}
	if e.store != nil && e.storeKey == "" {
		e.storeKey = domain.DefaultAutosaveKey
	}
	e.history = history.New(e.doc.Clone(), e.historyOpts...)
	return e
}

// Layout returns a detached copy of the current document.
func (e *Engine) Layout() *domain.Layout {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doc.Clone()
}

// Catalog returns the widget catalog, or nil when none was configured.
func (e *Engine) Catalog() ports.WidgetCatalog {
	return e.catalog
}

// CanUndo reports whether an older document version exists.
func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether an undone version can be replayed.
func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// History reports the snapshot count and the cursor position.
func (e *Engine) History() (depth, cursor int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.Len(), e.history.Cursor()
}

// Undo steps back one document version. It reports false when there is no
// older version.
func (e *Engine) Undo(ctx context.Context) (*domain.Layout, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.history.Undo()
	if !ok {
		return nil, false
	}
	e.doc = snap.Clone()
	e.logger.Debug("undo", "cursor", e.history.Cursor())
	e.emitSnapshot(ctx, domain.EventUndo)
	e.autosave(ctx)
	return e.doc.Clone(), true
}

// Redo replays one undone version. It reports false when there is no
// future to replay.
func (e *Engine) Redo(ctx context.Context) (*domain.Layout, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, ok := e.history.Redo()
	if !ok {
		return nil, false
	}
	e.doc = snap.Clone()
	e.logger.Debug("redo", "cursor", e.history.Cursor())
	e.emitSnapshot(ctx, domain.EventRedo)
	e.autosave(ctx)
	return e.doc.Clone(), true
}

// Clear resets the document to a single empty layout and restarts history
// from it. Clearing is not undoable.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.doc = domain.NewLayout()
	e.history.Reset(e.doc.Clone())
	e.logger.Debug("document cleared")
	e.emitSnapshot(ctx, domain.EventClear)
	e.autosave(ctx)
	return nil
}

// Import replaces the document with a deserialized and validated layout.
// The previous version stays undoable.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, err := codec.Unmarshal(data)
	if err != nil {
		return err
	}
	e.doc = doc
	e.history.Push(e.doc.Clone())
	e.logger.Debug("document imported", "widgets", e.doc.WidgetCount())
	e.emitSnapshot(ctx, domain.EventImport)
	e.autosave(ctx)
	return nil
}

// Export serializes the current document.
func (e *Engine) Export(pretty bool) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pretty {
		return codec.MarshalIndent(e.doc)
	}
	return codec.Marshal(e.doc)
}

// Theme returns the document's active theme, if one is set.
func (e *Engine) Theme() (domain.ThemeConfig, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.doc.MetadataValue(domain.MetadataKeyTheme)
	if !ok {
		return domain.ThemeConfig{}, false
	}
	return domain.ThemeFromMetadata(v)
}

// emitSnapshot fires the OnSnapshot hook after any history movement.
func (e *Engine) emitSnapshot(ctx context.Context, typ domain.EventType) {
	if e.hooks.OnSnapshot == nil {
		return
	}
	e.hooks.OnSnapshot(ctx, &domain.SnapshotEvent{
		Timestamp: time.Now(),
		Type:      typ,
		Depth:     e.history.Len(),
		Cursor:    e.history.Cursor(),
	})
}

// autosave persists the current document when a store is configured.
// Failures are logged and surfaced through the OnAutosave hook; the
// triggering operation has already succeeded and is never rolled back.
func (e *Engine) autosave(ctx context.Context) {
	if e.store == nil {
		return
	}
	err := e.store.Save(ctx, e.storeKey, e.doc)
	if err != nil {
		e.logger.Warn("autosave failed", "key", e.storeKey, "err", err)
	}
	if e.hooks.OnAutosave != nil {
		e.hooks.OnAutosave(ctx, &domain.AutosaveEvent{
			Timestamp:   time.Now(),
			Key:         e.storeKey,
			WidgetCount: e.doc.WidgetCount(),
			Err:         err,
		})
	}
}
