package lattice

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/lattice/internal/editor"
	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/widgets"
)

// Editor is the high-level entry point for the lattice library. It wraps
// the internal engine and provides a simplified API for hosts.
type Editor struct {
	engine *editor.Engine
}

var _ ports.LayoutEditor = (*Editor)(nil)

// New creates an Editor over an empty document. The standard widget
// catalog is wired unless WithCatalog overrides it.
func New(opts ...Option) *Editor {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if !cfg.catalogSet {
		cfg.catalog = widgets.Standard()
	}

	engineOpts := cfg.engineOpts
	if cfg.catalog != nil {
		engineOpts = append(engineOpts, editor.WithCatalog(cfg.catalog))
	}
	if cfg.store != nil {
		engineOpts = append(engineOpts, editor.WithStore(cfg.store, cfg.storeKey))
	}

	return &Editor{engine: editor.New(engineOpts...)}
}

// Open loads the document stored under key and returns an Editor that
// autosaves back to it. A missing key starts an empty document; any other
// load failure is returned.
func Open(ctx context.Context, store ports.LayoutStore, key string, opts ...Option) (*Editor, error) {
	initial, err := store.Load(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrLayoutNotFound) {
		return nil, fmt.Errorf("failed to open layout %q: %w", key, err)
	}
	if initial != nil {
		opts = append(opts, WithLayout(initial))
	}
	opts = append(opts, WithStore(store), WithStoreKey(key))
	return New(opts...), nil
}

// NewFromTemplate seeds an Editor with a template fetched from a library.
func NewFromTemplate(library ports.TemplateLibrary, name string, opts ...Option) (*Editor, error) {
	data, err := library.GetTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch template %q: %w", name, err)
	}
	initial, err := codec.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", name, err)
	}
	return New(append(opts, WithLayout(initial))...), nil
}

// Layout returns a detached copy of the current document.
func (e *Editor) Layout() *domain.Layout {
	return e.engine.Layout()
}

// Catalog returns the widget catalog, or nil when disabled.
func (e *Editor) Catalog() ports.WidgetCatalog {
	return e.engine.Catalog()
}

// Apply executes one serialized mutation. On error the document is
// unchanged.
func (e *Editor) Apply(ctx context.Context, m domain.Mutation) (*domain.MutationResult, error) {
	return e.engine.Apply(ctx, m)
}

// AddRootWidget appends a top-level widget of the given type and returns
// its minted id.
func (e *Editor) AddRootWidget(ctx context.Context, widgetType string) (domain.WidgetID, error) {
	return e.engine.AddRootWidget(ctx, widgetType)
}

// InsertRootWidget inserts a top-level widget at position (clamped).
func (e *Editor) InsertRootWidget(ctx context.Context, widgetType string, position int) (domain.WidgetID, error) {
	return e.engine.InsertRootWidget(ctx, widgetType, position)
}

// AddChildWidget appends a widget of the given type under parentID.
func (e *Editor) AddChildWidget(ctx context.Context, parentID domain.WidgetID, widgetType string) (domain.WidgetID, error) {
	return e.engine.AddChildWidget(ctx, parentID, widgetType)
}

// InsertChildWidget inserts a widget under parentID at position (clamped).
func (e *Editor) InsertChildWidget(ctx context.Context, parentID domain.WidgetID, widgetType string, position int) (domain.WidgetID, error) {
	return e.engine.InsertChildWidget(ctx, parentID, widgetType, position)
}

// RemoveWidget removes the widget and its whole subtree.
func (e *Editor) RemoveWidget(ctx context.Context, id domain.WidgetID) error {
	return e.engine.RemoveWidget(ctx, id)
}

// MoveWidgetUp swaps the widget with its predecessor; already first is a
// success that changes nothing.
func (e *Editor) MoveWidgetUp(ctx context.Context, id domain.WidgetID) error {
	return e.engine.MoveWidgetUp(ctx, id)
}

// MoveWidgetDown swaps the widget with its successor; already last is a
// success that changes nothing.
func (e *Editor) MoveWidgetDown(ctx context.Context, id domain.WidgetID) error {
	return e.engine.MoveWidgetDown(ctx, id)
}

// UpdateWidgetConfig replaces the widget's configuration wholesale.
func (e *Editor) UpdateWidgetConfig(ctx context.Context, id domain.WidgetID, cfg domain.WidgetConfig) error {
	return e.engine.UpdateWidgetConfig(ctx, id, cfg)
}

// SetTheme stores the document theme; the change is undoable.
func (e *Editor) SetTheme(ctx context.Context, theme domain.ThemeConfig) error {
	return e.engine.SetTheme(ctx, theme)
}

// Theme returns the document's active theme, if set.
func (e *Editor) Theme() (domain.ThemeConfig, bool) {
	return e.engine.Theme()
}

// Undo steps back one document version.
func (e *Editor) Undo(ctx context.Context) (*domain.Layout, bool) {
	return e.engine.Undo(ctx)
}

// Redo replays one undone version.
func (e *Editor) Redo(ctx context.Context) (*domain.Layout, bool) {
	return e.engine.Redo(ctx)
}

// CanUndo reports whether an older version exists.
func (e *Editor) CanUndo() bool { return e.engine.CanUndo() }

// CanRedo reports whether an undone version can be replayed.
func (e *Editor) CanRedo() bool { return e.engine.CanRedo() }

// History reports the snapshot count and cursor position.
func (e *Editor) History() (depth, cursor int) { return e.engine.History() }

// Clear resets to a single empty document; not undoable.
func (e *Editor) Clear(ctx context.Context) error { return e.engine.Clear(ctx) }

// Import replaces the document with a deserialized and validated layout,
// keeping the previous version undoable.
func (e *Editor) Import(ctx context.Context, data []byte) error {
	return e.engine.Import(ctx, data)
}

// Export serializes the current document, pretty-printed when asked.
func (e *Editor) Export(pretty bool) ([]byte, error) {
	return e.engine.Export(pretty)
}
