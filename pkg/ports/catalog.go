package ports

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/schema"
)

// Widget describes one available widget type: its identity, palette
// presentation, containment rule, default configuration and property
// schema.
type Widget interface {
	// Type returns the namespaced type tag (e.g. "text.heading").
	Type() string

	// DisplayName returns the human-readable palette label.
	DisplayName() string

	// Description returns a one-line palette description.
	Description() string

	// Icon returns a short glyph for palettes and tree views.
	Icon() string

	// CanHaveChildren reports whether the widget acts as a container.
	CanHaveChildren() bool

	// DefaultConfig returns a fresh config carrying the widget's default
	// properties and inline styles. Callers own the returned value.
	DefaultConfig() domain.WidgetConfig

	// PropertySchema describes the properties the widget understands.
	// A nil schema means the widget accepts free-form properties.
	PropertySchema() schema.Schema
}

// WidgetCatalog resolves widget type tags to their descriptors. The
// catalog is the editor's palette: ordering is meaningful and preserved.
type WidgetCatalog interface {
	// Get resolves a type tag. Returns domain.ErrWidgetNotFound when the
	// tag is not registered.
	Get(widgetType string) (Widget, error)

	// Types returns all registered type tags in registration order.
	Types() []string

	// Has reports whether the type tag is registered.
	Has(widgetType string) bool

	// Len returns the number of registered widget types.
	Len() int
}
