// Package registry implements the widget catalog: an ordered,
// concurrency-safe collection of widget descriptors keyed by type tag.
//
// Registration order is preserved because the catalog doubles as the
// editor palette, where "Row Container" is expected before "Checkbox".
package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Registry manages the available widget types.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	widgets map[string]ports.Widget
}

var _ ports.WidgetCatalog = (*Registry)(nil)

// New creates a new empty registry.
func New() *Registry {
	return &Registry{
		widgets: make(map[string]ports.Widget),
	}
}

// Register adds a widget descriptor to the registry. Registering a type
// tag twice is refused so palettes cannot silently shadow widgets.
func (r *Registry) Register(w ports.Widget) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	widgetType := w.Type()
	if _, exists := r.widgets[widgetType]; exists {
		return fmt.Errorf("%w: widget type %q is already registered", domain.ErrInvalidOperation, widgetType)
	}
	r.widgets[widgetType] = w
	r.order = append(r.order, widgetType)
	return nil
}

// MustRegister is Register with a panic on error, for wiring static
// catalogs at startup.
func (r *Registry) MustRegister(w ports.Widget) {
	if err := r.Register(w); err != nil {
		panic(err)
	}
}

// Get resolves a widget descriptor by type tag.
func (r *Registry) Get(widgetType string) (ports.Widget, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.widgets[widgetType]
	if !ok {
		return nil, fmt.Errorf("%w: widget type %q", domain.ErrWidgetNotFound, widgetType)
	}
	return w, nil
}

// Types returns all registered type tags in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Widgets returns all descriptors in registration order.
func (r *Registry) Widgets() []ports.Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ports.Widget, 0, len(r.order))
	for _, widgetType := range r.order {
		out = append(out, r.widgets[widgetType])
	}
	return out
}

// Has reports whether the type tag is registered.
func (r *Registry) Has(widgetType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.widgets[widgetType]
	return ok
}

// Len returns the number of registered widget types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.widgets)
}
