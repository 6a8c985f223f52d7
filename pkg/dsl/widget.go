package dsl

import "github.com/aretw0/lattice/pkg/domain"

// WidgetBuilder provides a fluent API for configuring one declared widget.
type WidgetBuilder struct {
	id     domain.WidgetID
	parent domain.WidgetID
	config domain.WidgetConfig
	// meta keeps declaration order so Build applies values predictably.
	meta []metaEntry
}

type metaEntry struct {
	key   string
	value any
}

// Property sets one configuration property.
func (w *WidgetBuilder) Property(key string, value any) *WidgetBuilder {
	w.config.SetProperty(key, value)
	return w
}

// Properties sets several configuration properties at once.
func (w *WidgetBuilder) Properties(props map[string]any) *WidgetBuilder {
	for k, v := range props {
		w.config.SetProperty(k, v)
	}
	return w
}

// Style sets one inline CSS declaration.
func (w *WidgetBuilder) Style(key, value string) *WidgetBuilder {
	w.config = w.config.WithStyle(key, value)
	return w
}

// Class appends CSS classes.
func (w *WidgetBuilder) Class(classes ...string) *WidgetBuilder {
	for _, c := range classes {
		w.config = w.config.WithClass(c)
	}
	return w
}

// Meta sets a widget-level metadata value (host annotations such as
// lock flags or editor labels).
func (w *WidgetBuilder) Meta(key string, value any) *WidgetBuilder {
	w.meta = append(w.meta, metaEntry{key: key, value: value})
	return w
}
