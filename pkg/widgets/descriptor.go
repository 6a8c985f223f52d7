package widgets

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/schema"
)

// descriptor is the standard ports.Widget implementation.
type descriptor struct {
	typeTag     string
	displayName string
	description string
	icon        string
	container   bool
	defaults    func() domain.WidgetConfig
	properties  schema.Schema
}

var _ ports.Widget = (*descriptor)(nil)

func (d *descriptor) Type() string          { return d.typeTag }
func (d *descriptor) DisplayName() string   { return d.displayName }
func (d *descriptor) Description() string   { return d.description }
func (d *descriptor) Icon() string          { return d.icon }
func (d *descriptor) CanHaveChildren() bool { return d.container }

func (d *descriptor) DefaultConfig() domain.WidgetConfig {
	return d.defaults()
}

func (d *descriptor) PropertySchema() schema.Schema {
	return d.properties
}

// Option customizes a widget descriptor created with Define.
type Option func(*descriptor)

// WithDescription sets the one-line palette description.
func WithDescription(text string) Option {
	return func(d *descriptor) { d.description = text }
}

// WithIcon sets the palette glyph.
func WithIcon(glyph string) Option {
	return func(d *descriptor) { d.icon = glyph }
}

// AsContainer marks the widget as able to hold children.
func AsContainer() Option {
	return func(d *descriptor) { d.container = true }
}

// WithDefaults sets the default config builder. The builder must return a
// fresh value on every call; descriptors never cache configs.
func WithDefaults(build func() domain.WidgetConfig) Option {
	return func(d *descriptor) { d.defaults = build }
}

// WithSchema declares the properties the widget understands.
func WithSchema(s schema.Schema) Option {
	return func(d *descriptor) { d.properties = s }
}

// Define creates a widget descriptor. Without options the widget is a
// childless leaf whose default config carries only the type tag.
func Define(typeTag, displayName string, opts ...Option) ports.Widget {
	d := &descriptor{
		typeTag:     typeTag,
		displayName: displayName,
		defaults: func() domain.WidgetConfig {
			return domain.NewWidgetConfig(typeTag)
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}
