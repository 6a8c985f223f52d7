package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
)

// Builder accumulates widget declarations and compiles them into a layout.
type Builder struct {
	order []*WidgetBuilder
	ids   map[domain.WidgetID]bool
	theme *domain.ThemeConfig
	meta  map[string]any
	errs  []error
}

// New creates an empty layout builder.
func New() *Builder {
	return &Builder{
		ids:  make(map[domain.WidgetID]bool),
		meta: make(map[string]any),
	}
}

// Root declares a top-level widget. Roots keep declaration order.
func (b *Builder) Root(id, widgetType string) *WidgetBuilder {
	return b.declare("", id, widgetType)
}

// Child declares a widget inside parentID. Siblings keep declaration
// order; declare the parent before its children.
func (b *Builder) Child(parentID, id, widgetType string) *WidgetBuilder {
	if parentID == "" {
		b.errs = append(b.errs, fmt.Errorf("widget %q: parent id must not be empty", id))
	}
	return b.declare(parentID, id, widgetType)
}

// Theme sets the document theme.
func (b *Builder) Theme(theme domain.ThemeConfig) *Builder {
	b.theme = &theme
	return b
}

// Meta sets a document-level metadata value.
func (b *Builder) Meta(key string, value any) *Builder {
	b.meta[key] = value
	return b
}

func (b *Builder) declare(parentID, id, widgetType string) *WidgetBuilder {
	wb := &WidgetBuilder{
		id:     domain.WidgetID(id),
		parent: domain.WidgetID(parentID),
		config: domain.NewWidgetConfig(widgetType),
	}
	switch {
	case id == "":
		b.errs = append(b.errs, errors.New("widget id must not be empty"))
	case b.ids[wb.id]:
		b.errs = append(b.errs, fmt.Errorf("widget %q declared twice", id))
	default:
		b.ids[wb.id] = true
	}
	if widgetType == "" {
		b.errs = append(b.errs, fmt.Errorf("widget %q: widget type must not be empty", id))
	}
	b.order = append(b.order, wb)
	return wb
}

// Build compiles the declarations into a validated layout.
func (b *Builder) Build() (*domain.Layout, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("invalid layout declaration: %w", errors.Join(b.errs...))
	}

	layout := domain.NewLayout()
	for _, wb := range b.order {
		var err error
		if wb.parent == "" {
			err = layout.AddRootWidget(wb.id, wb.config)
		} else {
			err = layout.AddChildWidget(wb.parent, wb.id, wb.config)
		}
		if err != nil {
			return nil, fmt.Errorf("widget %q: %w", wb.id, err)
		}
		for _, kv := range wb.meta {
			if err := layout.SetWidgetMetadata(wb.id, kv.key, kv.value); err != nil {
				return nil, fmt.Errorf("widget %q: %w", wb.id, err)
			}
		}
	}

	if b.theme != nil {
		layout.SetMetadata(domain.MetadataKeyTheme, b.theme.ToMetadata())
	}
	for k, v := range b.meta {
		layout.SetMetadata(k, v)
	}

	if err := layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout declaration: %w", err)
	}
	return layout, nil
}

// MustBuild is Build for fixtures and variable initialization; it panics
// on error.
func (b *Builder) MustBuild() *domain.Layout {
	layout, err := b.Build()
	if err != nil {
		panic(err)
	}
	return layout
}
