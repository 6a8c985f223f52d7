package domain

// WidgetConfig carries everything a renderer needs to draw one widget: the
// type tag resolved through the widget catalog, a free-form property map,
// and styling metadata (CSS classes and inline styles).
//
// Configs have value semantics. The With* builders return a modified copy
// and never touch the receiver's maps, so a config held by one node can be
// used as the template for another without aliasing. SetProperty is the
// in-place counterpart for callers that own the value.
type WidgetConfig struct {
	WidgetType   string            `json:"widget_type" yaml:"widget_type"`
	Properties   map[string]any    `json:"properties" yaml:"properties"`
	CSSClasses   []string          `json:"css_classes" yaml:"css_classes"`
	InlineStyles map[string]string `json:"inline_styles" yaml:"inline_styles"`
}

// NewWidgetConfig creates an empty config for the given widget type tag.
func NewWidgetConfig(widgetType string) WidgetConfig {
	return WidgetConfig{
		WidgetType:   widgetType,
		Properties:   make(map[string]any),
		CSSClasses:   []string{},
		InlineStyles: make(map[string]string),
	}
}

// WithProperty returns a copy of the config with the property set.
// Property keys are unordered and last-write-wins.
func (c WidgetConfig) WithProperty(key string, value any) WidgetConfig {
	out := c.Clone()
	out.Properties[key] = value
	return out
}

// WithClass returns a copy of the config with the CSS class appended.
// Class order is preserved.
func (c WidgetConfig) WithClass(class string) WidgetConfig {
	out := c.Clone()
	out.CSSClasses = append(out.CSSClasses, class)
	return out
}

// WithStyle returns a copy of the config with the inline style set.
func (c WidgetConfig) WithStyle(key, value string) WidgetConfig {
	out := c.Clone()
	out.InlineStyles[key] = value
	return out
}

// SetProperty sets a property in place.
func (c *WidgetConfig) SetProperty(key string, value any) {
	if c.Properties == nil {
		c.Properties = make(map[string]any)
	}
	c.Properties[key] = value
}

// Property returns the property value and whether it was present.
func (c WidgetConfig) Property(key string) (any, bool) {
	v, ok := c.Properties[key]
	return v, ok
}

// StringProperty returns the property as a string, or the fallback when the
// property is absent or not a string.
func (c WidgetConfig) StringProperty(key, fallback string) string {
	if v, ok := c.Properties[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// Clone returns a deep copy of the config. Property values are copied one
// level deep for nested maps and slices, which covers everything the JSON
// codec can produce.
func (c WidgetConfig) Clone() WidgetConfig {
	out := WidgetConfig{
		WidgetType:   c.WidgetType,
		Properties:   cloneAnyMap(c.Properties),
		CSSClasses:   make([]string, len(c.CSSClasses)),
		InlineStyles: make(map[string]string, len(c.InlineStyles)),
	}
	copy(out.CSSClasses, c.CSSClasses)
	for k, v := range c.InlineStyles {
		out.InlineStyles[k] = v
	}
	return out
}

// cloneAnyMap deep-copies a JSON-shaped map (maps, slices, scalars).
func cloneAnyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAnyValue(v)
	}
	return out
}

func cloneAnyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return cloneAnyMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = cloneAnyValue(e)
		}
		return out
	default:
		return v
	}
}
