package domain

// ThemeConfig describes the visual theme applied to a whole document:
// CSS custom properties, classes applied to the page root, and optional
// free-form CSS appended by the host.
//
// The engine stores the active theme in document metadata (see
// MetadataKeyTheme) so it travels with exports; it never interprets the
// values itself.
type ThemeConfig struct {
	Name          string            `json:"name" yaml:"name"`
	CSSVariables  map[string]string `json:"css_variables" yaml:"css_variables"`
	GlobalClasses []string          `json:"global_classes" yaml:"global_classes"`
	CustomCSS     string            `json:"custom_css,omitempty" yaml:"custom_css,omitempty"`
}

// DefaultTheme returns the built-in light theme.
func DefaultTheme() ThemeConfig {
	return ThemeConfig{
		Name: "default",
		CSSVariables: map[string]string{
			"--wysiwyg-spacing":    "8px",
			"--wysiwyg-radius":     "4px",
			"--wysiwyg-font":       "system-ui, sans-serif",
			"--wysiwyg-text":       "#111827",
			"--wysiwyg-background": "#ffffff",
			"--wysiwyg-border":     "#e5e7eb",
			"--wysiwyg-accent":     "#3b82f6",
		},
		GlobalClasses: []string{},
	}
}

// Clone returns a deep copy of the theme.
func (t ThemeConfig) Clone() ThemeConfig {
	out := ThemeConfig{
		Name:          t.Name,
		CSSVariables:  make(map[string]string, len(t.CSSVariables)),
		GlobalClasses: make([]string, len(t.GlobalClasses)),
		CustomCSS:     t.CustomCSS,
	}
	for k, v := range t.CSSVariables {
		out.CSSVariables[k] = v
	}
	copy(out.GlobalClasses, t.GlobalClasses)
	return out
}

// ToMetadata renders the theme as a JSON-shaped map. Document metadata
// only deep-copies maps, slices and scalars, so the theme must be stored
// in this form rather than as a struct value.
func (t ThemeConfig) ToMetadata() map[string]any {
	vars := make(map[string]any, len(t.CSSVariables))
	for k, v := range t.CSSVariables {
		vars[k] = v
	}
	classes := make([]any, len(t.GlobalClasses))
	for i, c := range t.GlobalClasses {
		classes[i] = c
	}
	out := map[string]any{
		"name":           t.Name,
		"css_variables":  vars,
		"global_classes": classes,
	}
	if t.CustomCSS != "" {
		out["custom_css"] = t.CustomCSS
	}
	return out
}

// ThemeFromMetadata rebuilds a theme from the form produced by ToMetadata
// or its JSON round-trip. It reports false when the value does not look
// like a theme.
func ThemeFromMetadata(v any) (ThemeConfig, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return ThemeConfig{}, false
	}
	name, ok := m["name"].(string)
	if !ok {
		return ThemeConfig{}, false
	}

	theme := ThemeConfig{
		Name:          name,
		CSSVariables:  map[string]string{},
		GlobalClasses: []string{},
	}
	if vars, ok := m["css_variables"].(map[string]any); ok {
		for k, val := range vars {
			if s, ok := val.(string); ok {
				theme.CSSVariables[k] = s
			}
		}
	}
	if classes, ok := m["global_classes"].([]any); ok {
		for _, c := range classes {
			if s, ok := c.(string); ok {
				theme.GlobalClasses = append(theme.GlobalClasses, s)
			}
		}
	}
	if css, ok := m["custom_css"].(string); ok {
		theme.CustomCSS = css
	}
	return theme, true
}
