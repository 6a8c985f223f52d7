package loam

// TemplateMetadata represents the frontmatter of a Lattice template file.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type TemplateMetadata struct {
	// Name is the template's public name. When empty, the file name
	// (without extension) is used instead.
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`

	// Theme is applied to the document before any widgets are declared.
	Theme *ThemeSpec `json:"theme" mapstructure:"theme"`

	// Metadata is copied into the document metadata verbatim.
	Metadata map[string]any `json:"metadata" mapstructure:"metadata"`

	// Widgets declares the widget tree. Entries may nest via Children or
	// reference an earlier entry via Parent; parents must be declared
	// before the widgets that go inside them.
	Widgets []WidgetSpec `json:"widgets" mapstructure:"widgets"`
}

// WidgetSpec declares one widget in a template's frontmatter.
type WidgetSpec struct {
	// ID is optional; a fresh one is minted when empty. Widgets that other
	// entries reference via Parent need a stable ID.
	ID   string `json:"id" mapstructure:"id"`
	Type string `json:"type" mapstructure:"type"`

	// Parent places the widget inside an earlier top-level entry. It is
	// ignored for entries nested under Children, where placement comes
	// from the nesting itself.
	Parent string `json:"parent" mapstructure:"parent"`

	// Properties configures the widget. Props is a shorthand alias;
	// Properties wins when both are set.
	Properties map[string]any `json:"properties" mapstructure:"properties"`
	Props      map[string]any `json:"props" mapstructure:"props"`

	Styles  map[string]string `json:"styles" mapstructure:"styles"`
	Classes []string          `json:"classes" mapstructure:"classes"`

	// Meta is per-widget annotation metadata (locks, notes, ...).
	Meta map[string]any `json:"meta" mapstructure:"meta"`

	Children []WidgetSpec `json:"children" mapstructure:"children"`
}

// ThemeSpec mirrors domain.ThemeConfig with frontmatter-friendly keys.
type ThemeSpec struct {
	Name          string            `json:"name" mapstructure:"name"`
	CSSVariables  map[string]string `json:"css_variables" mapstructure:"css_variables"`
	GlobalClasses []string          `json:"global_classes" mapstructure:"global_classes"`
	CustomCSS     string            `json:"custom_css" mapstructure:"custom_css"`
}
