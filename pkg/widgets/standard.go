package widgets

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/aretw0/lattice/pkg/schema"
)

// Standard returns a catalog pre-registered with the built-in widgets in
// palette order: containers first, then text, basic elements and form
// fields.
func Standard() *registry.Registry {
	r := registry.New()
	for _, w := range []ports.Widget{
		Row(),
		Column(),
		Grid(),
		Card(),
		Spacer(),
		Heading(),
		Paragraph(),
		Text(),
		Button(),
		Link(),
		Image(),
		TextInput(),
		TextArea(),
		Checkbox(),
		Divider(),
	} {
		r.MustRegister(w)
	}
	return r
}

// Every standard property has a renderer-side fallback, so the schemas
// mark them all optional: sparse configs are valid, present values must
// still type-check.

// Row arranges child widgets horizontally.
func Row() ports.Widget {
	return Define("container.row", "Row Container",
		WithDescription("Arranges child widgets horizontally in a row"),
		WithIcon("⬌"),
		AsContainer(),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("container.row").
				WithStyle("display", "flex").
				WithStyle("flex-direction", "row").
				WithStyle("gap", "var(--wysiwyg-spacing, 8px)")
		}),
	)
}

// Column arranges child widgets vertically.
func Column() ports.Widget {
	return Define("container.column", "Column Container",
		WithDescription("Arranges child widgets vertically in a column"),
		WithIcon("⬍"),
		AsContainer(),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("container.column").
				WithStyle("display", "flex").
				WithStyle("flex-direction", "column").
				WithStyle("gap", "var(--wysiwyg-spacing, 8px)")
		}),
	)
}

// Grid arranges child widgets in a responsive grid.
func Grid() ports.Widget {
	return Define("container.grid", "Grid Container",
		WithDescription("Arranges child widgets in a responsive grid"),
		WithIcon("▦"),
		AsContainer(),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("container.grid").
				WithStyle("display", "grid").
				WithStyle("grid-template-columns", "repeat(auto-fit, minmax(200px, 1fr))").
				WithStyle("gap", "var(--wysiwyg-spacing, 8px)")
		}),
	)
}

// Card is a styled panel that can contain other widgets.
func Card() ports.Widget {
	return Define("container.card", "Card",
		WithDescription("A styled card/panel that can contain other widgets"),
		WithIcon("▢"),
		AsContainer(),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("container.card").
				WithProperty("title", "").
				WithStyle("border", "1px solid #e5e7eb").
				WithStyle("border-radius", "8px").
				WithStyle("padding", "16px").
				WithStyle("background", "#ffffff").
				WithStyle("box-shadow", "0 1px 3px rgba(0,0,0,0.1)")
		}),
		WithSchema(schema.Schema{
			"title": schema.Optional(schema.String()),
		}),
	)
}

// Spacer is empty space for layout control.
func Spacer() ports.Widget {
	return Define("layout.spacer", "Spacer",
		WithDescription("Empty space for layout control"),
		WithIcon("⬜"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("layout.spacer").
				WithProperty("height", 20).
				WithStyle("width", "100%")
		}),
		WithSchema(schema.Schema{
			"height": schema.Optional(schema.Int()),
		}),
	)
}

// Heading is an H1-H6 heading element.
func Heading() ports.Widget {
	return Define("text.heading", "Heading",
		WithDescription("Heading element (H1-H6)"),
		WithIcon("H"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("text.heading").
				WithProperty("content", "Heading").
				WithProperty("level", 1)
		}),
		WithSchema(schema.Schema{
			"content": schema.Optional(schema.String()),
			"level":   schema.Optional(schema.Int()),
		}),
	)
}

// Paragraph is a block of text with optional Markdown support.
func Paragraph() ports.Widget {
	return Define("text.paragraph", "Paragraph",
		WithDescription("Paragraph of text with optional Markdown support"),
		WithIcon("¶"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("text.paragraph").
				WithProperty("content", "This is a paragraph of text. You can edit it in the configuration panel.").
				WithProperty("markdown", false)
		}),
		WithSchema(schema.Schema{
			"content":  schema.Optional(schema.String()),
			"markdown": schema.Optional(schema.Bool()),
		}),
	)
}

// Text is rich inline text with formatting flags.
func Text() ports.Widget {
	return Define("text", "Text",
		WithDescription("Rich text with formatting support"),
		WithIcon("T"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("text").
				WithProperty("content", "Enter text here...").
				WithProperty("bold", false).
				WithProperty("italic", false).
				WithProperty("underline", false)
		}),
		WithSchema(schema.Schema{
			"content":   schema.Optional(schema.String()),
			"bold":      schema.Optional(schema.Bool()),
			"italic":    schema.Optional(schema.Bool()),
			"underline": schema.Optional(schema.Bool()),
		}),
	)
}

// Button is a clickable button.
func Button() ports.Widget {
	return Define("basic.button", "Button",
		WithDescription("A clickable button"),
		WithIcon("🔘"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("basic.button").
				WithProperty("text", "Click me").
				WithProperty("variant", "primary").
				WithStyle("padding", "8px 16px").
				WithStyle("border", "none").
				WithStyle("border-radius", "4px").
				WithStyle("cursor", "pointer").
				WithStyle("font-size", "14px").
				WithStyle("font-weight", "500")
		}),
		WithSchema(schema.Schema{
			"text":    schema.Optional(schema.String()),
			"variant": schema.Optional(schema.Enum("primary", "secondary", "success", "danger")),
		}),
	)
}

// Link is a clickable link that can wrap other widgets.
func Link() ports.Widget {
	return Define("basic.link", "Link",
		WithDescription("A clickable link container - put images, text, or any widget inside"),
		WithIcon("🔗"),
		AsContainer(),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("basic.link").
				WithProperty("href", "https://example.com").
				WithProperty("target", "_self").
				WithStyle("color", "#3b82f6").
				WithStyle("text-decoration", "none").
				WithStyle("cursor", "pointer").
				WithStyle("display", "inline-block")
		}),
		WithSchema(schema.Schema{
			"href":   schema.Optional(schema.String()),
			"target": schema.Optional(schema.Enum("_self", "_blank")),
		}),
	)
}

// Image is an image with configurable source and alt text.
func Image() ports.Widget {
	return Define("basic.image", "Image",
		WithDescription("An image with configurable source and alt text"),
		WithIcon("🖼️"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("basic.image").
				WithProperty("src", "https://via.placeholder.com/400x300").
				WithProperty("alt", "Placeholder image").
				WithStyle("max-width", "100%").
				WithStyle("height", "auto").
				WithStyle("display", "block")
		}),
		WithSchema(schema.Schema{
			"src": schema.Optional(schema.String()),
			"alt": schema.Optional(schema.String()),
		}),
	)
}

// TextInput is a single-line form input.
func TextInput() ports.Widget {
	return Define("form.textinput", "Text Input",
		WithDescription("Single-line text input field"),
		WithIcon("📝"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("form.textinput").
				WithProperty("placeholder", "Enter text...").
				WithProperty("label", "").
				WithProperty("type", "text").
				WithStyle("width", "100%").
				WithStyle("padding", "8px 12px").
				WithStyle("border", "1px solid #d1d5db").
				WithStyle("border-radius", "4px").
				WithStyle("font-size", "14px")
		}),
		WithSchema(schema.Schema{
			"placeholder": schema.Optional(schema.String()),
			"label":       schema.Optional(schema.String()),
			"type":        schema.Optional(schema.Enum("text", "email", "password", "tel", "url", "number")),
		}),
	)
}

// TextArea is a multi-line form input.
func TextArea() ports.Widget {
	return Define("form.textarea", "Text Area",
		WithDescription("Multi-line text input field"),
		WithIcon("📄"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("form.textarea").
				WithProperty("placeholder", "Enter text...").
				WithProperty("label", "").
				WithProperty("rows", 4).
				WithStyle("width", "100%").
				WithStyle("padding", "8px 12px").
				WithStyle("border", "1px solid #d1d5db").
				WithStyle("border-radius", "4px").
				WithStyle("font-size", "14px").
				WithStyle("font-family", "inherit").
				WithStyle("resize", "vertical")
		}),
		WithSchema(schema.Schema{
			"placeholder": schema.Optional(schema.String()),
			"label":       schema.Optional(schema.String()),
			"rows":        schema.Optional(schema.Int()),
		}),
	)
}

// Checkbox is a boolean form input.
func Checkbox() ports.Widget {
	return Define("form.checkbox", "Checkbox",
		WithDescription("Checkbox input field"),
		WithIcon("☑️"),
		WithDefaults(func() domain.WidgetConfig {
			return domain.NewWidgetConfig("form.checkbox").
				WithProperty("label", "Check me").
				WithProperty("checked", false)
		}),
		WithSchema(schema.Schema{
			"label":   schema.Optional(schema.String()),
			"checked": schema.Optional(schema.Bool()),
		}),
	)
}

// Divider is a horizontal separator line.
func Divider() ports.Widget {
	return Define("basic.divider", "Divider",
		WithDescription("A horizontal line to separate content"),
		WithIcon("─"),
		WithDefaults(func() domain.WidgetConfig {
			// Thickness is a string: it feeds a CSS border width directly.
			return domain.NewWidgetConfig("basic.divider").
				WithProperty("thickness", "1").
				WithProperty("color", "#e5e7eb").
				WithStyle("margin", "16px 0")
		}),
		WithSchema(schema.Schema{
			"thickness": schema.Optional(schema.String()),
			"color":     schema.Optional(schema.String()),
		}),
	)
}
