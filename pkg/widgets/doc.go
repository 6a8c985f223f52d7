// Package widgets provides the standard widget catalog and the Define
// constructor for custom widget types.
//
// Each widget is a descriptor: a namespaced type tag, palette presentation
// (display name, description, icon), a containment rule, a default
// configuration, and an optional property schema. The Standard catalog
// mirrors what a page editor ships out of the box:
//
//	containers  container.row, container.column, container.grid, container.card
//	layout      layout.spacer
//	text        text.heading, text.paragraph, text
//	basic       basic.button, basic.link, basic.image, basic.divider
//	form        form.textinput, form.textarea, form.checkbox
//
// Custom widgets slot into the same catalog:
//
//	video := widgets.Define("media.video", "Video",
//	    widgets.WithIcon("🎬"),
//	    widgets.WithDefaults(func() domain.WidgetConfig {
//	        return domain.NewWidgetConfig("media.video").
//	            WithProperty("src", "").
//	            WithProperty("autoplay", false)
//	    }),
//	    widgets.WithSchema(schema.Schema{
//	        "src":      schema.Optional(schema.String()),
//	        "autoplay": schema.Optional(schema.Bool()),
//	    }),
//	)
//
//	catalog := widgets.Standard()
//	if err := catalog.Register(video); err != nil { ... }
package widgets
