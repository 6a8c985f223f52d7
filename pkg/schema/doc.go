// Package schema provides runtime validation for widget property maps.
//
// Widget properties travel as decoded JSON (map[string]any), so the type
// system speaks JSON's dialect: numbers may arrive as float64 even when a
// property is conceptually an int, arrays arrive as []any, and every value
// is optional unless a schema says otherwise. A Schema maps property names
// to expected types:
//
//	props := schema.Schema{
//	    "content": schema.String(),
//	    "level":   schema.Int(),
//	    "tags":    schema.Slice(schema.String()),
//	    "variant": schema.Enum("primary", "secondary", "success", "danger"),
//	    "width":   schema.Optional(schema.Int()),
//	}
//
//	if err := schema.Validate(props, node.Config.Properties); err != nil {
//	    // err aggregates every failing property
//	}
//
// Schemas also have a compact string form used in catalog files and over
// the wire, parsed with ParseType / ParseTypeMap:
//
//	"string"      plain string
//	"int?"        optional integer
//	"[string]"    slice of strings
//	"enum(a|b)"   one of the listed literals
//
// Custom validators cover anything the built-ins cannot express:
//
//	hexColor := schema.Custom("hex_color", func(v any) error {
//	    s, ok := v.(string)
//	    if !ok || !strings.HasPrefix(s, "#") {
//	        return fmt.Errorf("expected #rrggbb color")
//	    }
//	    return nil
//	})
//
// The package has no dependencies beyond the standard library and carries
// no widget knowledge of its own; the widget catalog supplies the schemas.
package schema
