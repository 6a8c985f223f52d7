// Command gen-catalog renders the widget reference (docs/widgets.md) from
// the standard catalog, so the documentation can never drift from the
// registered descriptors.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/widgets"
)

func main() {
	target := "docs/widgets.md"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating widget reference in: %s\n", target)

	catalog := widgets.Standard()

	var sb strings.Builder
	sb.WriteString("# Widget Catalog\n\n")
	sb.WriteString("<!-- Generated by cmd/gen-catalog. Run `go run ./cmd/gen-catalog` after changing the standard catalog. -->\n\n")
	fmt.Fprintf(&sb, "The standard catalog registers %d widget types. Type tags are namespaced\n", catalog.Len())
	sb.WriteString("by family (`container.*`, `text.*`, `form.*`, ...); the family decides the\n")
	sb.WriteString("default rendering role, never the structure. Properties listed here are\n")
	sb.WriteString("validated in strict mode and pre-filled from the defaults column when a\n")
	sb.WriteString("widget is added without an explicit config.\n")

	for _, typeTag := range catalog.Types() {
		widget, err := catalog.Get(typeTag)
		check(err)
		writeWidget(&sb, widget)
	}

	err := os.WriteFile(target, []byte(sb.String()), 0644)
	check(err)

	fmt.Println("Done. Verify contents in", target)
}

func writeWidget(sb *strings.Builder, widget ports.Widget) {
	fmt.Fprintf(sb, "\n## %s %s (`%s`)\n\n", widget.Icon(), widget.DisplayName(), widget.Type())

	fmt.Fprintf(sb, "%s\n\n", widget.Description())
	if widget.CanHaveChildren() {
		sb.WriteString("Container: accepts child widgets.\n\n")
	}

	schema := widget.PropertySchema()
	if len(schema) == 0 {
		sb.WriteString("No configurable properties.\n")
		return
	}

	defaults := widget.DefaultConfig()

	keys := make([]string, 0, len(schema))
	for key := range schema {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sb.WriteString("| Property | Type | Default |\n")
	sb.WriteString("| --- | --- | --- |\n")
	for _, key := range keys {
		def := ""
		if v, ok := defaults.Property(key); ok {
			switch tv := v.(type) {
			case string:
				def = fmt.Sprintf("`%q`", tv)
			default:
				def = fmt.Sprintf("`%v`", tv)
			}
		}
		fmt.Fprintf(sb, "| `%s` | %s | %s |\n", key, schema[key].Name(), def)
	}
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
