package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Outline renders a layout document as a markdown outline: the widget
// forest with type tags, CSS classes and scalar properties. The result is
// meant to go through the glamour renderer when stdout is a terminal and
// print as-is otherwise, so it stays plain markdown.
func Outline(doc *domain.SerializedLayout, catalog ports.WidgetCatalog) string {
	var sb strings.Builder

	sb.WriteString("# Layout\n\n")
	fmt.Fprintf(&sb, "- version: `%s`\n", doc.Version)
	fmt.Fprintf(&sb, "- widgets: %d (%d top-level)\n", len(doc.Nodes), len(doc.RootNodes))
	if theme, ok := themeName(doc); ok {
		fmt.Fprintf(&sb, "- theme: %s\n", theme)
	}

	if len(doc.RootNodes) > 0 {
		sb.WriteString("\n## Widgets\n\n")
		seen := make(map[domain.WidgetID]bool)
		for _, id := range doc.RootNodes {
			writeOutlineNode(&sb, doc, catalog, id, 0, seen)
		}

		// Nodes no root reaches still show up: a broken document must stay
		// inspectable.
		orphans := make([]string, 0)
		for id := range doc.Nodes {
			if !seen[id] {
				orphans = append(orphans, string(id))
			}
		}
		if len(orphans) > 0 {
			sort.Strings(orphans)
			sb.WriteString("\n## Unattached\n\n")
			for _, id := range orphans {
				writeOutlineNode(&sb, doc, catalog, domain.WidgetID(id), 0, seen)
			}
		}
	}

	return sb.String()
}

func writeOutlineNode(sb *strings.Builder, doc *domain.SerializedLayout, catalog ports.WidgetCatalog, id domain.WidgetID, depth int, seen map[domain.WidgetID]bool) {
	if seen[id] {
		return
	}
	seen[id] = true

	node, ok := doc.Nodes[id]
	if !ok {
		fmt.Fprintf(sb, "%s- ~~%s~~ (missing)\n", strings.Repeat("  ", depth), id)
		return
	}

	label := node.Config.WidgetType
	if catalog != nil {
		if w, err := catalog.Get(node.Config.WidgetType); err == nil {
			label = fmt.Sprintf("%s %s", w.Icon(), w.DisplayName())
		}
	}

	line := fmt.Sprintf("%s- **%s** `%s`", strings.Repeat("  ", depth), label, shortID(id))
	if extras := describeConfig(node.Config); extras != "" {
		line += " (" + extras + ")"
	}
	sb.WriteString(line + "\n")

	for _, child := range node.Children {
		writeOutlineNode(sb, doc, catalog, child, depth+1, seen)
	}
}

// describeConfig summarizes the scalar properties and classes of a config
// on one line, keys sorted for stable output.
func describeConfig(cfg domain.WidgetConfig) string {
	parts := make([]string, 0, 4)

	keys := make([]string, 0, len(cfg.Properties))
	for k := range cfg.Properties {
		if isScalar(cfg.Properties[k]) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	const maxProps = 3
	for i, k := range keys {
		if i == maxProps {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %v", k, cfg.Properties[k]))
	}

	for _, class := range cfg.CSSClasses {
		parts = append(parts, "."+class)
	}

	return strings.Join(parts, ", ")
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int64, float64, nil:
		return true
	default:
		return false
	}
}

// shortID keeps outlines readable: UUID text is trimmed to its first
// group, other id forms pass through.
func shortID(id domain.WidgetID) string {
	s := string(id)
	if len(s) == 36 && strings.Count(s, "-") == 4 {
		return s[:8]
	}
	return s
}

func themeName(doc *domain.SerializedLayout) (string, bool) {
	raw, ok := doc.Metadata[domain.MetadataKeyTheme]
	if !ok {
		return "", false
	}
	theme, ok := domain.ThemeFromMetadata(raw)
	if !ok {
		return "", false
	}
	return theme.Name, true
}
