package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// GraphOverlay contains dynamic state to highlight on the rendered graph.
type GraphOverlay struct {
	ChangedWidgets []domain.WidgetID
	SelectedWidget domain.WidgetID
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a layout
// document. It applies semantic styling:
// - Containers (container.*): [[Subroutine]]
// - Form fields (form.*): [/Parallelogram/]
// - Default: [Rectangle]
// Parent/child edges follow declaration order. References to widgets that
// are not defined in the document are drawn dashed so the hole stays
// visible. Overlay styles (Changed/Selected) are applied if provided.
func GenerateMermaid(doc *domain.SerializedLayout, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	if doc != nil {
		seen := make(map[domain.WidgetID]bool)
		for _, id := range doc.RootNodes {
			writeSubtree(&sb, doc, id, seen)
		}

		// Widgets not linked from any root still render, in stable order,
		// so a broken document remains inspectable.
		orphans := make([]string, 0)
		for id := range doc.Nodes {
			if !seen[id] {
				orphans = append(orphans, string(id))
			}
		}
		sort.Strings(orphans)
		for _, id := range orphans {
			writeSubtree(&sb, doc, domain.WidgetID(id), seen)
		}
	}

	// Apply Overlay Styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef changed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef selected fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		// Deduplicate changed widgets (using safeIDs)
		changedSet := make(map[string]bool)
		for _, id := range overlay.ChangedWidgets {
			safeID := sanitizeMermaidID(string(id))
			if !changedSet[safeID] && safeID != "" {
				changedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s changed;\n", safeID))
			}
		}

		if overlay.SelectedWidget != "" {
			safeSelected := sanitizeMermaidID(string(overlay.SelectedWidget))
			sb.WriteString(fmt.Sprintf("    class %s selected;\n", safeSelected))
		}
	}

	return sb.String()
}

// writeSubtree emits the node line and outgoing edges for id, then recurses
// into its children in declaration order. Repeated references are emitted
// once, which also keeps a cyclic (invalid) document from hanging the walk.
func writeSubtree(sb *strings.Builder, doc *domain.SerializedLayout, id domain.WidgetID, seen map[domain.WidgetID]bool) {
	if seen[id] {
		return
	}
	seen[id] = true

	node, ok := doc.Nodes[id]
	if !ok {
		return
	}

	// Sanitize ID for Mermaid
	safeID := sanitizeMermaidID(string(id))

	// Node Shape based on the widget type namespace
	opener, closer := "[", "]"
	switch {
	case strings.HasPrefix(node.Config.WidgetType, "container."):
		opener, closer = "[[", "]]" // Subroutine (holds other widgets)
	case strings.HasPrefix(node.Config.WidgetType, "form."):
		opener, closer = "[/", "/]" // Parallelogram (Input)
	}

	label := fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, id, closer)
	if node.Config.WidgetType != "" {
		// Annotate node with its widget type
		label = fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", safeID, opener, id, node.Config.WidgetType, closer)
	}
	sb.WriteString(label)

	for _, child := range node.Children {
		safeTo := sanitizeMermaidID(string(child))
		if _, defined := doc.Nodes[child]; !defined {
			sb.WriteString(fmt.Sprintf("    %s -. missing .-> %s\n", safeID, safeTo))
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, safeTo))
	}

	for _, child := range node.Children {
		if _, defined := doc.Nodes[child]; defined {
			writeSubtree(sb, doc, child, seen)
		}
	}
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
