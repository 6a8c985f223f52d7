package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
)

func docWith(roots []domain.WidgetID, nodes map[domain.WidgetID]*domain.LayoutNode) *domain.SerializedLayout {
	doc := domain.NewSerializedLayout()
	doc.RootNodes = roots
	for id, node := range nodes {
		doc.Nodes[id] = node
	}
	return doc
}

func node(widgetType string, children ...domain.WidgetID) *domain.LayoutNode {
	n := domain.NewLayoutNode(domain.NewWidgetConfig(widgetType))
	n.Children = children
	return n
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		doc      *domain.SerializedLayout
		contains []string
	}{
		{
			name: "Container Shape",
			doc: docWith([]domain.WidgetID{"hero"}, map[domain.WidgetID]*domain.LayoutNode{
				"hero": node("container.card"),
			}),
			contains: []string{
				"hero[[\"hero <br/> container.card\"]]",
			},
		},
		{
			name: "Input Shape",
			doc: docWith([]domain.WidgetID{"email"}, map[domain.WidgetID]*domain.LayoutNode{
				"email": node("form.textinput"),
			}),
			contains: []string{
				"email[/\"email <br/> form.textinput\"/]",
			},
		},
		{
			name: "Default Shape",
			doc: docWith([]domain.WidgetID{"title"}, map[domain.WidgetID]*domain.LayoutNode{
				"title": node("text.heading"),
			}),
			contains: []string{
				"title[\"title <br/> text.heading\"]",
			},
		},
		{
			name: "ID Sanitization",
			doc: docWith([]domain.WidgetID{"hero-block"}, map[domain.WidgetID]*domain.LayoutNode{
				"hero-block":       node("container.row", "hero-block.title"),
				"hero-block.title": node("text.heading"),
			}),
			contains: []string{
				"hero_block[[\"hero-block <br/> container.row\"]]",
				"hero_block_title[\"hero-block.title <br/> text.heading\"]",
				"hero_block --> hero_block_title",
			},
		},
		{
			name: "Dangling Reference",
			doc: docWith([]domain.WidgetID{"hero"}, map[domain.WidgetID]*domain.LayoutNode{
				"hero": node("container.card", "ghost"),
			}),
			contains: []string{
				"hero -. missing .-> ghost",
			},
		},
		{
			name: "Orphan Still Renders",
			doc: docWith([]domain.WidgetID{"hero"}, map[domain.WidgetID]*domain.LayoutNode{
				"hero":     node("container.card"),
				"stranded": node("text.paragraph"),
			}),
			contains: []string{
				"stranded[\"stranded <br/> text.paragraph\"]",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.doc, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	doc := docWith([]domain.WidgetID{"hero"}, map[domain.WidgetID]*domain.LayoutNode{
		"hero": node("container.card"),
	})

	got := graph.GenerateMermaid(doc, &graph.GraphOverlay{
		ChangedWidgets: []domain.WidgetID{"hero", "hero"},
		SelectedWidget: "hero",
	})

	if !strings.Contains(got, "classDef changed") || !strings.Contains(got, "classDef selected") {
		t.Errorf("overlay class definitions missing:\n%v", got)
	}
	if strings.Count(got, "class hero changed;") != 1 {
		t.Errorf("changed widgets should be deduplicated:\n%v", got)
	}
	if !strings.Contains(got, "class hero selected;") {
		t.Errorf("selected widget style missing:\n%v", got)
	}
}

func TestGenerateMermaid_EmptyDocument(t *testing.T) {
	got := graph.GenerateMermaid(domain.NewSerializedLayout(), nil)
	if !strings.HasPrefix(got, "graph TD") {
		t.Errorf("expected flowchart header, got: %v", got)
	}
}
