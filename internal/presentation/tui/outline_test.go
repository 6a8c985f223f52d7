package tui_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/widgets"
)

func outlineDoc() *domain.SerializedLayout {
	doc := domain.NewSerializedLayout()
	doc.RootNodes = []domain.WidgetID{"hero"}

	hero := domain.NewLayoutNode(domain.NewWidgetConfig("container.card"))
	hero.Children = []domain.WidgetID{"title"}
	hero.Config.CSSClasses = []string{"hero", "shadow"}

	title := domain.NewLayoutNode(domain.NewWidgetConfig("text.heading"))
	title.Config.Properties["text"] = "Welcome"
	title.Config.Properties["level"] = 2
	parent := domain.WidgetID("hero")
	title.Parent = &parent

	doc.Nodes["hero"] = hero
	doc.Nodes["title"] = title
	return doc
}

func TestOutline(t *testing.T) {
	got := tui.Outline(outlineDoc(), widgets.Standard())

	for _, want := range []string{
		"# Layout",
		"version: `" + domain.FormatVersion + "`",
		"widgets: 2 (1 top-level)",
		"## Widgets",
		"Card",               // catalog display name replaces the raw tag
		"`hero`",
		".hero, .shadow",
		"level: 2, text: Welcome", // properties sorted by key
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Outline() missing %q:\n%v", want, got)
		}
	}

	// The child renders nested under its parent.
	heroLine := strings.Index(got, "`hero`")
	titleLine := strings.Index(got, "`title`")
	if heroLine < 0 || titleLine < heroLine {
		t.Errorf("child should follow parent:\n%v", got)
	}
	if !strings.Contains(got, "\n  - ") {
		t.Errorf("child should be indented:\n%v", got)
	}
}

func TestOutline_NilCatalog(t *testing.T) {
	got := tui.Outline(outlineDoc(), nil)
	if !strings.Contains(got, "**container.card**") {
		t.Errorf("raw type tag should label nodes without a catalog:\n%v", got)
	}
}

func TestOutline_Theme(t *testing.T) {
	doc := outlineDoc()
	doc.Metadata[domain.MetadataKeyTheme] = domain.ThemeConfig{Name: "dark"}.ToMetadata()

	got := tui.Outline(doc, nil)
	if !strings.Contains(got, "theme: dark") {
		t.Errorf("theme line missing:\n%v", got)
	}
}

func TestOutline_UnattachedAndMissing(t *testing.T) {
	doc := outlineDoc()
	doc.Nodes["stranded"] = domain.NewLayoutNode(domain.NewWidgetConfig("text.paragraph"))
	doc.Nodes["hero"].Children = append(doc.Nodes["hero"].Children, "ghost")

	got := tui.Outline(doc, nil)
	if !strings.Contains(got, "## Unattached") || !strings.Contains(got, "`stranded`") {
		t.Errorf("orphan section missing:\n%v", got)
	}
	if !strings.Contains(got, "~~ghost~~ (missing)") {
		t.Errorf("dangling reference should stay visible:\n%v", got)
	}
}

func TestOutline_ShortensUUIDs(t *testing.T) {
	doc := domain.NewSerializedLayout()
	id := domain.WidgetID("a1b2c3d4-0000-4000-8000-123456789abc")
	doc.RootNodes = []domain.WidgetID{id}
	doc.Nodes[id] = domain.NewLayoutNode(domain.NewWidgetConfig("text"))

	got := tui.Outline(doc, nil)
	if !strings.Contains(got, "`a1b2c3d4`") {
		t.Errorf("uuid should be shortened to its first group:\n%v", got)
	}
	if strings.Contains(got, "123456789abc") {
		t.Errorf("full uuid should not appear:\n%v", got)
	}
}
