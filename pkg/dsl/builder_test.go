package dsl

import (
	"testing"

	"github.com/aretw0/lattice/pkg/codec"
	"github.com/aretw0/lattice/pkg/domain"
)

func TestBuilder_ComposesTree(t *testing.T) {
	// 1. Declare the page using the DSL
	b := New()

	b.Root("hero", "container.card").
		Property("title", "Welcome").
		Style("background", "#0f172a").
		Class("hero", "dark")

	b.Child("hero", "hero-title", "text.heading").
		Property("content", "Build pages in Go").
		Property("level", 1)

	b.Child("hero", "hero-cta", "basic.button").
		Property("text", "Get started")

	b.Root("footer", "text.paragraph").
		Property("content", "© 2026")

	b.Theme(domain.ThemeConfig{Name: "dark"})
	b.Meta("title", "Landing")

	// 2. Compile to a layout
	layout, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify structure
	roots := layout.RootWidgets()
	if len(roots) != 2 || roots[0] != "hero" || roots[1] != "footer" {
		t.Fatalf("expected roots [hero footer], got %v", roots)
	}

	hero, ok := layout.Widget("hero")
	if !ok {
		t.Fatal("hero widget missing")
	}
	if got := hero.Config.WidgetType; got != "container.card" {
		t.Errorf("expected hero type 'container.card', got %q", got)
	}
	if got := hero.Config.Properties["title"]; got != "Welcome" {
		t.Errorf("expected title 'Welcome', got %v", got)
	}
	if got := hero.Config.InlineStyles["background"]; got != "#0f172a" {
		t.Errorf("expected background style, got %q", got)
	}
	if len(hero.Config.CSSClasses) != 2 {
		t.Errorf("expected 2 classes, got %v", hero.Config.CSSClasses)
	}
	if len(hero.Children) != 2 || hero.Children[0] != "hero-title" || hero.Children[1] != "hero-cta" {
		t.Errorf("expected children in declaration order, got %v", hero.Children)
	}

	title, ok := layout.Widget("hero-title")
	if !ok {
		t.Fatal("hero-title widget missing")
	}
	if title.Parent == nil || *title.Parent != "hero" {
		t.Errorf("expected hero-title parent 'hero', got %v", title.Parent)
	}

	// 4. Document extras
	if meta, ok := layout.MetadataValue("title"); !ok || meta != "Landing" {
		t.Errorf("expected document title metadata, got %v", meta)
	}
	themeMeta, ok := layout.MetadataValue(domain.MetadataKeyTheme)
	if !ok {
		t.Fatal("theme metadata missing")
	}
	theme, ok := domain.ThemeFromMetadata(themeMeta)
	if !ok || theme.Name != "dark" {
		t.Errorf("expected dark theme, got %+v", theme)
	}
}

func TestBuilder_RoundTripsThroughCodec(t *testing.T) {
	b := New()
	b.Root("a", "container.row")
	b.Child("a", "b", "text")

	layout, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	data, err := codec.Marshal(layout)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := codec.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.WidgetCount() != 2 {
		t.Errorf("expected 2 widgets after round trip, got %d", back.WidgetCount())
	}
}

func TestBuilder_UnknownParent(t *testing.T) {
	b := New()
	b.Child("missing", "orphan", "text")

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for child of undeclared parent")
	}
}

func TestBuilder_DuplicateID(t *testing.T) {
	b := New()
	b.Root("a", "text")
	b.Root("a", "text.heading")

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for duplicate widget id")
	}
}

func TestBuilder_EmptyDeclarations(t *testing.T) {
	b := New()
	b.Root("", "text")
	b.Root("ok", "")

	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for empty id and type")
	}
}

func TestMustBuild_PanicsOnError(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected MustBuild to panic")
		}
	}()
	b := New()
	b.Child("missing", "orphan", "text")
	b.MustBuild()
}
