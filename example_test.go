package lattice_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
)

// Example shows the core editing loop: compose a small page, then walk
// the version history backwards and forwards.
func Example() {
	ctx := context.Background()

	// 1. A fresh editor starts on an empty document with the standard
	// widget catalog wired in.
	ed := lattice.New()

	// 2. Compose a page: a row with a heading and a button inside.
	// Every call mints the widget id and fills the config from the
	// catalog defaults.
	row, err := ed.AddRootWidget(ctx, "container.row")
	if err != nil {
		log.Fatal(err)
	}
	if _, err := ed.AddChildWidget(ctx, row, "text.heading"); err != nil {
		log.Fatal(err)
	}
	if _, err := ed.AddChildWidget(ctx, row, "basic.button"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("widgets:", ed.Layout().WidgetCount())

	// 3. Each successful change is exactly one undo step.
	ed.Undo(ctx)
	fmt.Println("after undo:", ed.Layout().WidgetCount())
	ed.Redo(ctx)
	fmt.Println("after redo:", ed.Layout().WidgetCount())

	// Output:
	// widgets: 3
	// after undo: 2
	// after redo: 3
}

// ExampleNewFromTemplate seeds an editor from a template library without
// touching the filesystem. Useful for testing or embedded catalogs of
// starter pages.
func ExampleNewFromTemplate() {
	// 1. Register a template built with plain Go values.
	page := domain.NewLayout()
	if err := page.AddRootWidget("hero", domain.NewWidgetConfig("text.heading")); err != nil {
		log.Fatal(err)
	}
	library, err := memory.NewLibraryFromLayouts(map[string]*domain.Layout{
		"landing": page,
	})
	if err != nil {
		log.Fatal(err)
	}

	// 2. Open an editor on the template. The seed is version zero, so
	// there is nothing to undo yet.
	ed, err := lattice.NewFromTemplate(library, "landing")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("widgets:", ed.Layout().WidgetCount())
	fmt.Println("can undo:", ed.CanUndo())

	// Output:
	// widgets: 1
	// can undo: false
}

// ExampleEditor_Apply drives the editor with serialized mutations, the
// form a transport layer delivers them in.
func ExampleEditor_Apply() {
	ctx := context.Background()
	ed := lattice.New()

	res, err := ed.Apply(ctx, domain.Mutation{
		Op:         domain.OpAddRoot,
		WidgetType: "text.paragraph",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("op:", res.Op)
	fmt.Println("added:", len(res.Diff.Added))
	fmt.Println("roots changed:", res.Diff.RootsChanged)

	// Output:
	// op: add_root
	// added: 1
	// roots changed: true
}

// ExampleOpen resumes editing a stored document and autosaves every
// change back to the store.
func ExampleOpen() {
	ctx := context.Background()
	store := memory.NewStore()

	// 1. First session: create a page. Autosave writes each version
	// under the chosen key.
	first, err := lattice.Open(ctx, store, "home")
	if err != nil {
		log.Fatal(err)
	}
	if _, err := first.AddRootWidget(ctx, "text.heading"); err != nil {
		log.Fatal(err)
	}

	// 2. Second session: the document comes back from the store.
	second, err := lattice.Open(ctx, store, "home")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("resumed widgets:", second.Layout().WidgetCount())

	// Output:
	// resumed widgets: 1
}
