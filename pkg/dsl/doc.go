/*
Package dsl provides a fluent Go builder for composing layout documents
programmatically.

It lets hosts define pages with stable, human-readable widget ids instead
of hand-writing JSON files. This is particularly useful for template
libraries, test fixtures and code-generated starter pages, with the
compiler checking property names along the way.

Widgets are declared flat and wired by id; declare containers before the
widgets that go inside them. Example usage:

	package main

	import (
		"github.com/aretw0/lattice/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Root("hero", "container.card").
			Property("title", "Welcome").
			Style("background", "#0f172a")

		b.Child("hero", "hero-title", "text.heading").
			Property("content", "Build pages in Go").
			Property("level", 1)

		b.Child("hero", "hero-cta", "basic.button").
			Property("text", "Get started").
			Property("variant", "primary")

		// The resulting layout can seed an editor or a template library.
		layout, err := b.Build()
		// ... pass layout to lattice.New(lattice.WithLayout(layout))
		_ = layout
		_ = err
	}
*/
package dsl
