/*
Package lattice is the document engine behind a WYSIWYG page editor: an
id-indexed widget tree with structural validation, linear undo/redo over
whole-document snapshots, and a versioned JSON codec.

It deliberately contains no rendering. A host (browser canvas, TUI, HTTP
API) asks the engine to mutate the document and re-renders from the
result, so every surface shares one source of truth.

# Concept

A layout is a forest: an ordered list of root widgets, each widget holding
a config (type tag, free-form properties, CSS classes, inline styles) and
an ordered list of children. Mutations are all-or-nothing (on any error
the document is unchanged) and every accepted change pushes exactly one
history snapshot, which is what makes undo/redo trustworthy.

This Hexagonal Architecture separates the core model (pkg/domain,
pkg/history, pkg/codec) from adapters (storage, HTTP, MCP, stdio), so the
engine can be embedded in any interface.

# Key Features

  - Validated documents: structural invariants (no dangling ids, symmetric
    parent/child links, no cycles) are enforced at every import.
  - Linear history: bounded snapshot window with truncate-on-branch
    semantics, exactly one push per state change.
  - Widget catalog: a palette of registered widget types minting default
    configs; custom types register alongside the standard set.
  - Pluggable persistence: memory, file and Redis stores behind one port,
    with optional best-effort autosave after every change.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/lattice"
	)

	func main() {
		ed := lattice.New()
		ctx := context.Background()

		rowID, err := ed.AddRootWidget(ctx, "container.row")
		if err != nil {
			log.Fatal(err)
		}
		if _, err := ed.AddChildWidget(ctx, rowID, "basic.button"); err != nil {
			log.Fatal(err)
		}

		data, err := ed.Export(true)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(string(data))
	}
*/
package lattice
