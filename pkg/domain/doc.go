/*
Package domain contains the core document model for the Lattice engine.

It defines the layout document, an id-addressed forest of typed widget
nodes, together with its structural mutation operations, invariant
validation, and the value types shared across the module. This package is
kept pure: no I/O, no persistence, no rendering, following Hexagonal
Architecture principles.

# Key Entities

  - WidgetID: opaque unique identifier for one node.
  - WidgetConfig: type tag + property map + styling metadata for one widget.
  - LayoutNode: one node record (config plus parent/children links).
  - SerializedLayout: the flat, JSON-shaped document (version, root list,
    node map, metadata).
  - Layout: the validated in-memory handle exposing mutations.
  - Mutation / MutationResult: wire form of operations, used by adapters.
  - LayoutDiff: node-level difference between two document versions.

Every mutation on Layout is all-or-nothing: on error the document is
guaranteed unchanged. Errors are sentinel values (ErrWidgetNotFound,
ErrInvalidOperation, ...) matched with errors.Is.
*/
package domain
