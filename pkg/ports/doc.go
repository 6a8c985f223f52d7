/*
Package ports defines the driven ports (interfaces) for the Lattice editor.

These interfaces decouple the core logic from external implementations,
allowing the editor to work with various storage backends, template
sources, and widget catalogs.

# Key Interfaces

  - LayoutStore: Responsible for persisting and loading layout documents.
  - TemplateLibrary: Responsible for serving read-only layout templates (e.g., from Loam or Memory).
  - WidgetCatalog: Resolves widget type tags to their descriptors and default configs.
  - DistributedLocker: Provides distributed locking for handling concurrent document access.
  - LayoutEditor: The driving port adapters (HTTP, MCP, runner) use to mutate a document.
*/
package ports
