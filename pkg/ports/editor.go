package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// LayoutEditor is the driving port adapters (HTTP, MCP, runner) use to
// read and mutate one layout document with undo/redo.
//
// Implementations are expected to snapshot the document after every
// successful mutation so that Undo/Redo walk whole-document versions, and
// to leave the document untouched when a mutation fails.
type LayoutEditor interface {
	// Layout returns a detached copy of the current document.
	Layout() *domain.Layout

	// Apply executes one mutation against the document, returning what
	// changed. The document is unchanged when an error is returned.
	Apply(ctx context.Context, m domain.Mutation) (*domain.MutationResult, error)

	// Undo steps back one document version. It reports false when there is
	// no older version.
	Undo(ctx context.Context) (*domain.Layout, bool)

	// Redo replays one undone version. It reports false when there is no
	// future to replay.
	Redo(ctx context.Context) (*domain.Layout, bool)

	// CanUndo reports whether Undo would succeed.
	CanUndo() bool

	// CanRedo reports whether Redo would succeed.
	CanRedo() bool

	// Clear resets the document to a single empty layout and restarts
	// history from it.
	Clear(ctx context.Context) error

	// Import replaces the document with a deserialized and validated
	// layout, keeping the previous version undoable.
	Import(ctx context.Context, data []byte) error

	// Export serializes the current document, pretty-printed when asked.
	Export(pretty bool) ([]byte, error)
}
