package runner

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// RichResponse combines a mutation outcome with where the editor stands
// afterwards. Rich clients (web, MCP) always want both, so the transport
// adapters share this shape instead of each assembling its own.
type RichResponse struct {
	Result  *domain.MutationResult `json:"result,omitempty"`
	Widgets int                    `json:"widgets"`
	CanUndo bool                   `json:"can_undo"`
	CanRedo bool                   `json:"can_redo"`
}

// Describe reports the editor's current status.
func Describe(ed ports.LayoutEditor) *RichResponse {
	return &RichResponse{
		Widgets: ed.Layout().WidgetCount(),
		CanUndo: ed.CanUndo(),
		CanRedo: ed.CanRedo(),
	}
}

// ApplyAndDescribe applies one mutation and describes the result. On error
// the document is unchanged and no response is returned.
func ApplyAndDescribe(ctx context.Context, ed ports.LayoutEditor, m domain.Mutation) (*RichResponse, error) {
	result, err := ed.Apply(ctx, m)
	if err != nil {
		return nil, err
	}
	res := Describe(ed)
	res.Result = result
	return res, nil
}

// UndoAndDescribe steps back one version; ok is false when there is
// nothing to undo.
func UndoAndDescribe(ctx context.Context, ed ports.LayoutEditor) (*RichResponse, bool) {
	_, ok := ed.Undo(ctx)
	return Describe(ed), ok
}

// RedoAndDescribe replays one undone version; ok is false when there is
// nothing to redo.
func RedoAndDescribe(ctx context.Context, ed ports.LayoutEditor) (*RichResponse, bool) {
	_, ok := ed.Redo(ctx)
	return Describe(ed), ok
}
