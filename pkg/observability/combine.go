package observability

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// CombineHooks merges several hook sets into one. Callbacks fire in the
// order the sets were passed; nil callbacks are skipped.
func CombineHooks(hooks ...domain.EditorHooks) domain.EditorHooks {
	return domain.EditorHooks{
		OnMutation: func(ctx context.Context, ev *domain.MutationEvent) {
			for _, h := range hooks {
				if h.OnMutation != nil {
					h.OnMutation(ctx, ev)
				}
			}
		},
		OnSnapshot: func(ctx context.Context, ev *domain.SnapshotEvent) {
			for _, h := range hooks {
				if h.OnSnapshot != nil {
					h.OnSnapshot(ctx, ev)
				}
			}
		},
		OnAutosave: func(ctx context.Context, ev *domain.AutosaveEvent) {
			for _, h := range hooks {
				if h.OnAutosave != nil {
					h.OnAutosave(ctx, ev)
				}
			}
		},
	}
}
