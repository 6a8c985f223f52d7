package editor

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
)

// Apply executes one serialized mutation against the document. It is the
// single entry point transport adapters use: decode the request into a
// domain.Mutation, hand it here, return the result.
//
// The returned result carries the id of the widget the operation touched
// (the minted id for adds) and a diff against the previous document
// version for hosts that render partial updates. On error the document is
// unchanged and nothing is pushed to history.
func (e *Engine) Apply(ctx context.Context, m domain.Mutation) (*domain.MutationResult, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.doc.Serialized()

	var id domain.WidgetID
	var err error
	switch m.Op {
	case domain.OpAddRoot:
		id, err = e.addRoot(ctx, m.Op, m.WidgetType, m.Config, nil)
	case domain.OpInsertRoot:
		id, err = e.addRoot(ctx, m.Op, m.WidgetType, m.Config, m.Position)
	case domain.OpAddChild:
		id, err = e.addChild(ctx, m.Op, *m.ParentID, m.WidgetType, m.Config, nil)
	case domain.OpInsertChild:
		id, err = e.addChild(ctx, m.Op, *m.ParentID, m.WidgetType, m.Config, m.Position)
	case domain.OpRemove:
		id = m.WidgetID
		err = e.remove(ctx, m.WidgetID)
	case domain.OpMoveUp, domain.OpMoveDown:
		id = m.WidgetID
		err = e.move(ctx, m.Op, m.WidgetID)
	case domain.OpUpdateConfig:
		id = m.WidgetID
		err = e.updateConfig(ctx, m.WidgetID, *m.Config)
	case domain.OpSetTheme:
		err = e.setTheme(ctx, *m.Theme)
	default:
		// Validate covers this; kept so a new op cannot silently no-op.
		err = fmt.Errorf("%w: unknown op %q", domain.ErrInvalidOperation, m.Op)
	}
	if err != nil {
		return nil, err
	}

	return &domain.MutationResult{
		Op:       m.Op,
		WidgetID: id,
		Diff:     domain.Diff(before, e.doc.Serialized()),
	}, nil
}
