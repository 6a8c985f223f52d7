package editor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/schema"
)

// AddRootWidget appends a fresh top-level widget of the given type and
// returns its minted id.
func (e *Engine) AddRootWidget(ctx context.Context, widgetType string) (domain.WidgetID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addRoot(ctx, domain.OpAddRoot, widgetType, nil, nil)
}

// InsertRootWidget inserts a fresh top-level widget at the given position
// (clamped) and returns its minted id.
func (e *Engine) InsertRootWidget(ctx context.Context, widgetType string, position int) (domain.WidgetID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addRoot(ctx, domain.OpInsertRoot, widgetType, nil, &position)
}

// AddChildWidget appends a fresh widget of the given type under parentID
// and returns its minted id.
func (e *Engine) AddChildWidget(ctx context.Context, parentID domain.WidgetID, widgetType string) (domain.WidgetID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addChild(ctx, domain.OpAddChild, parentID, widgetType, nil, nil)
}

// InsertChildWidget inserts a fresh widget under parentID at the given
// position (clamped) and returns its minted id.
func (e *Engine) InsertChildWidget(ctx context.Context, parentID domain.WidgetID, widgetType string, position int) (domain.WidgetID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addChild(ctx, domain.OpInsertChild, parentID, widgetType, nil, &position)
}

// RemoveWidget removes the widget and its whole subtree.
func (e *Engine) RemoveWidget(ctx context.Context, id domain.WidgetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remove(ctx, id)
}

// MoveWidgetUp swaps the widget with its predecessor in its ordered list.
// Already first is a success that changes nothing.
func (e *Engine) MoveWidgetUp(ctx context.Context, id domain.WidgetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.move(ctx, domain.OpMoveUp, id)
}

// MoveWidgetDown swaps the widget with its successor in its ordered list.
// Already last is a success that changes nothing.
func (e *Engine) MoveWidgetDown(ctx context.Context, id domain.WidgetID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.move(ctx, domain.OpMoveDown, id)
}

// UpdateWidgetConfig replaces the widget's configuration wholesale.
func (e *Engine) UpdateWidgetConfig(ctx context.Context, id domain.WidgetID, cfg domain.WidgetConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.updateConfig(ctx, id, cfg)
}

// SetTheme stores the theme in document metadata so it travels with
// exports. Setting a theme is an undoable mutation.
func (e *Engine) SetTheme(ctx context.Context, theme domain.ThemeConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setTheme(ctx, theme)
}

// resolveConfig produces the config for an add operation. An explicit
// config wins; otherwise the catalog mints the type's default. Unknown
// type tags are an error whenever a catalog is present: palettes only
// offer registered types.
func (e *Engine) resolveConfig(widgetType string, explicit *domain.WidgetConfig) (domain.WidgetConfig, error) {
	if explicit != nil {
		if err := e.checkConfig(*explicit); err != nil {
			return domain.WidgetConfig{}, err
		}
		return explicit.Clone(), nil
	}
	if widgetType == "" {
		return domain.WidgetConfig{}, fmt.Errorf("%w: missing widget type", domain.ErrInvalidOperation)
	}
	if e.catalog != nil {
		w, err := e.catalog.Get(widgetType)
		if err != nil {
			return domain.WidgetConfig{}, err
		}
		return w.DefaultConfig(), nil
	}
	return domain.NewWidgetConfig(widgetType), nil
}

// checkConfig applies the strict-mode config policy: the type must be
// registered and its properties must satisfy the declared schema.
func (e *Engine) checkConfig(cfg domain.WidgetConfig) error {
	if !e.strict || e.catalog == nil {
		return nil
	}
	w, err := e.catalog.Get(cfg.WidgetType)
	if err != nil {
		return err
	}
	if s := w.PropertySchema(); s != nil {
		if err := schema.Validate(s, cfg.Properties); err != nil {
			return fmt.Errorf("%w: %s config rejected: %w", domain.ErrInvalidOperation, cfg.WidgetType, err)
		}
	}
	return nil
}

// checkContainment applies the strict-mode containment policy: the parent's
// type, when the catalog knows it, must allow children. Types the catalog
// does not know carry no containment rule.
func (e *Engine) checkContainment(parentID domain.WidgetID) error {
	if !e.strict || e.catalog == nil {
		return nil
	}
	parent, ok := e.doc.Widget(parentID)
	if !ok {
		return nil // the insert itself reports the missing parent
	}
	w, err := e.catalog.Get(parent.Config.WidgetType)
	if err != nil {
		if errors.Is(err, domain.ErrWidgetNotFound) {
			return nil
		}
		return err
	}
	if !w.CanHaveChildren() {
		return fmt.Errorf("%w: %s widgets cannot contain children", domain.ErrInvalidOperation, parent.Config.WidgetType)
	}
	return nil
}

func (e *Engine) addRoot(ctx context.Context, op domain.MutationOp, widgetType string, explicit *domain.WidgetConfig, position *int) (domain.WidgetID, error) {
	cfg, err := e.resolveConfig(widgetType, explicit)
	if err != nil {
		return "", err
	}
	id := domain.NewWidgetID()
	if position != nil {
		err = e.doc.InsertRootWidget(id, cfg, *position)
	} else {
		err = e.doc.AddRootWidget(id, cfg)
	}
	if err != nil {
		return "", err
	}
	e.commit(ctx, op, id)
	return id, nil
}

func (e *Engine) addChild(ctx context.Context, op domain.MutationOp, parentID domain.WidgetID, widgetType string, explicit *domain.WidgetConfig, position *int) (domain.WidgetID, error) {
	if err := e.checkContainment(parentID); err != nil {
		return "", err
	}
	cfg, err := e.resolveConfig(widgetType, explicit)
	if err != nil {
		return "", err
	}
	id := domain.NewWidgetID()
	if position != nil {
		err = e.doc.InsertChildWidget(parentID, id, cfg, *position)
	} else {
		err = e.doc.AddChildWidget(parentID, id, cfg)
	}
	if err != nil {
		return "", err
	}
	e.commit(ctx, op, id)
	return id, nil
}

func (e *Engine) remove(ctx context.Context, id domain.WidgetID) error {
	if err := e.doc.RemoveWidget(id); err != nil {
		return err
	}
	e.commit(ctx, domain.OpRemove, id)
	return nil
}

func (e *Engine) move(ctx context.Context, op domain.MutationOp, id domain.WidgetID) error {
	atBoundary, err := e.moveIsBoundary(op, id)
	if err != nil {
		return err
	}
	if atBoundary {
		// A boundary move succeeds without changing the document, and a
		// no-change success must not grow history.
		return nil
	}

	if op == domain.OpMoveUp {
		err = e.doc.MoveWidgetUp(id)
	} else {
		err = e.doc.MoveWidgetDown(id)
	}
	if err != nil {
		return err
	}
	e.commit(ctx, op, id)
	return nil
}

// moveIsBoundary reports whether id already sits at the edge the move
// pushes toward.
func (e *Engine) moveIsBoundary(op domain.MutationOp, id domain.WidgetID) (bool, error) {
	node, ok := e.doc.Widget(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrWidgetNotFound, id)
	}
	var siblings []domain.WidgetID
	if node.Parent != nil {
		parent, ok := e.doc.Widget(*node.Parent)
		if !ok {
			return false, fmt.Errorf("%w: widget %s references missing parent %s", domain.ErrInvalidOperation, id, *node.Parent)
		}
		siblings = parent.Children
	} else {
		siblings = e.doc.RootWidgets()
	}
	for i, sib := range siblings {
		if sib == id {
			if op == domain.OpMoveUp {
				return i == 0, nil
			}
			return i == len(siblings)-1, nil
		}
	}
	return false, fmt.Errorf("%w: widget %s missing from its ordered list", domain.ErrInvalidOperation, id)
}

func (e *Engine) updateConfig(ctx context.Context, id domain.WidgetID, cfg domain.WidgetConfig) error {
	if err := e.checkConfig(cfg); err != nil {
		return err
	}
	if err := e.doc.UpdateWidgetConfig(id, cfg); err != nil {
		return err
	}
	e.commit(ctx, domain.OpUpdateConfig, id)
	return nil
}

func (e *Engine) setTheme(ctx context.Context, theme domain.ThemeConfig) error {
	if theme.Name == "" {
		return fmt.Errorf("%w: theme requires a name", domain.ErrInvalidOperation)
	}
	e.doc.SetMetadata(domain.MetadataKeyTheme, theme.ToMetadata())
	e.commit(ctx, domain.OpSetTheme, "")
	return nil
}

// commit runs once per successful state change: push one snapshot, fire
// hooks, autosave.
func (e *Engine) commit(ctx context.Context, op domain.MutationOp, id domain.WidgetID) {
	e.history.Push(e.doc.Clone())
	e.logger.Debug("mutation applied",
		"op", string(op),
		"widget_id", id.String(),
		"widgets", e.doc.WidgetCount(),
	)
	if e.hooks.OnMutation != nil {
		e.hooks.OnMutation(ctx, &domain.MutationEvent{
			Timestamp:   time.Now(),
			Type:        domain.EventMutation,
			Op:          op,
			WidgetID:    id,
			WidgetCount: e.doc.WidgetCount(),
		})
	}
	e.emitSnapshot(ctx, domain.EventMutation)
	e.autosave(ctx)
}
