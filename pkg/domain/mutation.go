package domain

import "fmt"

// MutationOp identifies one structural operation on a layout document.
type MutationOp string

const (
	OpAddRoot      MutationOp = "add_root"
	OpInsertRoot   MutationOp = "insert_root"
	OpAddChild     MutationOp = "add_child"
	OpInsertChild  MutationOp = "insert_child"
	OpRemove       MutationOp = "remove"
	OpMoveUp       MutationOp = "move_up"
	OpMoveDown     MutationOp = "move_down"
	OpUpdateConfig MutationOp = "update_config"
	OpSetTheme     MutationOp = "set_theme"
)

// Mutation is the wire form of a single document operation. Transport
// adapters (HTTP, MCP, stdio) decode requests into this shape and hand it
// to the editor, which dispatches on Op.
//
// Field usage by op:
//   - add_root/insert_root: WidgetType (or Config), Position for insert
//   - add_child/insert_child: ParentID plus the same fields as above
//   - remove/move_up/move_down: WidgetID
//   - update_config: WidgetID and Config
//   - set_theme: Theme
//
// WidgetType asks the editor to mint the config from the widget catalog;
// an explicit Config wins when both are present.
type Mutation struct {
	Op         MutationOp    `json:"op"`
	WidgetID   WidgetID      `json:"widget_id,omitempty"`
	ParentID   *WidgetID     `json:"parent_id,omitempty"`
	WidgetType string        `json:"widget_type,omitempty"`
	Position   *int          `json:"position,omitempty"`
	Config     *WidgetConfig `json:"config,omitempty"`
	Theme      *ThemeConfig  `json:"theme,omitempty"`
}

// Validate checks that the mutation names a known op and carries the
// fields that op requires. It does not touch any document.
func (m Mutation) Validate() error {
	switch m.Op {
	case OpAddRoot:
		return m.requireSource()
	case OpInsertRoot:
		if err := m.requireSource(); err != nil {
			return err
		}
		return m.requirePosition()
	case OpAddChild:
		if err := m.requireParent(); err != nil {
			return err
		}
		return m.requireSource()
	case OpInsertChild:
		if err := m.requireParent(); err != nil {
			return err
		}
		if err := m.requireSource(); err != nil {
			return err
		}
		return m.requirePosition()
	case OpRemove, OpMoveUp, OpMoveDown:
		return m.requireTarget()
	case OpUpdateConfig:
		if err := m.requireTarget(); err != nil {
			return err
		}
		if m.Config == nil {
			return fmt.Errorf("%w: %s requires a config", ErrInvalidOperation, m.Op)
		}
		return nil
	case OpSetTheme:
		if m.Theme == nil {
			return fmt.Errorf("%w: %s requires a theme", ErrInvalidOperation, m.Op)
		}
		return nil
	case "":
		return fmt.Errorf("%w: missing op", ErrInvalidOperation)
	default:
		return fmt.Errorf("%w: unknown op %q", ErrInvalidOperation, m.Op)
	}
}

func (m Mutation) requireSource() error {
	if m.WidgetType == "" && m.Config == nil {
		return fmt.Errorf("%w: %s requires a widget_type or config", ErrInvalidOperation, m.Op)
	}
	return nil
}

func (m Mutation) requireParent() error {
	if m.ParentID == nil || m.ParentID.IsZero() {
		return fmt.Errorf("%w: %s requires a parent_id", ErrInvalidOperation, m.Op)
	}
	return nil
}

func (m Mutation) requirePosition() error {
	if m.Position == nil {
		return fmt.Errorf("%w: %s requires a position", ErrInvalidOperation, m.Op)
	}
	return nil
}

func (m Mutation) requireTarget() error {
	if m.WidgetID.IsZero() {
		return fmt.Errorf("%w: %s requires a widget_id", ErrInvalidOperation, m.Op)
	}
	return nil
}

// MutationResult reports the outcome of an applied mutation.
type MutationResult struct {
	Op       MutationOp `json:"op"`
	WidgetID WidgetID   `json:"widget_id,omitempty"`
	// Diff describes what changed relative to the previous document, for
	// hosts that render partial updates.
	Diff *LayoutDiff `json:"diff,omitempty"`
}
