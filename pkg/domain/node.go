package domain

// LayoutNode is the data record for one widget instance: its configuration
// plus its structural links into the document tree.
//
// Invariant: Parent is nil exactly when the node's id appears in the
// document's root list; otherwise Parent references a node whose Children
// contains this node's id exactly once. Children holds only ids that exist
// in the document. SerializedLayout.Validate enforces both.
type LayoutNode struct {
	Config   WidgetConfig   `json:"config" yaml:"config"`
	Children []WidgetID     `json:"children" yaml:"children"`
	Parent   *WidgetID      `json:"parent" yaml:"parent"`
	Metadata map[string]any `json:"metadata" yaml:"metadata"`
}

// NewLayoutNode creates a detached node (no parent, no children) holding
// the given config.
func NewLayoutNode(cfg WidgetConfig) *LayoutNode {
	return &LayoutNode{
		Config:   cfg,
		Children: []WidgetID{},
		Metadata: make(map[string]any),
	}
}

// Clone returns a deep copy of the node.
func (n *LayoutNode) Clone() *LayoutNode {
	out := &LayoutNode{
		Config:   n.Config.Clone(),
		Children: make([]WidgetID, len(n.Children)),
		Metadata: cloneAnyMap(n.Metadata),
	}
	copy(out.Children, n.Children)
	if n.Parent != nil {
		p := *n.Parent
		out.Parent = &p
	}
	return out
}

// IsRoot reports whether the node sits at the top level of the document.
func (n *LayoutNode) IsRoot() bool { return n.Parent == nil }

// normalize backfills nil containers left behind by JSON decoding so that
// freshly decoded nodes compare equal to constructed ones.
func (n *LayoutNode) normalize() {
	if n.Children == nil {
		n.Children = []WidgetID{}
	}
	if n.Metadata == nil {
		n.Metadata = make(map[string]any)
	}
	if n.Config.Properties == nil {
		n.Config.Properties = make(map[string]any)
	}
	if n.Config.CSSClasses == nil {
		n.Config.CSSClasses = []string{}
	}
	if n.Config.InlineStyles == nil {
		n.Config.InlineStyles = make(map[string]string)
	}
}
