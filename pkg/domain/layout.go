package domain

import "fmt"

// SerializedLayout is the flat, JSON-shaped form of a layout document: a
// version tag, the ordered list of top-level node ids, an id-to-node map
// holding every node in the forest, and free-form document metadata.
//
// Structural invariants (enforced by Validate):
//  1. every id in RootNodes exists in Nodes
//  2. every id referenced by a node's Children exists in Nodes
//  3. no id appears twice in RootNodes or twice within one Children list
//  4. parent/children links are symmetric: a node has a nil Parent exactly
//     when it is a root, and otherwise its parent's Children lists it
//  5. the structure is a forest: no id is its own ancestor
type SerializedLayout struct {
	Version   string                   `json:"version" yaml:"version"`
	RootNodes []WidgetID               `json:"root_nodes" yaml:"root_nodes"`
	Nodes     map[WidgetID]*LayoutNode `json:"nodes" yaml:"nodes"`
	Metadata  map[string]any           `json:"metadata" yaml:"metadata"`
}

// NewSerializedLayout creates an empty document carrying the current
// format version.
func NewSerializedLayout() *SerializedLayout {
	return &SerializedLayout{
		Version:   FormatVersion,
		RootNodes: []WidgetID{},
		Nodes:     make(map[WidgetID]*LayoutNode),
		Metadata:  make(map[string]any),
	}
}

// Clone returns a deep copy of the document.
func (d *SerializedLayout) Clone() *SerializedLayout {
	out := &SerializedLayout{
		Version:   d.Version,
		RootNodes: make([]WidgetID, len(d.RootNodes)),
		Nodes:     make(map[WidgetID]*LayoutNode, len(d.Nodes)),
		Metadata:  cloneAnyMap(d.Metadata),
	}
	copy(out.RootNodes, d.RootNodes)
	for id, node := range d.Nodes {
		out.Nodes[id] = node.Clone()
	}
	return out
}

// Normalize backfills nil containers after JSON decoding so that decoded
// documents compare equal to constructed ones.
func (d *SerializedLayout) Normalize() {
	if d.RootNodes == nil {
		d.RootNodes = []WidgetID{}
	}
	if d.Nodes == nil {
		d.Nodes = make(map[WidgetID]*LayoutNode)
	}
	if d.Metadata == nil {
		d.Metadata = make(map[string]any)
	}
	for _, node := range d.Nodes {
		if node != nil {
			node.normalize()
		}
	}
}

// Validate checks every structural invariant and returns a descriptive
// error wrapping ErrInvalidLayout on the first violation found.
func (d *SerializedLayout) Validate() error {
	roots := make(map[WidgetID]struct{}, len(d.RootNodes))
	for _, id := range d.RootNodes {
		if _, ok := d.Nodes[id]; !ok {
			return fmt.Errorf("%w: root node %s missing from node map", ErrInvalidLayout, id)
		}
		if _, dup := roots[id]; dup {
			return fmt.Errorf("%w: root node %s listed twice", ErrInvalidLayout, id)
		}
		roots[id] = struct{}{}
	}

	for id, node := range d.Nodes {
		if node == nil {
			return fmt.Errorf("%w: node %s has no record", ErrInvalidLayout, id)
		}

		seen := make(map[WidgetID]struct{}, len(node.Children))
		for _, child := range node.Children {
			cn, ok := d.Nodes[child]
			if !ok {
				return fmt.Errorf("%w: node %s references missing child %s", ErrInvalidLayout, id, child)
			}
			if _, dup := seen[child]; dup {
				return fmt.Errorf("%w: node %s lists child %s twice", ErrInvalidLayout, id, child)
			}
			seen[child] = struct{}{}
			if cn.Parent == nil || *cn.Parent != id {
				return fmt.Errorf("%w: child %s does not point back to parent %s", ErrInvalidLayout, child, id)
			}
		}

		if node.Parent == nil {
			if _, isRoot := roots[id]; !isRoot {
				return fmt.Errorf("%w: node %s has no parent but is not a root", ErrInvalidLayout, id)
			}
			continue
		}
		if _, isRoot := roots[id]; isRoot {
			return fmt.Errorf("%w: root node %s must not have a parent", ErrInvalidLayout, id)
		}
		parent, ok := d.Nodes[*node.Parent]
		if !ok {
			return fmt.Errorf("%w: node %s references missing parent %s", ErrInvalidLayout, id, *node.Parent)
		}
		if indexOf(parent.Children, id) < 0 {
			return fmt.Errorf("%w: parent %s does not list child %s", ErrInvalidLayout, *node.Parent, id)
		}
	}

	return d.detectCycles()
}

// detectCycles walks the children relation with white/gray/black marking.
// Ids are minted fresh on insertion so cycles cannot arise through the
// mutation API, but a hand-crafted document can smuggle one in.
func (d *SerializedLayout) detectCycles() error {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // fully explored
	)
	colors := make(map[WidgetID]int, len(d.Nodes))

	var visit func(id WidgetID) error
	visit = func(id WidgetID) error {
		colors[id] = gray
		for _, child := range d.Nodes[id].Children {
			switch colors[child] {
			case gray:
				return fmt.Errorf("%w: cycle through node %s", ErrInvalidLayout, child)
			case white:
				if err := visit(child); err != nil {
					return err
				}
			}
		}
		colors[id] = black
		return nil
	}

	for id := range d.Nodes {
		if colors[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Layout is the in-memory handle over a validated document. Every handle
// either started empty or passed Validate at construction, and every
// mutation below is all-or-nothing: on any error the document is unchanged.
type Layout struct {
	doc *SerializedLayout
}

// NewLayout creates an empty layout document.
func NewLayout() *Layout {
	return &Layout{doc: NewSerializedLayout()}
}

// NewLayoutFrom wraps a document after validating it. The document is
// copied, so the caller's value stays independent of the handle.
func NewLayoutFrom(doc *SerializedLayout) (*Layout, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil document", ErrInvalidLayout)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &Layout{doc: doc.Clone()}, nil
}

// Clone returns an independent deep copy of the layout.
func (l *Layout) Clone() *Layout {
	return &Layout{doc: l.doc.Clone()}
}

// Serialized returns a deep copy of the underlying document. Mutating the
// copy never affects the handle.
func (l *Layout) Serialized() *SerializedLayout {
	return l.doc.Clone()
}

// Validate re-checks the structural invariants.
func (l *Layout) Validate() error { return l.doc.Validate() }

// Version returns the document's format version tag.
func (l *Layout) Version() string { return l.doc.Version }

// Widget returns a detached copy of the node for id. Lookup is O(1).
func (l *Layout) Widget(id WidgetID) (*LayoutNode, bool) {
	node, ok := l.doc.Nodes[id]
	if !ok {
		return nil, false
	}
	return node.Clone(), true
}

// Has reports whether the document contains id.
func (l *Layout) Has(id WidgetID) bool {
	_, ok := l.doc.Nodes[id]
	return ok
}

// RootWidgets returns a copy of the ordered root id list.
func (l *Layout) RootWidgets() []WidgetID {
	out := make([]WidgetID, len(l.doc.RootNodes))
	copy(out, l.doc.RootNodes)
	return out
}

// WidgetCount returns the number of nodes in the document.
func (l *Layout) WidgetCount() int { return len(l.doc.Nodes) }

// IsEmpty reports whether the document holds no nodes.
func (l *Layout) IsEmpty() bool { return len(l.doc.Nodes) == 0 }

// MetadataValue returns a document metadata entry.
func (l *Layout) MetadataValue(key string) (any, bool) {
	v, ok := l.doc.Metadata[key]
	return v, ok
}

// SetMetadata sets a document metadata entry.
func (l *Layout) SetMetadata(key string, value any) {
	l.doc.Metadata[key] = value
}

// AddRootWidget appends a fresh top-level widget. The id must not already
// exist anywhere in the document.
func (l *Layout) AddRootWidget(id WidgetID, cfg WidgetConfig) error {
	return l.InsertRootWidget(id, cfg, len(l.doc.RootNodes))
}

// InsertRootWidget inserts a fresh top-level widget at the given position.
// Positions outside [0, len(roots)] are clamped, never rejected.
func (l *Layout) InsertRootWidget(id WidgetID, cfg WidgetConfig, position int) error {
	if id.IsZero() {
		return fmt.Errorf("%w: empty widget id", ErrInvalidOperation)
	}
	if _, exists := l.doc.Nodes[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWidget, id)
	}
	l.doc.RootNodes = insertID(l.doc.RootNodes, clamp(position, len(l.doc.RootNodes)), id)
	l.doc.Nodes[id] = NewLayoutNode(cfg)
	return nil
}

// AddChildWidget appends a fresh widget under parentID. Re-adding an id
// that already lives under the same parent is a success no-op (children
// have set-like semantics despite their ordering); an id that lives
// anywhere else in the document is rejected.
func (l *Layout) AddChildWidget(parentID, childID WidgetID, cfg WidgetConfig) error {
	parent, ok := l.doc.Nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrWidgetNotFound, parentID)
	}
	return l.insertChild(parent, parentID, childID, cfg, len(parent.Children))
}

// InsertChildWidget inserts a fresh widget under parentID at the given
// position in the parent's child list. Positions are clamped. Duplicate
// handling matches AddChildWidget: same parent is a no-op, anywhere else
// is an error.
func (l *Layout) InsertChildWidget(parentID, childID WidgetID, cfg WidgetConfig, position int) error {
	parent, ok := l.doc.Nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrWidgetNotFound, parentID)
	}
	return l.insertChild(parent, parentID, childID, cfg, position)
}

func (l *Layout) insertChild(parent *LayoutNode, parentID, childID WidgetID, cfg WidgetConfig, position int) error {
	if childID.IsZero() {
		return fmt.Errorf("%w: empty widget id", ErrInvalidOperation)
	}
	if existing, ok := l.doc.Nodes[childID]; ok {
		if existing.Parent != nil && *existing.Parent == parentID {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrDuplicateWidget, childID)
	}
	parent.Children = insertID(parent.Children, clamp(position, len(parent.Children)), childID)
	node := NewLayoutNode(cfg)
	pid := parentID
	node.Parent = &pid
	l.doc.Nodes[childID] = node
	return nil
}

// RemoveWidget removes the widget and its entire subtree. The subtree is
// collected first (guarding against non-termination if a corrupted
// document ever contains a cycle) and only then detached and deleted, so
// a failed removal leaves the document untouched.
func (l *Layout) RemoveWidget(id WidgetID) error {
	node, ok := l.doc.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}

	doomed, err := l.collectSubtree(id)
	if err != nil {
		return err
	}

	if node.Parent != nil {
		if parent, ok := l.doc.Nodes[*node.Parent]; ok {
			parent.Children = removeID(parent.Children, id)
		}
	} else {
		l.doc.RootNodes = removeID(l.doc.RootNodes, id)
	}

	// Descendants first, the node itself last.
	for _, victim := range doomed {
		delete(l.doc.Nodes, victim)
	}
	return nil
}

// collectSubtree returns the ids of id's subtree in post-order (children
// before their parent). Revisiting an id means the children relation has a
// cycle; fail fast instead of looping.
func (l *Layout) collectSubtree(id WidgetID) ([]WidgetID, error) {
	visited := make(map[WidgetID]struct{})
	var order []WidgetID

	var walk func(cur WidgetID) error
	walk = func(cur WidgetID) error {
		if _, seen := visited[cur]; seen {
			return fmt.Errorf("%w: cycle detected at %s during removal", ErrInvalidOperation, cur)
		}
		visited[cur] = struct{}{}
		node, ok := l.doc.Nodes[cur]
		if !ok {
			return nil
		}
		for _, child := range node.Children {
			if err := walk(child); err != nil {
				return err
			}
		}
		order = append(order, cur)
		return nil
	}

	if err := walk(id); err != nil {
		return nil, err
	}
	return order, nil
}

// MoveWidgetUp swaps the widget with its immediate predecessor in whichever
// ordered list contains it (the root list or its parent's children).
// Already first is a silent no-op.
func (l *Layout) MoveWidgetUp(id WidgetID) error {
	return l.moveWidget(id, -1)
}

// MoveWidgetDown swaps the widget with its immediate successor. Already
// last is a silent no-op.
func (l *Layout) MoveWidgetDown(id WidgetID) error {
	return l.moveWidget(id, +1)
}

func (l *Layout) moveWidget(id WidgetID, delta int) error {
	node, ok := l.doc.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}

	var list []WidgetID
	if node.Parent != nil {
		parent, ok := l.doc.Nodes[*node.Parent]
		if !ok {
			return fmt.Errorf("%w: widget %s references missing parent %s", ErrInvalidOperation, id, *node.Parent)
		}
		list = parent.Children
	} else {
		list = l.doc.RootNodes
	}

	idx := indexOf(list, id)
	if idx < 0 {
		return fmt.Errorf("%w: widget %s missing from its ordered list", ErrInvalidOperation, id)
	}
	target := idx + delta
	if target < 0 || target >= len(list) {
		return nil
	}
	list[idx], list[target] = list[target], list[idx]
	return nil
}

// UpdateWidgetConfig replaces the widget's configuration wholesale.
func (l *Layout) UpdateWidgetConfig(id WidgetID, cfg WidgetConfig) error {
	node, ok := l.doc.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}
	node.Config = cfg.Clone()
	return nil
}

// SetWidgetMetadata sets one metadata entry on a widget node.
func (l *Layout) SetWidgetMetadata(id WidgetID, key string, value any) error {
	node, ok := l.doc.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}
	if node.Metadata == nil {
		node.Metadata = make(map[string]any)
	}
	node.Metadata[key] = value
	return nil
}

func clamp(position, length int) int {
	if position < 0 {
		return 0
	}
	if position > length {
		return length
	}
	return position
}

func indexOf(list []WidgetID, id WidgetID) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func insertID(list []WidgetID, pos int, id WidgetID) []WidgetID {
	list = append(list, "")
	copy(list[pos+1:], list[pos:])
	list[pos] = id
	return list
}

func removeID(list []WidgetID, id WidgetID) []WidgetID {
	idx := indexOf(list, id)
	if idx < 0 {
		return list
	}
	return append(list[:idx], list[idx+1:]...)
}
