package domain

import "reflect"

// LayoutDiff captures the difference between two document versions as sets
// of node ids. It is serialized to JSON for partial updates pushed to
// clients (the SSE stream), so hosts can re-render only affected widgets.
type LayoutDiff struct {
	// Added and Removed list ids present in only one of the documents.
	Added   []WidgetID `json:"added,omitempty"`
	Removed []WidgetID `json:"removed,omitempty"`

	// Updated lists ids whose node record changed in any way (config,
	// children order, parent or metadata).
	Updated []WidgetID `json:"updated,omitempty"`

	// RootsChanged is set when the root list content or order changed.
	RootsChanged bool `json:"roots_changed,omitempty"`

	// MetadataChanged is set when document-level metadata changed.
	MetadataChanged bool `json:"metadata_changed,omitempty"`
}

// Diff compares two documents and returns nil when nothing changed. A nil
// old document yields a diff that adds everything in new (initial load).
func Diff(old, new *SerializedLayout) *LayoutDiff {
	if new == nil {
		return nil
	}

	d := &LayoutDiff{}

	if old == nil {
		for id := range new.Nodes {
			d.Added = append(d.Added, id)
		}
		d.RootsChanged = len(new.RootNodes) > 0
		d.MetadataChanged = len(new.Metadata) > 0
		if d.IsEmpty() {
			return nil
		}
		return d
	}

	for id, newNode := range new.Nodes {
		oldNode, exists := old.Nodes[id]
		if !exists {
			d.Added = append(d.Added, id)
			continue
		}
		if !reflect.DeepEqual(oldNode, newNode) {
			d.Updated = append(d.Updated, id)
		}
	}
	for id := range old.Nodes {
		if _, exists := new.Nodes[id]; !exists {
			d.Removed = append(d.Removed, id)
		}
	}

	d.RootsChanged = !reflect.DeepEqual(old.RootNodes, new.RootNodes)
	d.MetadataChanged = !reflect.DeepEqual(old.Metadata, new.Metadata)

	if d.IsEmpty() {
		return nil
	}
	return d
}

// IsEmpty reports whether the diff carries no changes.
func (d *LayoutDiff) IsEmpty() bool {
	return len(d.Added) == 0 &&
		len(d.Removed) == 0 &&
		len(d.Updated) == 0 &&
		!d.RootsChanged &&
		!d.MetadataChanged
}
