package domain

import "github.com/google/uuid"

// WidgetID uniquely identifies one widget node within a layout document.
// Ids are opaque: the engine never derives meaning from their content and
// addresses nodes only through the document's id map, never positionally.
//
// NewWidgetID mints UUIDv4 text, but any non-empty string is a valid id on
// import. Hand-authored templates commonly use readable ids ("hero",
// "footer") and must round-trip untouched.
type WidgetID string

// NewWidgetID returns a fresh, globally unique widget id.
func NewWidgetID() WidgetID {
	return WidgetID(uuid.NewString())
}

// String returns the canonical text form of the id.
func (id WidgetID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id WidgetID) IsZero() bool { return id == "" }
