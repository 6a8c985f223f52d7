package domain

import "errors"

// ErrWidgetNotFound is returned when a widget id (or widget type tag)
// cannot be resolved.
var ErrWidgetNotFound = errors.New("widget not found")

// ErrInvalidOperation is returned when a mutation cannot be applied because
// the document is structurally inconsistent with the request (for example a
// widget missing from its supposed parent or root list).
var ErrInvalidOperation = errors.New("invalid operation")

// ErrDuplicateWidget is returned when an insert would reuse an id that is
// already present in the document.
var ErrDuplicateWidget = errors.New("widget already exists")

// ErrInvalidLayout is returned by Validate when a document violates a
// structural invariant.
var ErrInvalidLayout = errors.New("invalid layout structure")

// ErrDeserialization is returned when a serialized layout cannot be parsed
// or fails structural validation after parsing.
var ErrDeserialization = errors.New("layout deserialization failed")

// ErrSerialization is returned when an in-memory layout cannot be encoded.
var ErrSerialization = errors.New("layout serialization failed")

// ErrLayoutNotFound is returned when a layout key cannot be found in a store.
var ErrLayoutNotFound = errors.New("layout not found")
