package domain

import (
	"context"
	"time"
)

// EventType categorizes editor lifecycle events.
type EventType string

const (
	EventMutation EventType = "mutation"
	EventUndo     EventType = "undo"
	EventRedo     EventType = "redo"
	EventImport   EventType = "import"
	EventClear    EventType = "clear"
	EventAutosave EventType = "autosave"
)

// MutationEvent describes one applied document operation.
type MutationEvent struct {
	Timestamp time.Time  `json:"timestamp"`
	Type      EventType  `json:"type"`
	Op        MutationOp `json:"op,omitempty"`
	WidgetID  WidgetID   `json:"widget_id,omitempty"`
	// WidgetCount is the document size after the operation.
	WidgetCount int `json:"widget_count"`
}

// SnapshotEvent describes a history movement (push, undo or redo).
type SnapshotEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	// Depth is the number of snapshots held after the movement; Cursor is
	// the active snapshot index.
	Depth  int `json:"depth"`
	Cursor int `json:"cursor"`
}

// AutosaveEvent describes one autosave attempt against the layout store.
type AutosaveEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Key       string    `json:"key"`
	// WidgetCount is the size of the document that was saved.
	WidgetCount int   `json:"widget_count"`
	Err         error `json:"-"`
}

// EditorHooks carries optional observability callbacks fired by the editor
// engine. Nil callbacks are skipped; hooks run synchronously on the
// mutating goroutine and must be fast.
type EditorHooks struct {
	OnMutation func(context.Context, *MutationEvent)
	OnSnapshot func(context.Context, *SnapshotEvent)
	OnAutosave func(context.Context, *AutosaveEvent)
}
