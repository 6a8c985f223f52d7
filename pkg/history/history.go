// Package history provides bounded, linear undo/redo over whole-document
// snapshots.
//
// A History holds an ordered sequence of layout snapshots plus a cursor,
// always satisfying 0 <= cursor < len(snapshots). Pushing discards any
// redo-able future beyond the cursor; once the capacity is reached the
// oldest snapshot is evicted instead of growing the window.
//
// The History treats snapshots as immutable values: callers must push
// independent copies (domain.Layout.Clone) and must not mutate a snapshot
// after pushing it. It performs no locking; serialize access externally
// when sharing across goroutines.
package history

import "github.com/aretw0/lattice/pkg/domain"

// DefaultCapacity bounds the snapshot window when no option overrides it.
const DefaultCapacity = 50

// History is a linear undo/redo stack of layout snapshots.
type History struct {
	snapshots []*domain.Layout
	cursor    int
	capacity  int
}

// Option configures a History.
type Option func(*History)

// WithCapacity overrides the snapshot window size. Values below 1 keep the
// default.
func WithCapacity(n int) Option {
	return func(h *History) {
		if n >= 1 {
			h.capacity = n
		}
	}
}

// New creates a History seeded with the initial document as its only
// snapshot, cursor at 0. A nil initial document seeds an empty layout.
func New(initial *domain.Layout, opts ...Option) *History {
	if initial == nil {
		initial = domain.NewLayout()
	}
	h := &History{
		snapshots: []*domain.Layout{initial},
		capacity:  DefaultCapacity,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Push records a new document version. Any redo-able future beyond the
// cursor is discarded first. When the window is full the oldest snapshot
// is evicted and the cursor stays pinned at the tail; otherwise the cursor
// advances to the new entry.
func (h *History) Push(doc *domain.Layout) {
	h.snapshots = append(h.snapshots[:h.cursor+1], doc)
	if len(h.snapshots) > h.capacity {
		h.snapshots = h.snapshots[1:]
		h.cursor = len(h.snapshots) - 1
		return
	}
	h.cursor++
}

// Undo steps the cursor back one snapshot. It reports false, leaving the
// cursor untouched, when already at the oldest retained snapshot.
func (h *History) Undo() (*domain.Layout, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.snapshots[h.cursor], true
}

// Redo steps the cursor forward one snapshot. It reports false when there
// is no future to replay.
func (h *History) Redo() (*domain.Layout, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.snapshots[h.cursor], true
}

// CanUndo reports whether an older snapshot is available.
func (h *History) CanUndo() bool { return h.cursor > 0 }

// CanRedo reports whether a discardable future is available.
func (h *History) CanRedo() bool { return h.cursor < len(h.snapshots)-1 }

// Current returns the snapshot under the cursor.
func (h *History) Current() *domain.Layout { return h.snapshots[h.cursor] }

// Len returns the number of retained snapshots.
func (h *History) Len() int { return len(h.snapshots) }

// Cursor returns the index of the active snapshot.
func (h *History) Cursor() int { return h.cursor }

// Capacity returns the configured window size.
func (h *History) Capacity() int { return h.capacity }

// Reset discards all snapshots and reseeds the history with the given
// document, cursor at 0.
func (h *History) Reset(initial *domain.Layout) {
	if initial == nil {
		initial = domain.NewLayout()
	}
	h.snapshots = []*domain.Layout{initial}
	h.cursor = 0
}
