package history_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/history"
)

// snapshot builds a layout whose root count identifies the version.
func snapshot(t *testing.T, roots int) *domain.Layout {
	t.Helper()
	l := domain.NewLayout()
	for i := 0; i < roots; i++ {
		id := domain.WidgetID(fmt.Sprintf("w%d", i))
		require.NoError(t, l.AddRootWidget(id, domain.NewWidgetConfig("text.paragraph")))
	}
	return l
}

func TestNew_SeedsSingleSnapshot(t *testing.T) {
	initial := snapshot(t, 0)
	h := history.New(initial)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Cursor())
	assert.Same(t, initial, h.Current())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
}

func TestNew_NilInitialSeedsEmptyLayout(t *testing.T) {
	h := history.New(nil)
	require.Equal(t, 1, h.Len())
	assert.True(t, h.Current().IsEmpty())
}

func TestPush_AdvancesCursor(t *testing.T) {
	h := history.New(snapshot(t, 0))
	v1 := snapshot(t, 1)
	h.Push(v1)

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Cursor())
	assert.Same(t, v1, h.Current())
	assert.True(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestPush_TruncatesRedoFuture(t *testing.T) {
	h := history.New(snapshot(t, 0))
	h.Push(snapshot(t, 1))
	h.Push(snapshot(t, 2))

	_, ok := h.Undo()
	require.True(t, ok)
	_, ok = h.Undo()
	require.True(t, ok)
	require.True(t, h.CanRedo())

	divergent := snapshot(t, 9)
	h.Push(divergent)

	assert.Equal(t, 2, h.Len())
	assert.Same(t, divergent, h.Current())
	assert.False(t, h.CanRedo(), "push must discard the old future")

	back, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, 0, back.WidgetCount())
}

func TestPush_EvictsOldestAtCapacity(t *testing.T) {
	h := history.New(snapshot(t, 0))

	for i := 1; i <= 60; i++ {
		h.Push(snapshot(t, i))
	}

	assert.Equal(t, history.DefaultCapacity, h.Len())
	assert.Equal(t, h.Len()-1, h.Cursor(), "cursor stays at the tail while evicting")
	assert.Equal(t, 60, h.Current().WidgetCount())

	// Walk back as far as the window allows: the oldest retained version
	// is 60-49=11, everything older was evicted.
	steps := 0
	for h.CanUndo() {
		_, ok := h.Undo()
		require.True(t, ok)
		steps++
	}
	assert.Equal(t, history.DefaultCapacity-1, steps)
	assert.Equal(t, 11, h.Current().WidgetCount())
}

func TestWithCapacity(t *testing.T) {
	h := history.New(snapshot(t, 0), history.WithCapacity(3))
	for i := 1; i <= 10; i++ {
		h.Push(snapshot(t, i))
	}
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, 3, h.Capacity())

	// Non-positive capacities keep the default.
	h2 := history.New(snapshot(t, 0), history.WithCapacity(0))
	assert.Equal(t, history.DefaultCapacity, h2.Capacity())
}

func TestUndoRedo_AreInverse(t *testing.T) {
	const n = 7

	initial := snapshot(t, 0)
	h := history.New(initial)
	for i := 1; i <= n; i++ {
		h.Push(snapshot(t, i))
	}
	final := h.Current()

	for i := 0; i < n; i++ {
		_, ok := h.Undo()
		require.True(t, ok)
	}
	assert.Same(t, initial, h.Current())
	assert.False(t, h.CanUndo())

	for i := 0; i < n; i++ {
		_, ok := h.Redo()
		require.True(t, ok)
	}
	assert.Same(t, final, h.Current())
	assert.False(t, h.CanRedo())
}

func TestUndoRedo_InterleavedCursorBounds(t *testing.T) {
	h := history.New(snapshot(t, 0))
	h.Push(snapshot(t, 1))

	_, ok := h.Undo()
	require.True(t, ok)
	_, ok = h.Undo()
	assert.False(t, ok, "undo past the oldest snapshot must be refused")
	assert.Equal(t, 0, h.Cursor())

	_, ok = h.Redo()
	require.True(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok, "redo past the newest snapshot must be refused")
	assert.Equal(t, 1, h.Cursor())
}

func TestReset(t *testing.T) {
	h := history.New(snapshot(t, 0))
	h.Push(snapshot(t, 1))
	h.Push(snapshot(t, 2))

	fresh := snapshot(t, 5)
	h.Reset(fresh)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 0, h.Cursor())
	assert.Same(t, fresh, h.Current())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
