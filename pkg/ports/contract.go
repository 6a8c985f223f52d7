package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice/pkg/domain"
)

// RunLayoutStoreContract runs a suite of tests to verify that a
// LayoutStore implementation adheres to the defined interface contract.
//
// Property values in the fixture stick to strings, floats and bools:
// JSON-based stores decode numbers as float64, so integer properties
// would not round-trip comparably across implementations.
func RunLayoutStoreContract(t *testing.T, store LayoutStore) {
	ctx := context.Background()
	key := "contract-test-layout-" + time.Now().Format("20060102150405")

	build := func(t *testing.T) *domain.Layout {
		t.Helper()
		l := domain.NewLayout()
		require.NoError(t, l.AddRootWidget("hero", domain.NewWidgetConfig("container.column").
			WithStyle("gap", "8px")))
		require.NoError(t, l.AddChildWidget("hero", "title", domain.NewWidgetConfig("text.heading").
			WithProperty("content", "Saved page").
			WithProperty("level", float64(1))))
		l.SetMetadata("title", "Contract fixture")
		return l
	}

	t.Run("Save and Load", func(t *testing.T) {
		layout := build(t)
		require.NoError(t, store.Save(ctx, key, layout), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, layout.RootWidgets(), loaded.RootWidgets())
		assert.Equal(t, layout.WidgetCount(), loaded.WidgetCount())

		title, ok := loaded.Widget("title")
		require.True(t, ok)
		assert.Equal(t, "Saved page", title.Config.StringProperty("content", ""))

		meta, ok := loaded.MetadataValue("title")
		require.True(t, ok)
		assert.Equal(t, "Contract fixture", meta)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, build(t)))

		replacement := domain.NewLayout()
		require.NoError(t, replacement.AddRootWidget("solo", domain.NewWidgetConfig("text")))
		require.NoError(t, store.Save(ctx, key, replacement))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []domain.WidgetID{"solo"}, loaded.RootWidgets())
		assert.Equal(t, 1, loaded.WidgetCount())
	})

	t.Run("Loaded Copies Are Independent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, build(t)))

		first, err := store.Load(ctx, key)
		require.NoError(t, err)
		require.NoError(t, first.RemoveWidget("hero"))

		second, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 2, second.WidgetCount(), "mutating a loaded layout must not affect the store")
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, build(t)))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrLayoutNotFound, "Load after Delete should return ErrLayoutNotFound")
	})

	t.Run("List", func(t *testing.T) {
		key1 := key + "-1"
		key2 := key + "-2"
		require.NoError(t, store.Save(ctx, key1, build(t)))
		require.NoError(t, store.Save(ctx, key2, build(t)))

		defer func() {
			_ = store.Delete(ctx, key1)
			_ = store.Delete(ctx, key2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, key1)
		assert.Contains(t, keys, key2)
	})
}
