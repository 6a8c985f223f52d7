package observability_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
)

func TestMetrics_ObservesEditorLifecycle(t *testing.T) {
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ed := lattice.New(lattice.WithHooks(metrics.Hooks()))

	_, err := ed.AddRootWidget(ctx, "text.heading")
	require.NoError(t, err)
	_, err = ed.AddRootWidget(ctx, "basic.button")
	require.NoError(t, err)

	_, ok := ed.Undo(ctx)
	require.True(t, ok)
	_, ok = ed.Redo(ctx)
	require.True(t, ok)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Mutations.WithLabelValues("add_root")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.HistoryEvents.WithLabelValues("mutation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HistoryEvents.WithLabelValues("undo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.HistoryEvents.WithLabelValues("redo")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Widgets),
		"gauge tracks the document size after the last mutation")
}

func TestMetrics_AutosaveStatus(t *testing.T) {
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ed := lattice.New(
		lattice.WithHooks(metrics.Hooks()),
		lattice.WithStore(memory.NewStore()),
	)
	_, err := ed.AddRootWidget(ctx, "text.heading")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Autosaves.WithLabelValues("ok")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.Autosaves.WithLabelValues("error")))
}

func TestMetrics_AutosaveErrorCounted(t *testing.T) {
	ctx := context.Background()
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	ed := lattice.New(
		lattice.WithHooks(metrics.Hooks()),
		lattice.WithStore(failingStore{}),
	)
	_, err := ed.AddRootWidget(ctx, "text.heading")
	require.NoError(t, err, "autosave failures must not fail the mutation")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Autosaves.WithLabelValues("error")))
}

type failingStore struct{}

func (failingStore) Save(context.Context, string, *domain.Layout) error {
	return assert.AnError
}

func (failingStore) Load(context.Context, string) (*domain.Layout, error) {
	return nil, domain.ErrLayoutNotFound
}

func (failingStore) Delete(context.Context, string) error { return nil }

func (failingStore) List(context.Context) ([]string, error) { return nil, nil }
