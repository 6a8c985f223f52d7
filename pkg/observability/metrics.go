package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/lattice/pkg/domain"
)

// Metrics holds the editor collectors.
type Metrics struct {
	Mutations     *prometheus.CounterVec
	HistoryEvents *prometheus.CounterVec
	Autosaves     *prometheus.CounterVec
	Widgets       prometheus.Gauge
	HistoryDepth  prometheus.Gauge
}

// NewMetrics creates and registers the editor collectors.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_editor_mutations_total",
				Help: "Total number of applied document mutations",
			},
			[]string{"op"},
		),
		HistoryEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_editor_history_events_total",
				Help: "Total number of history movements by trigger",
			},
			[]string{"type"},
		),
		Autosaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_editor_autosaves_total",
				Help: "Total number of autosave attempts",
			},
			[]string{"status"},
		),
		Widgets: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lattice_editor_widgets",
				Help: "Widget count of the document after the last mutation",
			},
		),
		HistoryDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "lattice_editor_history_depth",
				Help: "Snapshots held in the undo window",
			},
		),
	}
	reg.MustRegister(m.Mutations, m.HistoryEvents, m.Autosaves, m.Widgets, m.HistoryDepth)
	return m
}

// Hooks adapts the collectors to domain.EditorHooks. The returned hooks are
// safe to combine with host callbacks via CombineHooks.
func (m *Metrics) Hooks() domain.EditorHooks {
	return domain.EditorHooks{
		OnMutation: func(_ context.Context, ev *domain.MutationEvent) {
			m.Mutations.WithLabelValues(string(ev.Op)).Inc()
			m.Widgets.Set(float64(ev.WidgetCount))
		},
		OnSnapshot: func(_ context.Context, ev *domain.SnapshotEvent) {
			m.HistoryEvents.WithLabelValues(string(ev.Type)).Inc()
			m.HistoryDepth.Set(float64(ev.Depth))
		},
		OnAutosave: func(_ context.Context, ev *domain.AutosaveEvent) {
			status := "ok"
			if ev.Err != nil {
				status = "error"
			}
			m.Autosaves.WithLabelValues(status).Inc()
		},
	}
}
