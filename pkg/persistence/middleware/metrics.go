package middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// StoreMetrics holds the collectors the metrics middleware records into.
type StoreMetrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewStoreMetrics creates and registers the layout store collectors.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_store_operations_total",
				Help: "Total number of layout store operations",
			},
			[]string{"op", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "lattice_store_operation_seconds",
				Help: "Duration of layout store operations",
			},
			[]string{"op"},
		),
	}
	reg.MustRegister(m.Operations, m.Duration)
	return m
}

type metricsMiddleware struct {
	next    ports.LayoutStore
	metrics *StoreMetrics
}

// NewMetricsMiddleware creates a middleware that counts and times every
// store operation.
func NewMetricsMiddleware(metrics *StoreMetrics) Middleware {
	return func(next ports.LayoutStore) ports.LayoutStore {
		return &metricsMiddleware{next: next, metrics: metrics}
	}
}

func (m *metricsMiddleware) observe(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.Operations.WithLabelValues(op, status).Inc()
	m.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *metricsMiddleware) Save(ctx context.Context, key string, layout *domain.Layout) error {
	start := time.Now()
	err := m.next.Save(ctx, key, layout)
	m.observe("save", start, err)
	return err
}

func (m *metricsMiddleware) Load(ctx context.Context, key string) (*domain.Layout, error) {
	start := time.Now()
	layout, err := m.next.Load(ctx, key)
	m.observe("load", start, err)
	return layout, err
}

func (m *metricsMiddleware) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := m.next.Delete(ctx, key)
	m.observe("delete", start, err)
	return err
}

func (m *metricsMiddleware) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	keys, err := m.next.List(ctx)
	m.observe("list", start, err)
	return keys, err
}
