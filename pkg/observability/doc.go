/*
Package observability turns editor lifecycle events into Prometheus metrics.

Metrics holds the collectors; its Hooks method adapts them to
domain.EditorHooks so any editor can be observed without importing
Prometheus itself. CombineHooks merges several hook sets when a host wants
metrics alongside its own callbacks:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	ed := lattice.New(lattice.WithHooks(observability.CombineHooks(
	    metrics.Hooks(),
	    myAuditHooks,
	)))
*/
package observability
