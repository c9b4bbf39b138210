// Package metrics exports the engine's dispatch counters as Prometheus
// collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DispatchMetrics implements ports.DispatchMetrics on a dedicated registry so
// tests can read counters without touching global state.
type DispatchMetrics struct {
	registry          *prometheus.Registry
	actionsProcessed  prometheus.Counter
	endpointsTargeted prometheus.Counter
}

func NewDispatchMetrics() *DispatchMetrics {
	registry := prometheus.NewRegistry()

	actionsProcessed := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_actions_processed_total",
			Help: "Total incoming actions accepted for dispatch",
		},
	)
	endpointsTargeted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notifications_endpoints_targeted_total",
			Help: "Total endpoint delivery attempts across all actions",
		},
	)
	registry.MustRegister(actionsProcessed, endpointsTargeted)

	return &DispatchMetrics{
		registry:          registry,
		actionsProcessed:  actionsProcessed,
		endpointsTargeted: endpointsTargeted,
	}
}

// ActionProcessed counts one accepted action, resolved or not.
func (m *DispatchMetrics) ActionProcessed() {
	m.actionsProcessed.Inc()
}

// EndpointTargeted counts one delivery attempt against a resolved endpoint.
func (m *DispatchMetrics) EndpointTargeted() {
	m.endpointsTargeted.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *DispatchMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
