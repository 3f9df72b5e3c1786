// Package metrics exposes planning engine and service counters through a
// private Prometheus registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Engine Metrics
	PassesTotal            *prometheus.CounterVec
	NodesMovedTotal        prometheus.Counter
	RejectionsTotal        *prometheus.CounterVec
	GraphNodes             prometheus.Gauge
	GraphRelations         prometheus.Gauge
	GraphDanglingRelations prometheus.Gauge
	FlushesTotal           prometheus.Counter
	FlushEntries           prometheus.Histogram

	// Service Metrics
	UseCasesTotal    *prometheus.CounterVec
	UseCaseDuration  *prometheus.HistogramVec
	StoreWritesTotal *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initEngineMetrics()
	r.initServiceMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
