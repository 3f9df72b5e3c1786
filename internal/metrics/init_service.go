package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initServiceMetrics() {
	r.UseCasesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plangraph_use_cases_total",
			Help: "Total number of service use cases executed",
		},
		[]string{"use_case", "status"},
	)

	r.UseCaseDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plangraph_use_case_duration_seconds",
			Help:    "Service use case duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
		[]string{"use_case"},
	)

	r.StoreWritesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plangraph_store_writes_total",
			Help: "Total number of rows written to the store",
		},
		[]string{"table"},
	)
}
