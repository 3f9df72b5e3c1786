package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initEngineMetrics() {
	r.PassesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plangraph_passes_total",
			Help: "Total number of bound and move passes started",
		},
		[]string{"kind"},
	)

	r.NodesMovedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "plangraph_nodes_moved_total",
			Help: "Total number of node date changes applied by the propagator",
		},
	)

	r.RejectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "plangraph_rejections_total",
			Help: "Total number of edits rejected before any mutation",
		},
		[]string{"reason"},
	)

	r.GraphNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "plangraph_graph_nodes",
			Help: "Number of issues loaded in the graph at the last build",
		},
	)

	r.GraphRelations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "plangraph_graph_relations",
			Help: "Number of relations loaded in the graph at the last build",
		},
	)

	r.GraphDanglingRelations = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "plangraph_graph_dangling_relations",
			Help: "Number of relations with a missing endpoint at the last build",
		},
	)

	r.FlushesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "plangraph_flushes_total",
			Help: "Total number of change-set flushes",
		},
	)

	r.FlushEntries = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plangraph_flush_entries",
			Help:    "Number of issues per flushed change-set",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
}
