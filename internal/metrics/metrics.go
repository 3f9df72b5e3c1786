package metrics

import (
	"fmt"
	"time"

	"github.com/alexanderramin/plangraph/internal/graph"
	"github.com/prometheus/client_golang/prometheus"
)

var _ graph.Recorder = (*Registry)(nil)

// RecordPass counts a bound or move pass
func (r *Registry) RecordPass(kind string) {
	r.PassesTotal.WithLabelValues(kind).Inc()
}

// RecordNodeMoved counts one applied date change
func (r *Registry) RecordNodeMoved() {
	r.NodesMovedTotal.Inc()
}

// RecordRejection counts an edit refused up front
func (r *Registry) RecordRejection(reason string) {
	r.RejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordBuild updates the graph size gauges
func (r *Registry) RecordBuild(nodes, relations, dangling int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphRelations.Set(float64(relations))
	r.GraphDanglingRelations.Set(float64(dangling))
}

// RecordFlush records a committed change-set
func (r *Registry) RecordFlush(entries int) {
	r.FlushesTotal.Inc()
	r.FlushEntries.Observe(float64(entries))
}

// RecordUseCase records a service use case with its duration
func (r *Registry) RecordUseCase(name string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	r.UseCasesTotal.WithLabelValues(name, status).Inc()
	r.UseCaseDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// RecordStoreWrites counts rows written to a table
func (r *Registry) RecordStoreWrites(table string, rows int) {
	r.StoreWritesTotal.WithLabelValues(table).Add(float64(rows))
}

// WriteTextfile writes every metric to path in the text exposition format,
// for pickup by a node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
