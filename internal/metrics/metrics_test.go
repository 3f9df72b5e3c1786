package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/plangraph/internal/calendar"
	"github.com/alexanderramin/plangraph/internal/graph"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	require.NotNil(t, r)
	assert.NotNil(t, r.PassesTotal)
	assert.NotNil(t, r.UseCasesTotal)
	assert.NotNil(t, r.GetPrometheusRegistry())
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordUseCase(t *testing.T) {
	r := NewRegistry()
	r.RecordUseCase("move", true, 10*time.Millisecond)
	r.RecordUseCase("move", true, 20*time.Millisecond)
	r.RecordUseCase("move", false, 5*time.Millisecond)

	ok, err := r.UseCasesTotal.GetMetricWithLabelValues("move", "success")
	require.NoError(t, err)
	assert.Equal(t, 2.0, counterValue(t, ok))

	failed, err := r.UseCasesTotal.GetMetricWithLabelValues("move", "error")
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, failed))
}

func TestRegistryRecordsEngineActivity(t *testing.T) {
	r := NewRegistry()
	g := graph.New(
		graph.WithClock(calendar.FixedClock(calendar.Date(2024, 1, 1))),
		graph.WithRecorder(r),
	)
	g.AddNode(&graph.Node{ID: "A", Start: calendar.Date(2024, 1, 1), Due: calendar.Date(2024, 1, 5), Leaf: true})
	g.AddNode(&graph.Node{ID: "B", Start: calendar.Date(2024, 1, 10), Due: calendar.Date(2024, 1, 15), Leaf: true})
	g.AddRelation(&graph.Relation{ID: "r1", FromID: "A", ToID: "B", Type: "precedes"})
	g.AddRelation(&graph.Relation{ID: "r2", FromID: "A", ToID: "gone", Type: "blocks"})
	g.Build()

	_, err := g.Move("A", graph.Shift(calendar.Days(3)), g.NextPass())
	require.NoError(t, err)
	_, err = g.Move("A", graph.Reschedule(calendar.Date(2024, 1, 5), calendar.Date(2024, 1, 5)), g.NextPass())
	require.Error(t, err)
	g.Flush()

	assert.Equal(t, 2.0, gaugeValue(t, r.GraphNodes))
	assert.Equal(t, 2.0, gaugeValue(t, r.GraphRelations))
	assert.Equal(t, 1.0, gaugeValue(t, r.GraphDanglingRelations))
	assert.Equal(t, 2.0, counterValue(t, r.NodesMovedTotal))
	assert.Equal(t, 1.0, counterValue(t, r.FlushesTotal))

	moves, err := r.PassesTotal.GetMetricWithLabelValues(graph.PassMove)
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, moves))

	rejected, err := r.RejectionsTotal.GetMetricWithLabelValues("invalid_range")
	require.NoError(t, err)
	assert.Equal(t, 1.0, counterValue(t, rejected))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordStoreWrites("issues", 3)

	path := filepath.Join(t.TempDir(), "plangraph.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `plangraph_store_writes_total{table="issues"} 3`))
}

func TestWriteTextfile_BadPath(t *testing.T) {
	r := NewRegistry()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}
