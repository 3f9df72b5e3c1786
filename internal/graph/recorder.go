package graph

// Recorder receives engine counters. The metrics package provides the
// Prometheus implementation.
type Recorder interface {
	RecordPass(kind string)
	RecordNodeMoved()
	RecordRejection(reason string)
	RecordBuild(nodes, relations, dangling int)
	RecordFlush(entries int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) RecordPass(string) {}
func (NoopRecorder) RecordNodeMoved() {}
func (NoopRecorder) RecordRejection(string) {}
func (NoopRecorder) RecordBuild(int, int, int) {}
func (NoopRecorder) RecordFlush(int) {}

// Pass kinds reported to the Recorder.
const (
	PassLimits = "limits"
	PassMove   = "move"
)
