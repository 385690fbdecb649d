package metrics

import "time"

// ResultLabel enumerates operation result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// Recorder defines observability hooks for repository operations.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on the zero value of NoopRecorder (allowing optional injection).
type Recorder interface {
	IncRecordAdded(backend string, result ResultLabel)
	IncSyncResult(backend, operation string, result ResultLabel)
	ObserveSyncDuration(backend, operation string, d time.Duration)
	ObservePublishDuration(backend string, d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncRecordAdded(string, ResultLabel)                {}
func (NoopRecorder) IncSyncResult(string, string, ResultLabel)         {}
func (NoopRecorder) ObserveSyncDuration(string, string, time.Duration) {}
func (NoopRecorder) ObservePublishDuration(string, time.Duration)      {}
