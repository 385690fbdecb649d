// Package metrics provides observability hooks for repository operations.
//
// The package implements the Null Object pattern: components receive a
// Recorder through dependency injection and default to NoopRecorder, so no
// nil checks are needed at call sites and metrics stay zero-overhead until
// a real implementation (PrometheusRecorder) is injected by an embedding
// application.
package metrics
