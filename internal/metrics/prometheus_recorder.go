package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	recordsAdded    *prom.CounterVec
	syncResults     *prom.CounterVec
	syncDuration    *prom.HistogramVec
	publishDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.recordsAdded = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "easybuild",
			Name:      "repo_records_added_total",
			Help:      "Build records written, by backend and result",
		}, []string{"backend", "result"})
		pr.syncResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "easybuild",
			Name:      "repo_sync_results_total",
			Help:      "Remote synchronization results by backend and operation",
		}, []string{"backend", "operation", "result"})
		pr.syncDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "easybuild",
			Name:      "repo_sync_duration_seconds",
			Help:      "Duration of remote synchronization operations",
			Buckets:   prom.DefBuckets,
		}, []string{"backend", "operation"})
		pr.publishDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "easybuild",
			Name:      "repo_publish_duration_seconds",
			Help:      "Duration of commit/publish operations",
			Buckets:   prom.DefBuckets,
		}, []string{"backend"})
		reg.MustRegister(pr.recordsAdded, pr.syncResults, pr.syncDuration, pr.publishDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncRecordAdded(backend string, result ResultLabel) {
	if p == nil || p.recordsAdded == nil {
		return
	}
	p.recordsAdded.WithLabelValues(backend, string(result)).Inc()
}

func (p *PrometheusRecorder) IncSyncResult(backend, operation string, result ResultLabel) {
	if p == nil || p.syncResults == nil {
		return
	}
	p.syncResults.WithLabelValues(backend, operation, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveSyncDuration(backend, operation string, d time.Duration) {
	if p == nil || p.syncDuration == nil {
		return
	}
	p.syncDuration.WithLabelValues(backend, operation).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObservePublishDuration(backend string, d time.Duration) {
	if p == nil || p.publishDuration == nil {
		return
	}
	p.publishDuration.WithLabelValues(backend).Observe(d.Seconds())
}
