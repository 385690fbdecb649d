package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncRecordAdded("git", ResultSuccess)
	pr.IncSyncResult("git", "pull", ResultWarning)
	pr.ObserveSyncDuration("git", "clone", 150*time.Millisecond)
	pr.ObservePublishDuration("svn", 500*time.Millisecond)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncRecordAdded("fs", ResultSuccess)
	pr.IncSyncResult("svn", "update", ResultFatal)
	pr.ObserveSyncDuration("git", "push", time.Second)
	pr.ObservePublishDuration("git", time.Second)
}
