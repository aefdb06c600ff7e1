package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestGlobalManager(t *testing.T) {
	if globalManager == nil {
		t.Fatal("global manager should be initialized")
	}
	if GetManager() != globalManager {
		t.Error("GetManager should return the global instance")
	}
	if GetRegistry() == nil {
		t.Error("GetRegistry should return the custom registry")
	}
}

func TestNewManagerOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(
		WithNamespace("testns"),
		WithSubsystem("testsub"),
		WithHistogramBuckets([]float64{1, 5, 10}),
		WithPrometheusRegistry(reg),
	)

	if m.namespace != "testns" {
		t.Errorf("expected namespace testns, got %s", m.namespace)
	}
	if m.subsystem != "testsub" {
		t.Errorf("expected subsystem testsub, got %s", m.subsystem)
	}
	if len(m.histogramBuckets) != 3 {
		t.Errorf("expected 3 buckets, got %d", len(m.histogramBuckets))
	}
}

func TestRecordFunctions(t *testing.T) {
	// Exercise the package-level helpers; panics would fail the test.
	RecordDatasetUploaded(250)
	RecordRunSubmitted()
	RecordRunDuplicate()
	RecordRunCompleted(250)
	RecordRunFailed()
	RecordScoringLatency(12.5)
	UpdateQueueSize(3)
	UpdateQueueCapacity(100)
	UpdateQueueUtilization(0.03)
	RecordQueueEnqueue()
	RecordQueueDequeue()
	RecordQueueEnqueueError()
	RecordQueueProcessingLatency(0.5)
	UpdateWorkerCount(4)
	UpdateWorkerActiveCount(4)
	UpdateWorkerIdleCount(0)
	UpdateWorkerRunsPerSecond(1.5)
	RecordWorkerProcessingLatency(20)
	RecordWorkerError()
	UpdateTotalDatasets(2)
	UpdateTotalRuns(7)
	UpdateStoreShardCount(8)
	RecordStoreUpdateLatency(0.2)
	RecordStoreQueryLatency(0.1)
	RecordHTTPRequest("datasets", "POST", "201")
	RecordHTTPRequestDuration("datasets", "POST", "201", 3.2)
	RecordErrorByComponent("queue", "capacity_exceeded")
	RecordErrorByType("client_error", "medium")
	RecordErrorByEndpoint("recommendations", "POST", "client_error")
	RecordErrorLatency("http", "client_error", 1.1)
	UpdateSystemMemoryUsage(1 << 20)
	UpdateSystemGoroutineCount(42)
	RecordSystemGCPauseTime(0.7)

	mfs, err := GetRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}
	if len(mfs) == 0 {
		t.Error("expected gathered metric families")
	}
}
