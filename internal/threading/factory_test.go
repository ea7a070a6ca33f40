package threading

import (
	"testing"
	"time"
)

func TestNewThreadingComponents(t *testing.T) {
	tc := NewThreadingComponents(2)
	defer tc.Shutdown()

	if tc.ParallelRenderer == nil || tc.ShadeCache == nil || tc.PerformanceMonitor == nil {
		t.Fatal("Expected every component to be created")
	}
	if tc.ParallelRenderer.Workers() != 2 {
		t.Errorf("Expected 2 workers, got %d", tc.ParallelRenderer.Workers())
	}

	stats := tc.GetDetailedPerformanceStats()
	for _, key := range []string{"shade_cache_entries", "shade_cache_hits", "frame_count"} {
		if _, ok := stats[key]; !ok {
			t.Errorf("Expected key %q in stats", key)
		}
	}
	if w, ok := stats["workers"].(int32); !ok || w != 2 {
		t.Errorf("Expected 2 workers in stats, got %v", stats["workers"])
	}
}

func TestWorkerJobsReachStats(t *testing.T) {
	tc := NewThreadingComponents(2)
	defer tc.Shutdown()

	tc.ParallelRenderer.RenderColumns(320, func(x0, x1 int) {})

	// Workers count a job after its band returns.
	deadline := time.Now().Add(time.Second)
	for {
		jobs, _ := tc.GetDetailedPerformanceStats()["completed_jobs"].(int64)
		if jobs == 2 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Expected 2 completed jobs, got %d", jobs)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestShutdownEmptyComponents(t *testing.T) {
	tc := &ThreadingComponents{}
	tc.Shutdown()
	if tc.GetDetailedPerformanceStats() != nil {
		t.Error("Expected nil stats without a monitor")
	}
	if tc.CheckPerformanceAlerts() != nil {
		t.Error("Expected nil alerts without a monitor")
	}
}
