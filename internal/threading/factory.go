package threading

import (
	"doomcore/internal/threading/monitoring"
	"doomcore/internal/threading/rendering"
)

// ThreadingComponents holds all threading-related components
type ThreadingComponents struct {
	ParallelRenderer   *rendering.ParallelRenderer
	ShadeCache         *rendering.ShadeCache
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewThreadingComponents creates the components shared by the renderer
// and the debug server. workers <= 0 means one worker per CPU.
func NewThreadingComponents(workers int) *ThreadingComponents {
	return &ThreadingComponents{
		ParallelRenderer:   rendering.NewParallelRenderer(workers),
		ShadeCache:         rendering.NewShadeCache(),
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
}

// Shutdown gracefully shuts down all threading components
func (tc *ThreadingComponents) Shutdown() {
	if tc.ParallelRenderer != nil {
		tc.ParallelRenderer.Stop()
	}
	if tc.ShadeCache != nil {
		tc.ShadeCache.Clear()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// GetDetailedPerformanceStats returns detailed performance statistics
// together with worker pool and shade cache counters.
func (tc *ThreadingComponents) GetDetailedPerformanceStats() map[string]interface{} {
	if tc.PerformanceMonitor == nil {
		return nil
	}
	if tc.ParallelRenderer != nil {
		tc.PerformanceMonitor.UpdateWorkerMetrics(int32(tc.ParallelRenderer.Workers()), tc.ParallelRenderer.CompletedJobs())
	}
	stats := tc.PerformanceMonitor.GetDetailedStats()
	if tc.ShadeCache != nil {
		hits, misses := tc.ShadeCache.Stats()
		stats["shade_cache_entries"] = tc.ShadeCache.Len()
		stats["shade_cache_hits"] = hits
		stats["shade_cache_misses"] = misses
	}
	return stats
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *ThreadingComponents) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.CheckPerformanceAlerts()
	}
	return nil
}
