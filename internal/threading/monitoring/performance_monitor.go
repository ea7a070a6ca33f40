package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Alert thresholds.
const (
	lowFPSThreshold      = 30
	highMemoryThreshold  = 500 // MB
	overdrawSegmentLimit = 2000
)

// PerformanceMonitor tracks frame timing and render counters. Counters
// are atomics so the debug server can read them while frames render.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount     atomic.Uint64
	frameTime      atomic.Uint64 // nanoseconds, last frame
	totalFrameTime atomic.Uint64

	// Stage timings of the last frame, nanoseconds
	walkTime   atomic.Uint64
	spriteTime atomic.Uint64
	doorTime   atomic.Uint64

	// Render counters of the last frame
	subSectors    atomic.Int64
	segments      atomic.Int64
	sprites       atomic.Int64
	openColumns   atomic.Int64
	totalSegments atomic.Uint64

	// Worker pool
	workers       atomic.Int32
	completedJobs atomic.Int64

	mutex          sync.RWMutex
	peakFrameTime  time.Duration
	startTime      time.Time
	enableDetailed bool
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime:      time.Now(),
		enableDetailed: true,
	}
}

// FrameTimer measures one frame.
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: pm, startTime: time.Now()}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	elapsed := time.Since(ft.startTime)
	pm := ft.monitor
	pm.frameTime.Store(uint64(elapsed.Nanoseconds()))
	pm.totalFrameTime.Add(uint64(elapsed.Nanoseconds()))
	pm.frameCount.Add(1)

	pm.mutex.Lock()
	if pm.enableDetailed && elapsed > pm.peakFrameTime {
		pm.peakFrameTime = elapsed
	}
	pm.mutex.Unlock()
}

// RecordRender stores the counters of the frame just drawn.
func (pm *PerformanceMonitor) RecordRender(subSectors, segments, sprites, openColumns int) {
	pm.subSectors.Store(int64(subSectors))
	pm.segments.Store(int64(segments))
	pm.sprites.Store(int64(sprites))
	pm.openColumns.Store(int64(openColumns))
	pm.totalSegments.Add(uint64(segments))
}

// UpdateWorkerMetrics records the state of the worker pool.
func (pm *PerformanceMonitor) UpdateWorkerMetrics(workers int32, completed int64) {
	pm.workers.Store(workers)
	pm.completedJobs.Store(completed)
}

// ProfiledFunction runs fn and records its duration under a stage name:
// "bsp_walk", "sprites" or "doors". Other names are timed but not stored.
func (pm *PerformanceMonitor) ProfiledFunction(name string, fn func()) time.Duration {
	start := time.Now()
	fn()
	duration := time.Since(start)

	switch name {
	case "bsp_walk":
		pm.walkTime.Store(uint64(duration.Nanoseconds()))
	case "sprites":
		pm.spriteTime.Store(uint64(duration.Nanoseconds()))
	case "doors":
		pm.doorTime.Store(uint64(duration.Nanoseconds()))
	}
	return duration
}

// RenderMetrics is a snapshot of the most important numbers.
type RenderMetrics struct {
	FramesPerSecond float64
	FrameCount      uint64
	SubSectors      int64
	Segments        int64
	Sprites         int64
	MemoryUsageMB   uint64
}

func (pm *PerformanceMonitor) fps() float64 {
	frameTime := pm.frameTime.Load()
	if frameTime == 0 {
		return 0
	}
	return float64(time.Second) / float64(frameTime)
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() RenderMetrics {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RenderMetrics{
		FramesPerSecond: pm.fps(),
		FrameCount:      pm.frameCount.Load(),
		SubSectors:      pm.subSectors.Load(),
		Segments:        pm.segments.Load(),
		Sprites:         pm.sprites.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// AverageFrameTime returns the mean frame duration since the last reset.
func (pm *PerformanceMonitor) AverageFrameTime() time.Duration {
	count := pm.frameCount.Load()
	if count == 0 {
		return 0
	}
	return time.Duration(pm.totalFrameTime.Load() / count)
}

func ms(ns uint64) float64 {
	return float64(ns) / float64(time.Millisecond)
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	peak := pm.peakFrameTime
	uptime := time.Since(pm.startTime)
	pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return map[string]interface{}{
		"uptime_seconds":     uptime.Seconds(),
		"frame_count":        pm.frameCount.Load(),
		"current_fps":        pm.fps(),
		"avg_frame_time_ms":  ms(uint64(pm.AverageFrameTime())),
		"peak_frame_time_ms": ms(uint64(peak)),
		"bsp_walk_time_ms":   ms(pm.walkTime.Load()),
		"sprite_time_ms":     ms(pm.spriteTime.Load()),
		"door_time_ms":       ms(pm.doorTime.Load()),
		"sub_sectors":        pm.subSectors.Load(),
		"segments":           pm.segments.Load(),
		"sprites":            pm.sprites.Load(),
		"open_columns":       pm.openColumns.Load(),
		"total_segments":     pm.totalSegments.Load(),
		"workers":            pm.workers.Load(),
		"completed_jobs":     pm.completedJobs.Load(),
		"memory_alloc_mb":    memStats.Alloc / 1024 / 1024,
		"gc_cycles":          memStats.NumGC,
		"goroutines":         runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	Timestamp time.Time `json:"timestamp"`
}

// CheckPerformanceAlerts checks for performance issues and returns alerts
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	if fps := pm.fps(); fps > 0 && fps < lowFPSThreshold {
		alerts = append(alerts, PerformanceAlert{
			Type:      "low_fps",
			Message:   "Frame rate is below 30 FPS",
			Value:     fps,
			Threshold: lowFPSThreshold,
			Timestamp: now,
		})
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	if memoryMB := float64(memStats.Alloc) / 1024 / 1024; memoryMB > highMemoryThreshold {
		alerts = append(alerts, PerformanceAlert{
			Type:      "high_memory",
			Message:   "Memory usage is above 500MB",
			Value:     memoryMB,
			Threshold: highMemoryThreshold,
			Timestamp: now,
		})
	}

	if segs := pm.segments.Load(); segs > overdrawSegmentLimit {
		alerts = append(alerts, PerformanceAlert{
			Type:      "segment_overdraw",
			Message:   "More than 2000 segments drawn in one frame",
			Value:     float64(segs),
			Threshold: overdrawSegmentLimit,
			Timestamp: now,
		})
	}

	return alerts
}

// EnableDetailedLogging toggles peak frame tracking.
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()
	pm.enableDetailed = enabled
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.totalFrameTime.Store(0)
	pm.walkTime.Store(0)
	pm.spriteTime.Store(0)
	pm.doorTime.Store(0)
	pm.subSectors.Store(0)
	pm.segments.Store(0)
	pm.sprites.Store(0)
	pm.openColumns.Store(0)
	pm.totalSegments.Store(0)
	pm.completedJobs.Store(0)

	pm.mutex.Lock()
	pm.peakFrameTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
