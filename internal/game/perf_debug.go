package game

import (
	"fmt"
	"strings"
	"time"
)

const perfLogInterval = 3 * time.Second

// maybeLogPerfAlerts logs active performance alerts at most once per
// perfLogInterval when verbose debugging is on.
func (g *Game) maybeLogPerfAlerts() {
	if !g.config.Debug.Verbose || g.threading == nil {
		return
	}
	now := time.Now()
	if !g.perfLastLog.IsZero() && now.Sub(g.perfLastLog) < perfLogInterval {
		return
	}
	alerts := g.Alerts()
	if len(alerts) == 0 {
		return
	}
	g.perfLastLog = now
	logger.Print(g.perfSnapshot())
}

func (g *Game) perfSnapshot() string {
	stats := g.PerformanceStats()
	var b strings.Builder
	fmt.Fprintf(&b, "[PERF] fps=%.1f frame=%.2fms walk=%.2fms sprites=%.2fms doors=%.2fms",
		getPerfFloat(stats, "current_fps"),
		getPerfFloat(stats, "avg_frame_time_ms"),
		getPerfFloat(stats, "bsp_walk_time_ms"),
		getPerfFloat(stats, "sprite_time_ms"),
		getPerfFloat(stats, "door_time_ms"))
	fmt.Fprintf(&b, " leaves=%d segs=%d sprites=%d open=%d",
		getPerfInt(stats, "sub_sectors"),
		getPerfInt(stats, "segments"),
		getPerfInt(stats, "sprites"),
		getPerfInt(stats, "open_columns"))
	for _, a := range g.Alerts() {
		fmt.Fprintf(&b, " | %s: %s", a.Type, a.Message)
	}
	return b.String()
}

func getPerfFloat(stats map[string]interface{}, key string) float64 {
	switch v := stats[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	}
	return 0
}

func getPerfInt(stats map[string]interface{}, key string) int64 {
	switch v := stats[key].(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
