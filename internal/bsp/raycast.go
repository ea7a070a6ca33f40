package bsp

import (
	"doomcore/internal/collision"
	"doomcore/internal/geometry"
)

// RayHit is the nearest wall segment struck by a ray.
type RayHit struct {
	SegID int
	Point geometry.Vec2
	T     float64
}

// CastRay returns the first segment hit by origin + t*dir with
// t <= maxDistance. Subtrees are tried near side first and the walk stops
// at the first leaf with a hit: near-side hits can never lie beyond the
// partition crossing, far-side hits never before it.
func (e *Engine) CastRay(origin, dir geometry.Vec2, maxDistance float64) (RayHit, bool) {
	stack := make([]int, 0, 64)
	stack = append(stack, e.level.RootNode())
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !geometry.IsSubSector(id) {
			near, far, _ := e.children(e.node(id), origin)
			stack = append(stack, far, near)
			continue
		}

		if hit, ok := e.castInSubSector(e.subSector(id), origin, dir, maxDistance); ok {
			return hit, true
		}
	}
	return RayHit{}, false
}

func (e *Engine) castInSubSector(ss int, origin, dir geometry.Vec2, maxDistance float64) (RayHit, bool) {
	best := RayHit{SegID: -1}
	first, count := e.level.SubSectorSegments(ss)
	for segID := first; segID < first+count; segID++ {
		seg := &e.level.Segments[segID]
		point, t, ok := collision.IntersectRaySegment(origin, dir, seg.V1, seg.V2)
		if !ok || t > maxDistance {
			continue
		}
		if best.SegID < 0 || t < best.T {
			best = RayHit{SegID: segID, Point: point, T: t}
		}
	}
	return best, best.SegID >= 0
}
