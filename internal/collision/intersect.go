package collision

import "doomcore/internal/geometry"

// parallelEpsilon is the smallest ray/segment determinant treated as
// non-parallel.
const parallelEpsilon = 1e-10

// IntersectRaySegment intersects the ray origin + t*dir with the segment
// a→b. It returns the hit point and the ray parameter t (distance along
// dir, in units of |dir|). Parallel rays and hits behind the origin are
// misses.
func IntersectRaySegment(origin, dir, a, b geometry.Vec2) (geometry.Vec2, float64, bool) {
	seg := b.Sub(a)
	denom := dir.X*seg.Y - dir.Y*seg.X
	if denom > -parallelEpsilon && denom < parallelEpsilon {
		return geometry.Vec2{}, 0, false
	}

	rel := a.Sub(origin)
	t1 := (rel.X*seg.Y - rel.Y*seg.X) / denom
	t2 := (rel.X*dir.Y - rel.Y*dir.X) / denom
	if t1 < 0 || t2 < 0 || t2 > 1 {
		return geometry.Vec2{}, 0, false
	}
	return origin.Add(dir.Scale(t1)), t1, true
}

// ClosestPointOnSegment returns the point of a→b nearest to p.
func ClosestPointOnSegment(p, a, b geometry.Vec2) geometry.Vec2 {
	seg := b.Sub(a)
	lenSq := seg.LenSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(seg) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(seg.Scale(t))
}

// CircleIntersectsSegment reports whether the circle at center with the
// given radius touches the segment a→b.
func CircleIntersectsSegment(center, a, b geometry.Vec2, radius float64) bool {
	return center.Sub(ClosestPointOnSegment(center, a, b)).LenSq() <= radius*radius
}
