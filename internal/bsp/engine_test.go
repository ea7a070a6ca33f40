package bsp

import (
	"math"
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"doomcore/internal/collision"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
)

func newDemoEngine() *Engine {
	return NewEngine(geometry.DemoLevel(), fov.NewClipper(320, 90))
}

func TestIsOnBackSide(t *testing.T) {
	e := newDemoEngine()
	root := &e.level.Nodes[e.level.RootNode()]

	if !e.IsOnBackSide(root, geometry.Vec2{X: 64, Y: 128}) {
		t.Error("Expected room A to be behind the x=256 partition")
	}
	if e.IsOnBackSide(root, geometry.Vec2{X: 400, Y: 128}) {
		t.Error("Expected room B to be in front of the x=256 partition")
	}
	if !e.IsOnBackSide(root, geometry.Vec2{X: 256, Y: 10}) {
		t.Error("Expected points on the partition line to count as back")
	}
}

func TestSubSectorAt(t *testing.T) {
	e := newDemoEngine()
	tests := []struct {
		p         geometry.Vec2
		subSector int
		sector    int
		floor     float64
	}{
		{geometry.Vec2{X: 100, Y: 100}, 0, geometry.DemoRoomA, 0},
		{geometry.Vec2{X: 270, Y: 128}, 1, geometry.DemoDoor, 0},
		{geometry.Vec2{X: 400, Y: 100}, 2, geometry.DemoRoomB, 16},
	}
	for _, tt := range tests {
		if got := e.SubSectorAt(tt.p); got != tt.subSector {
			t.Errorf("SubSectorAt(%v) = %d, want %d", tt.p, got, tt.subSector)
		}
		if got := e.SectorAt(tt.p); got != tt.sector {
			t.Errorf("SectorAt(%v) = %d, want %d", tt.p, got, tt.sector)
		}
		if got := e.LeafContaining(tt.p); got != tt.floor {
			t.Errorf("LeafContaining(%v) = %v, want %v", tt.p, got, tt.floor)
		}
	}
}

func TestSubSectorAtPanicsOnBrokenTree(t *testing.T) {
	e := newDemoEngine()
	e.level.Nodes[1].BackChild = 42

	defer func() {
		if recover() == nil {
			t.Error("Expected panic for a node id outside the table")
		}
	}()
	e.SubSectorAt(geometry.Vec2{X: 10, Y: 10})
}

func collectLeaves(e *Engine, view fov.View) []int {
	var leaves []int
	e.WalkSubSectors(view, func(ss int) bool {
		leaves = append(leaves, ss)
		return true
	})
	return leaves
}

func TestWalkSubSectorsOrder(t *testing.T) {
	e := newDemoEngine()
	tests := []struct {
		name string
		view fov.View
		want []int
	}{
		{"room A facing east", fov.View{Pos: geometry.Vec2{X: 64, Y: 128}, Angle: 0}, []int{0, 1, 2}},
		{"room A facing west", fov.View{Pos: geometry.Vec2{X: 64, Y: 128}, Angle: 180}, []int{0}},
		{"room B facing west", fov.View{Pos: geometry.Vec2{X: 400, Y: 128}, Angle: 180}, []int{2, 1, 0}},
		{"room B facing east", fov.View{Pos: geometry.Vec2{X: 400, Y: 128}, Angle: 0}, []int{2}},
		{"door facing north", fov.View{Pos: geometry.Vec2{X: 272, Y: 128}, Angle: 90}, []int{1, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collectLeaves(e, tt.view); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Expected leaves %v, got %v", tt.want, got)
			}
		})
	}
}

func TestWalkSubSectorsStops(t *testing.T) {
	e := newDemoEngine()
	calls := 0
	e.WalkSubSectors(fov.View{Pos: geometry.Vec2{X: 64, Y: 128}}, func(int) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("Expected walk to stop after one leaf, got %d calls", calls)
	}
}

func TestRenderOrderedWalk(t *testing.T) {
	e := newDemoEngine()
	view := fov.View{Pos: geometry.Vec2{X: 64, Y: 128}, Angle: 0}

	var segs []int
	e.RenderOrderedWalk(view, func(segID int, span fov.Span) bool {
		if span.X1 > span.X2 || span.X1 < 0 || span.X2 > 320 {
			t.Errorf("segment %d has bad span %+v", segID, span)
		}
		segs = append(segs, segID)
		return true
	})
	if len(segs) == 0 || segs[0] >= 6 {
		t.Fatalf("Expected room A walls first, got %v", segs)
	}
	for i := 1; i < len(segs); i++ {
		if leafOf(e, segs[i]) < leafOf(e, segs[i-1]) {
			t.Errorf("segments out of leaf order: %v", segs)
		}
	}
	for _, id := range segs {
		if id == 0 {
			t.Error("The wall behind the viewer must be culled")
		}
	}

	count := 0
	e.RenderOrderedWalk(view, func(int, fov.Span) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Errorf("Expected walk to stop after two segments, got %d", count)
	}
}

func leafOf(e *Engine, segID int) int {
	for i, ss := range e.level.SubSectors {
		if segID >= ss.FirstSeg && segID < ss.FirstSeg+ss.SegCount {
			return i
		}
	}
	return -1
}

func TestBoundingBoxVisible(t *testing.T) {
	e := newDemoEngine()
	box := geometry.BBox{Top: 256, Bottom: 0, Left: 288, Right: 544}
	tests := []struct {
		name string
		view fov.View
		want bool
	}{
		{"inside", fov.View{Pos: geometry.Vec2{X: 400, Y: 100}, Angle: 0}, true},
		{"left facing box", fov.View{Pos: geometry.Vec2{X: 64, Y: 128}, Angle: 0}, true},
		{"left facing away", fov.View{Pos: geometry.Vec2{X: 64, Y: 128}, Angle: 180}, false},
		{"above left facing box", fov.View{Pos: geometry.Vec2{X: 100, Y: 400}, Angle: 315}, true},
		{"above left facing away", fov.View{Pos: geometry.Vec2{X: 100, Y: 400}, Angle: 135}, false},
		{"right facing box", fov.View{Pos: geometry.Vec2{X: 700, Y: 128}, Angle: 180}, true},
		{"right facing away", fov.View{Pos: geometry.Vec2{X: 700, Y: 128}, Angle: 0}, false},
		{"below facing box", fov.View{Pos: geometry.Vec2{X: 400, Y: -100}, Angle: 90}, true},
		{"below facing away", fov.View{Pos: geometry.Vec2{X: 400, Y: -100}, Angle: 270}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.BoundingBoxVisible(tt.view, box); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func bruteNear(lvl *geometry.Level, p geometry.Vec2, radius float64) []int {
	var ids []int
	for i, seg := range lvl.Segments {
		if collision.CircleIntersectsSegment(p, seg.V1, seg.V2, radius) {
			ids = append(ids, i)
		}
	}
	return ids
}

func TestCollectSegmentsNear(t *testing.T) {
	e := newDemoEngine()
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		p := geometry.Vec2{X: rng.Float64()*600 - 30, Y: rng.Float64()*320 - 30}
		r := rng.Float64() * 80

		got := e.CollectSegmentsNear(p, r)
		sort.Ints(got)
		want := bruteNear(e.level, p, r)
		if len(got) == 0 && len(want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("CollectSegmentsNear(%v, %v) = %v, want %v", p, r, got, want)
		}
	}
}

func bruteCast(lvl *geometry.Level, origin, dir geometry.Vec2, maxDistance float64) (float64, bool) {
	best := math.Inf(1)
	for _, seg := range lvl.Segments {
		if _, t, ok := collision.IntersectRaySegment(origin, dir, seg.V1, seg.V2); ok && t <= maxDistance {
			best = math.Min(best, t)
		}
	}
	return best, !math.IsInf(best, 1)
}

func TestCastRayMatchesBruteForce(t *testing.T) {
	e := newDemoEngine()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 2000; i++ {
		origin := geometry.Vec2{X: rng.Float64()*560 - 8, Y: rng.Float64()*272 - 8}
		angle := rng.Float64() * 2 * math.Pi
		dir := geometry.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
		maxDistance := 20 + rng.Float64()*600

		hit, ok := e.CastRay(origin, dir, maxDistance)
		want, wantOK := bruteCast(e.level, origin, dir, maxDistance)
		if ok != wantOK {
			t.Fatalf("ray %v dir %v max %v: hit=%v, brute force hit=%v", origin, dir, maxDistance, ok, wantOK)
		}
		if !ok {
			continue
		}
		if math.Abs(hit.T-want) > 1e-9 {
			t.Fatalf("ray %v dir %v: t=%v, brute force nearest t=%v (segment %d)", origin, dir, hit.T, want, hit.SegID)
		}
	}
}

func TestCastRayBounds(t *testing.T) {
	e := newDemoEngine()
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 1000; i++ {
		origin := geometry.Vec2{X: rng.Float64() * 544, Y: rng.Float64() * 256}
		angle := rng.Float64() * 2 * math.Pi
		dir := geometry.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}
		maxDistance := rng.Float64() * 300

		hit, ok := e.CastRay(origin, dir, maxDistance)
		if !ok {
			continue
		}
		if hit.T < 0 || hit.T > maxDistance {
			t.Fatalf("t=%v outside [0, %v]", hit.T, maxDistance)
		}
		seg := e.level.Segments[hit.SegID]
		if d := hit.Point.Dist(collision.ClosestPointOnSegment(hit.Point, seg.V1, seg.V2)); d > 1e-6 {
			t.Fatalf("hit point %v is %v away from segment %d", hit.Point, d, hit.SegID)
		}
	}
}

func TestCastRayDoor(t *testing.T) {
	e := newDemoEngine()
	hit, ok := e.CastRay(geometry.Vec2{X: 64, Y: 128}, geometry.Vec2{X: 1}, 200)
	if !ok {
		t.Fatal("Expected the door to be in reach")
	}
	if hit.SegID != 3 || hit.T != 192 {
		t.Errorf("Expected segment 3 at t=192, got %+v", hit)
	}

	if _, ok := e.CastRay(geometry.Vec2{X: 64, Y: 128}, geometry.Vec2{X: 1}, 100); ok {
		t.Error("Expected no hit inside 100 units")
	}
}
