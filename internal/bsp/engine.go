// Package bsp walks the node tree of a level for rendering, point
// location, collision sweeps and ray casts.
package bsp

import (
	"fmt"

	"doomcore/internal/collision"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
)

// Engine answers tree queries against one level. The level's node,
// segment and sub-sector tables must not change while it is in use.
type Engine struct {
	level *geometry.Level
	clip  *fov.Clipper
}

// NewEngine creates an engine over a validated and resolved level.
func NewEngine(level *geometry.Level, clip *fov.Clipper) *Engine {
	return &Engine{level: level, clip: clip}
}

// Level returns the level the engine walks.
func (e *Engine) Level() *geometry.Level {
	return e.level
}

// Clipper returns the FOV clipper used by the render walk.
func (e *Engine) Clipper() *fov.Clipper {
	return e.clip
}

// IsOnBackSide reports whether p lies on the back side of the node's
// partition line. Points on the line count as back.
func (e *Engine) IsOnBackSide(node *geometry.Node, p geometry.Vec2) bool {
	dx := p.X - node.X
	dy := p.Y - node.Y
	return dx*node.DY-dy*node.DX <= 0
}

// children returns the child on p's side of the node first.
func (e *Engine) children(node *geometry.Node, p geometry.Vec2) (near, far int, farBox geometry.BBox) {
	if e.IsOnBackSide(node, p) {
		return node.BackChild, node.FrontChild, node.FrontBox
	}
	return node.FrontChild, node.BackChild, node.BackBox
}

func (e *Engine) node(id int) *geometry.Node {
	if id < 0 || id >= len(e.level.Nodes) {
		panic(fmt.Sprintf("bsp: node id %d outside %d nodes", id, len(e.level.Nodes)))
	}
	return &e.level.Nodes[id]
}

func (e *Engine) subSector(id int) int {
	idx := geometry.SubSectorIndex(id)
	if idx < 0 || idx >= len(e.level.SubSectors) {
		panic(fmt.Sprintf("bsp: sub-sector %d outside %d sub-sectors", idx, len(e.level.SubSectors)))
	}
	return idx
}

// WalkSubSectors visits the sub-sectors front to back from the viewer.
// Far subtrees whose bounding box is outside the field of view are
// skipped. fn returns false to stop the walk.
func (e *Engine) WalkSubSectors(view fov.View, fn func(subSector int) bool) {
	stack := make([]int, 0, 64)
	stack = append(stack, e.level.RootNode())
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if geometry.IsSubSector(id) {
			if !fn(e.subSector(id)) {
				return
			}
			continue
		}

		near, far, farBox := e.children(e.node(id), view.Pos)
		if e.BoundingBoxVisible(view, farBox) {
			stack = append(stack, far)
		}
		stack = append(stack, near)
	}
}

// RenderOrderedWalk hands every segment that survives FOV clipping to fn,
// in front to back order. fn returns false once nothing more can be drawn.
func (e *Engine) RenderOrderedWalk(view fov.View, fn func(segID int, span fov.Span) bool) {
	e.WalkSubSectors(view, func(ss int) bool {
		first, count := e.level.SubSectorSegments(ss)
		for id := first; id < first+count; id++ {
			seg := &e.level.Segments[id]
			span, ok := e.clip.ClassifyAgainstFOV(view, seg.V1, seg.V2)
			if !ok {
				continue
			}
			if !fn(id, span) {
				return false
			}
		}
		return true
	})
}

// BoundingBoxVisible tests the box edges that can face the viewer against
// the field of view. A viewer inside the box always sees it.
func (e *Engine) BoundingBoxVisible(view fov.View, box geometry.BBox) bool {
	a := geometry.Vec2{X: box.Left, Y: box.Bottom}
	b := geometry.Vec2{X: box.Left, Y: box.Top}
	c := geometry.Vec2{X: box.Right, Y: box.Top}
	d := geometry.Vec2{X: box.Right, Y: box.Bottom}

	var edges [2][2]geometry.Vec2
	n := 0
	add := func(v1, v2 geometry.Vec2) {
		edges[n] = [2]geometry.Vec2{v1, v2}
		n++
	}

	p := view.Pos
	switch {
	case p.X < box.Left:
		add(b, a)
	case p.X > box.Right:
		add(c, d)
	}
	switch {
	case p.Y > box.Top:
		add(c, b)
	case p.Y < box.Bottom:
		add(a, d)
	}
	if n == 0 {
		return box.Contains(p)
	}

	for _, edge := range edges[:n] {
		if e.clip.EdgeVisible(view, edge[0], edge[1]) {
			return true
		}
	}
	return false
}

// SubSectorAt returns the sub-sector containing p.
func (e *Engine) SubSectorAt(p geometry.Vec2) int {
	id := e.level.RootNode()
	for !geometry.IsSubSector(id) {
		node := e.node(id)
		if e.IsOnBackSide(node, p) {
			id = node.BackChild
		} else {
			id = node.FrontChild
		}
	}
	return e.subSector(id)
}

// SectorAt returns the sector of the sub-sector containing p.
func (e *Engine) SectorAt(p geometry.Vec2) int {
	ss := e.level.SubSectors[e.SubSectorAt(p)]
	return e.level.Segments[ss.FirstSeg].FrontSector
}

// LeafContaining returns the floor height under p.
func (e *Engine) LeafContaining(p geometry.Vec2) float64 {
	return e.level.Sectors[e.SectorAt(p)].FloorHeight
}

// CollectSegmentsNear returns every segment within radius of p. The whole
// tree is visited; the distance filter is exact.
func (e *Engine) CollectSegmentsNear(p geometry.Vec2, radius float64) []int {
	var found []int
	stack := []int{e.level.RootNode()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !geometry.IsSubSector(id) {
			node := e.node(id)
			stack = append(stack, node.BackChild, node.FrontChild)
			continue
		}

		first, count := e.level.SubSectorSegments(e.subSector(id))
		for segID := first; segID < first+count; segID++ {
			seg := &e.level.Segments[segID]
			if collision.CircleIntersectsSegment(p, seg.V1, seg.V2, radius) {
				found = append(found, segID)
			}
		}
	}
	return found
}
