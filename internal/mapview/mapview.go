// Package mapview draws a level from above: segments coloured by kind,
// the partition lines of the BSP tree, things and the viewer.
package mapview

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"doomcore/internal/geometry"
	"doomcore/internal/mathutil"
)

var (
	ColourSolid     = color.RGBA{200, 200, 200, 255}
	ColourPortal    = color.RGBA{110, 110, 130, 255}
	ColourDoor      = color.RGBA{230, 150, 40, 255}
	ColourTrigger   = color.RGBA{60, 60, 75, 255}
	ColourLeaf      = color.RGBA{80, 220, 120, 255}
	ColourPartition = color.RGBA{90, 60, 160, 255}
	ColourThing     = color.RGBA{230, 80, 80, 255}
	ColourViewer    = color.RGBA{50, 200, 255, 255}
)

// Bounds returns the box around every vertex of the level.
func Bounds(level *geometry.Level) geometry.BBox {
	if len(level.Vertices) == 0 {
		return geometry.BBox{}
	}
	b := geometry.BBox{
		Top: math.Inf(-1), Bottom: math.Inf(1),
		Left: math.Inf(1), Right: math.Inf(-1),
	}
	for _, v := range level.Vertices {
		b.Top = max(b.Top, v.Y)
		b.Bottom = min(b.Bottom, v.Y)
		b.Left = min(b.Left, v.X)
		b.Right = max(b.Right, v.X)
	}
	return b
}

// Transform maps world coordinates into a screen rectangle, keeping the
// aspect ratio and flipping y so that north is up.
type Transform struct {
	Scale     float64
	OriginX   float64 // screen x of world Left
	OriginY   float64 // screen y of world Top
	Left, Top float64
}

// Fit centres box inside the rectangle (x, y, w, h) less padding.
func Fit(box geometry.BBox, x, y, w, h, padding int) Transform {
	innerW := float64(w - 2*padding)
	innerH := float64(h - 2*padding)
	worldW := max(box.Right-box.Left, 1)
	worldH := max(box.Top-box.Bottom, 1)

	scale := min(innerW/worldW, innerH/worldH)
	return Transform{
		Scale:   scale,
		OriginX: float64(x+padding) + (innerW-worldW*scale)/2,
		OriginY: float64(y+padding) + (innerH-worldH*scale)/2,
		Left:    box.Left,
		Top:     box.Top,
	}
}

// ToScreen converts a world point.
func (t Transform) ToScreen(p geometry.Vec2) (float32, float32) {
	return float32(t.OriginX + (p.X-t.Left)*t.Scale), float32(t.OriginY + (t.Top-p.Y)*t.Scale)
}

// ToWorld converts a screen point.
func (t Transform) ToWorld(sx, sy float64) geometry.Vec2 {
	return geometry.Vec2{X: t.Left + (sx-t.OriginX)/t.Scale, Y: t.Top - (sy-t.OriginY)/t.Scale}
}

// SegmentColour picks the line colour of a segment.
func SegmentColour(level *geometry.Level, seg *geometry.Segment) color.RGBA {
	switch {
	case seg.Solid():
		return ColourSolid
	case level.LinedefOf(seg).IsDoor():
		return ColourDoor
	case seg.FrontSector == seg.BackSector:
		return ColourTrigger
	default:
		return ColourPortal
	}
}

// Viewer is the marker drawn for the player.
type Viewer struct {
	Pos   geometry.Vec2
	Angle float64 // degrees
}

// Options selects optional layers.
type Options struct {
	Partitions bool
	Things     bool
	Leaf       int // sub-sector to highlight, or -1
	Viewer     *Viewer
}

// Draw renders the level onto screen with t.
func Draw(screen *ebiten.Image, level *geometry.Level, t Transform, opts Options) {
	if opts.Partitions {
		for i := range level.Nodes {
			drawPartition(screen, &level.Nodes[i], t)
		}
	}

	for i := range level.Segments {
		seg := &level.Segments[i]
		strokeSegment(screen, seg, t, SegmentColour(level, seg), 1)
	}

	if opts.Leaf >= 0 && opts.Leaf < len(level.SubSectors) {
		first, count := level.SubSectorSegments(opts.Leaf)
		for i := first; i < first+count; i++ {
			strokeSegment(screen, &level.Segments[i], t, ColourLeaf, 2)
		}
	}

	if opts.Things {
		for _, th := range level.Things {
			if th.Type == geometry.ThingPlayerStart {
				continue
			}
			x, y := t.ToScreen(th.Pos)
			r := float32(max(th.Radius*t.Scale, 2))
			vector.StrokeCircle(screen, x, y, r, 1, ColourThing, true)
		}
	}

	if v := opts.Viewer; v != nil {
		x, y := t.ToScreen(v.Pos)
		vector.DrawFilledCircle(screen, x, y, 3, ColourViewer, true)
		rad := mathutil.DegToRad(v.Angle)
		tip := v.Pos.Add(geometry.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}.Scale(12 / t.Scale))
		tx, ty := t.ToScreen(tip)
		vector.StrokeLine(screen, x, y, tx, ty, 1, ColourViewer, true)
	}
}

func strokeSegment(screen *ebiten.Image, seg *geometry.Segment, t Transform, clr color.RGBA, width float32) {
	x1, y1 := t.ToScreen(seg.V1)
	x2, y2 := t.ToScreen(seg.V2)
	vector.StrokeLine(screen, x1, y1, x2, y2, width, clr, true)
}

// drawPartition draws a node's partition line clipped to the union of its
// child boxes.
func drawPartition(screen *ebiten.Image, node *geometry.Node, t Transform) {
	box := node.FrontBox
	box.Top = max(box.Top, node.BackBox.Top)
	box.Bottom = min(box.Bottom, node.BackBox.Bottom)
	box.Left = min(box.Left, node.BackBox.Left)
	box.Right = max(box.Right, node.BackBox.Right)

	a, b, ok := ClipPartition(node, box)
	if !ok {
		return
	}
	x1, y1 := t.ToScreen(a)
	x2, y2 := t.ToScreen(b)
	vector.StrokeLine(screen, x1, y1, x2, y2, 1, ColourPartition, true)
}

// ClipPartition returns the part of a node's infinite partition line that
// lies inside box.
func ClipPartition(node *geometry.Node, box geometry.BBox) (geometry.Vec2, geometry.Vec2, bool) {
	origin := geometry.Vec2{X: node.X, Y: node.Y}
	dir := geometry.Vec2{X: node.DX, Y: node.DY}

	tMin, tMax := math.Inf(-1), math.Inf(1)
	clip := func(p, d, lo, hi float64) bool {
		if d == 0 {
			return p >= lo && p <= hi
		}
		t1, t2 := (lo-p)/d, (hi-p)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin, tMax = max(tMin, t1), min(tMax, t2)
		return tMin <= tMax
	}
	if !clip(origin.X, dir.X, box.Left, box.Right) || !clip(origin.Y, dir.Y, box.Bottom, box.Top) {
		return geometry.Vec2{}, geometry.Vec2{}, false
	}
	return origin.Add(dir.Scale(tMin)), origin.Add(dir.Scale(tMax)), true
}
