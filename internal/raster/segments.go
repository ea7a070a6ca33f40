package raster

import (
	"image"
	"math"

	"doomcore/internal/assets"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
	"doomcore/internal/mathutil"
	"doomcore/internal/threading/rendering"
)

// Wall scale limits.
const (
	minScale    = 1.0 / 256
	maxScale    = 64
	minDistance = 0.01
)

// Shade cache image classes.
const (
	shadeWall = iota
	shadeFlat
)

// Camera is the viewer the frame is drawn for.
type Camera struct {
	Pos    geometry.Vec2
	Angle  float64 // degrees
	Height float64 // eye z
}

// View drops the eye height.
func (c Camera) View() fov.View {
	return fov.View{Pos: c.Pos, Angle: c.Angle}
}

func (c Camera) dir() geometry.Vec2 {
	rad := mathutil.DegToRad(c.Angle)
	return geometry.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

type texRef struct {
	img   *image.RGBA
	light int
}

func (t texRef) height() float64 {
	if t.img == nil {
		return 0
	}
	return float64(t.img.Rect.Dy())
}

// wall holds the per-segment values shared by every column it covers.
type wall struct {
	normal      float64
	distance    float64
	offset      float64
	centerAngle float64

	front   *geometry.Sector
	frontZ1 float64 // ceiling relative to the eye
	frontZ2 float64 // floor relative to the eye

	drawCeil  bool
	drawFloor bool

	drawMid bool
	mid     texRef
	midAlt  float64

	drawUpper bool
	upper     texRef
	upperAlt  float64
	upperLow  float64 // lowest z of the upper wall

	drawLower bool
	lower     texRef
	lowerAlt  float64
	lowerHigh float64 // highest z of the lower wall
}

// SegmentRenderer draws the segments of one frame front to back. It
// tracks which columns are fully covered and how far ceilings and floors
// have closed in on each column.
type SegmentRenderer struct {
	level  *geometry.Level
	clip   *fov.Clipper
	lib    assets.Library
	shades *rendering.ShadeCache

	frame      *Frame
	cam        Camera
	proj       Projection
	halfHeight float64

	upperClip []int
	lowerClip []int
	occluded  []bool
	open      int
	drawn     int

	missing map[string]bool
}

// NewSegmentRenderer creates a renderer. shades may be nil, in which case
// light is applied per pixel.
func NewSegmentRenderer(level *geometry.Level, clip *fov.Clipper, lib assets.Library, shades *rendering.ShadeCache) *SegmentRenderer {
	return &SegmentRenderer{
		level:     level,
		clip:      clip,
		lib:       lib,
		shades:    shades,
		upperClip: make([]int, clip.Width),
		lowerClip: make([]int, clip.Width),
		occluded:  make([]bool, clip.Width),
		missing:   make(map[string]bool),
	}
}

// Begin starts a frame. The frame must be as wide as the clipper.
func (sr *SegmentRenderer) Begin(f *Frame, cam Camera) {
	sr.frame = f
	sr.cam = cam
	sr.halfHeight = f.halfHeight()
	sr.proj = Projection{
		Pos:        cam.Pos,
		Dir:        cam.dir(),
		ScreenDist: sr.clip.ScreenDist,
		HalfWidth:  sr.clip.HalfWidth,
	}
	for x := range sr.occluded {
		sr.upperClip[x] = -1
		sr.lowerClip[x] = f.Height
		sr.occluded[x] = false
	}
	sr.open = len(sr.occluded)
	sr.drawn = 0
}

// OpenColumns returns the number of columns not yet covered by a solid
// wall.
func (sr *SegmentRenderer) OpenColumns() int {
	return sr.open
}

// Drawn returns the number of segments that reached the screen.
func (sr *SegmentRenderer) Drawn() int {
	return sr.drawn
}

// Draw renders one segment visible over span. It returns false once
// every column is covered and the walk can stop.
func (sr *SegmentRenderer) Draw(segID int, span fov.Span) bool {
	x1, x2 := max(span.X1, 0), min(span.X2, sr.clip.Width)
	if x1 >= x2 {
		return sr.open > 0
	}
	seg := &sr.level.Segments[segID]
	front := sr.level.FrontSector(seg)
	back := sr.level.BackSector(seg)

	switch {
	case back == nil:
		sr.solid(seg, span, x1, x2)
	case back.CeilHeight <= front.FloorHeight || back.FloorHeight >= front.CeilHeight:
		// closed door
		sr.solid(seg, span, x1, x2)
	case back.CeilHeight != front.CeilHeight || back.FloorHeight != front.FloorHeight:
		sr.portal(seg, span, x1, x2)
	case back.CeilTexture == front.CeilTexture && back.FloorTexture == front.FloorTexture &&
		back.LightLevel == front.LightLevel && sr.level.SideOf(seg).MiddleTexture == geometry.NoTexture:
		// invisible trigger line
	default:
		sr.portal(seg, span, x1, x2)
	}
	return sr.open > 0
}

// runs calls fn for each maximal run of open columns in [x1, x2). The
// run end passed to fn is inclusive.
func (sr *SegmentRenderer) runs(x1, x2 int, fn func(a, b int)) bool {
	found := false
	x := x1
	for x < x2 {
		for x < x2 && sr.occluded[x] {
			x++
		}
		start := x
		for x < x2 && !sr.occluded[x] {
			x++
		}
		if start < x {
			fn(start, x-1)
			found = true
		}
	}
	return found
}

func (sr *SegmentRenderer) solid(seg *geometry.Segment, span fov.Span, x1, x2 int) {
	var w *wall
	drew := sr.runs(x1, x2, func(a, b int) {
		if w == nil {
			w = sr.solidWall(seg, span)
		}
		sr.drawSolidRange(w, a, b)
		for x := a; x <= b; x++ {
			sr.occluded[x] = true
		}
		sr.open -= b - a + 1
	})
	if drew {
		sr.drawn++
	}
}

func (sr *SegmentRenderer) portal(seg *geometry.Segment, span fov.Span, x1, x2 int) {
	var (
		w     *wall
		ready bool
	)
	drew := sr.runs(x1, x2, func(a, b int) {
		if !ready {
			w, ready = sr.portalWall(seg, span), true
		}
		if w != nil {
			sr.drawPortalRange(w, a, b)
		}
	})
	if drew && w != nil {
		sr.drawn++
	}
}

// project fills the values that place a segment on screen.
func (sr *SegmentRenderer) project(w *wall, seg *geometry.Segment, span fov.Span) {
	side := sr.level.SideOf(seg)
	w.normal = seg.Angle + 90
	offsetAngle := mathutil.DegToRad(w.normal - span.Angle1)
	hyp := sr.cam.Pos.Dist(seg.V1)
	w.distance = max(hyp*math.Cos(offsetAngle), minDistance)
	w.offset = seg.Offset + side.XOffset - hyp*math.Sin(offsetAngle)
	w.centerAngle = w.normal - sr.cam.Angle

	w.front = sr.level.FrontSector(seg)
	w.frontZ1 = w.front.CeilHeight - sr.cam.Height
	w.frontZ2 = w.front.FloorHeight - sr.cam.Height
}

func (w *wall) scale(c *fov.Clipper, camAngle float64, x int) float64 {
	xAngle := c.XToAngle(x)
	num := c.ScreenDist * math.Cos(mathutil.DegToRad(w.normal-xAngle-camAngle))
	den := w.distance * math.Cos(mathutil.DegToRad(xAngle))
	return mathutil.Clamp(num/den, minScale, maxScale)
}

func (w *wall) texColumn(c *fov.Clipper, x int) float64 {
	return w.offset + w.distance*math.Tan(mathutil.DegToRad(w.centerAngle-c.XToAngle(x)))
}

func (sr *SegmentRenderer) solidWall(seg *geometry.Segment, span fov.Span) *wall {
	w := &wall{}
	sr.project(w, seg, span)
	side := sr.level.SideOf(seg)
	line := sr.level.LinedefOf(seg)
	back := sr.level.BackSector(seg)

	w.drawCeil = w.frontZ1 > 0 || sr.lib.IsSky(w.front.CeilTexture)
	w.drawFloor = w.frontZ2 < 0

	name := side.MiddleTexture
	if name == geometry.NoTexture && back != nil {
		// A closed door shows its upper texture across the whole opening.
		name = side.UpperTexture
		w.mid = sr.texture(shadeWall, name, w.front.LightLevel)
		if line.Flags&geometry.FlagDontPegTop != 0 {
			w.midAlt = w.frontZ1
		} else {
			w.midAlt = back.CeilHeight + w.mid.height() - sr.cam.Height
		}
	} else {
		w.mid = sr.texture(shadeWall, name, w.front.LightLevel)
		if line.Flags&geometry.FlagDontPegBottom != 0 {
			w.midAlt = w.front.FloorHeight + w.mid.height() - sr.cam.Height
		} else {
			w.midAlt = w.frontZ1
		}
	}
	w.drawMid = name != geometry.NoTexture
	w.midAlt += side.YOffset
	return w
}

// portalWall returns nil when nothing of a two-sided segment needs drawing.
func (sr *SegmentRenderer) portalWall(seg *geometry.Segment, span fov.Span) *wall {
	w := &wall{}
	sr.project(w, seg, span)
	side := sr.level.SideOf(seg)
	line := sr.level.LinedefOf(seg)
	front, back := w.front, sr.level.BackSector(seg)

	backZ1 := back.CeilHeight - sr.cam.Height
	backZ2 := back.FloorHeight - sr.cam.Height
	frontSky := sr.lib.IsSky(front.CeilTexture)
	if frontSky && sr.lib.IsSky(back.CeilTexture) {
		w.frontZ1 = backZ1
	}

	if w.frontZ1 != backZ1 || front.LightLevel != back.LightLevel || front.CeilTexture != back.CeilTexture {
		w.drawUpper = side.UpperTexture != geometry.NoTexture && backZ1 < w.frontZ1
		w.drawCeil = w.frontZ1 > 0 || frontSky
	}
	if w.frontZ2 != backZ2 || front.FloorTexture != back.FloorTexture || front.LightLevel != back.LightLevel {
		w.drawLower = side.LowerTexture != geometry.NoTexture && backZ2 > w.frontZ2
		w.drawFloor = w.frontZ2 < 0
	}
	if !w.drawUpper && !w.drawCeil && !w.drawLower && !w.drawFloor {
		return nil
	}

	if w.drawUpper {
		w.upper = sr.texture(shadeWall, side.UpperTexture, front.LightLevel)
		if line.Flags&geometry.FlagDontPegTop != 0 {
			w.upperAlt = w.frontZ1
		} else {
			w.upperAlt = back.CeilHeight + w.upper.height() - sr.cam.Height
		}
		w.upperAlt += side.YOffset
		w.upperLow = w.frontZ2
		if backZ1 > w.frontZ2 {
			w.upperLow = backZ1
		}
	}
	if w.drawLower {
		w.lower = sr.texture(shadeWall, side.LowerTexture, front.LightLevel)
		if line.Flags&geometry.FlagDontPegBottom != 0 {
			w.lowerAlt = w.frontZ1
		} else {
			w.lowerAlt = backZ2
		}
		w.lowerAlt += side.YOffset
		w.lowerHigh = w.frontZ1
		if backZ2 < w.frontZ1 {
			w.lowerHigh = backZ2
		}
	}
	return w
}

func (sr *SegmentRenderer) drawSolidRange(w *wall, x1, x2 int) {
	for x := x1; x <= x2; x++ {
		scale := w.scale(sr.clip, sr.cam.Angle, x)
		wallY1 := sr.halfHeight - w.frontZ1*scale - 1
		wallY2 := sr.halfHeight - w.frontZ2*scale
		upper, lower := float64(sr.upperClip[x]), float64(sr.lowerClip[x])

		if w.drawCeil {
			sr.drawCeiling(w, x, sr.upperClip[x]+1, int(math.Min(wallY1-1, lower-1)))
		}
		if w.drawMid {
			y1 := int(math.Max(wallY1, upper+1))
			y2 := int(math.Min(wallY2, lower-1))
			DrawWallColumn(sr.frame, w.mid.img, w.texColumn(sr.clip, x), x, y1, y2,
				w.midAlt, 1/scale, w.mid.light, sr.clip.ScreenDist/scale)
		}
		if w.drawFloor {
			sr.drawFloor(w, x, int(math.Max(wallY2+1, upper+1)), sr.lowerClip[x]-1)
		}
	}
}

func (sr *SegmentRenderer) drawPortalRange(w *wall, x1, x2 int) {
	for x := x1; x <= x2; x++ {
		scale := w.scale(sr.clip, sr.cam.Angle, x)
		depth := sr.clip.ScreenDist / scale
		wallY1 := sr.halfHeight - w.frontZ1*scale - 1
		wallY2 := sr.halfHeight - w.frontZ2*scale
		lower := float64(sr.lowerClip[x])

		switch {
		case w.drawUpper:
			if w.drawCeil {
				sr.drawCeiling(w, x, sr.upperClip[x]+1, int(math.Min(wallY1-1, lower-1)))
			}
			portalY1 := sr.halfHeight - w.upperLow*scale
			y1 := int(math.Max(wallY1, float64(sr.upperClip[x]+1)))
			y2 := int(math.Min(portalY1, lower-1))
			DrawWallColumn(sr.frame, w.upper.img, w.texColumn(sr.clip, x), x, y1, y2,
				w.upperAlt, 1/scale, w.upper.light, depth)
			sr.upperClip[x] = max(sr.upperClip[x], y2)
		case w.drawCeil:
			cy2 := int(math.Min(wallY1-1, lower-1))
			sr.drawCeiling(w, x, sr.upperClip[x]+1, cy2)
			sr.upperClip[x] = max(sr.upperClip[x], cy2)
		}

		upper := float64(sr.upperClip[x])
		switch {
		case w.drawLower:
			if w.drawFloor {
				sr.drawFloor(w, x, int(math.Max(wallY2+1, upper+1)), sr.lowerClip[x]-1)
			}
			portalY2 := sr.halfHeight - w.lowerHigh*scale - 1
			y1 := int(math.Max(portalY2, upper+1))
			y2 := int(math.Min(wallY2, lower-1))
			DrawWallColumn(sr.frame, w.lower.img, w.texColumn(sr.clip, x), x, y1, y2,
				w.lowerAlt, 1/scale, w.lower.light, depth)
			sr.lowerClip[x] = min(sr.lowerClip[x], y1)
		case w.drawFloor:
			fy1 := int(math.Max(wallY2+1, upper+1))
			sr.drawFloor(w, x, fy1, sr.lowerClip[x]-1)
			if lower > wallY2+1 {
				sr.lowerClip[x] = min(sr.lowerClip[x], fy1)
			}
		}
	}
}

func (sr *SegmentRenderer) drawCeiling(w *wall, x, y1, y2 int) {
	if y1 > y2 {
		return
	}
	if sr.lib.IsSky(w.front.CeilTexture) {
		DrawSkyColumn(sr.frame, sr.lib.SkyTexture(), x, y1, y2, sr.cam.Angle+sr.clip.XToAngle(x))
		return
	}
	flat := sr.texture(shadeFlat, w.front.CeilTexture, w.front.LightLevel)
	DrawFlatColumn(sr.frame, flat.img, x, y1, y2, flat.light, w.frontZ1, sr.proj)
}

func (sr *SegmentRenderer) drawFloor(w *wall, x, y1, y2 int) {
	if y1 > y2 {
		return
	}
	flat := sr.texture(shadeFlat, w.front.FloorTexture, w.front.LightLevel)
	DrawFlatColumn(sr.frame, flat.img, x, y1, y2, flat.light, w.frontZ2, sr.proj)
}

// texture looks up an image and, with a shade cache, its pre-lit copy.
// Missing images are reported once and draw nothing.
func (sr *SegmentRenderer) texture(kind int, name string, light int) texRef {
	if name == geometry.NoTexture {
		return texRef{}
	}
	var (
		src *image.RGBA
		err error
	)
	if kind == shadeFlat {
		src, err = sr.lib.Flat(name)
	} else {
		src, err = sr.lib.Texture(name)
	}
	if err != nil {
		if !sr.missing[name] {
			sr.missing[name] = true
			logger.Printf("Warning: %v", err)
		}
		return texRef{}
	}
	if sr.shades == nil {
		return texRef{img: src, light: light}
	}
	lit := sr.shades.GetOrCreate(rendering.ShadeKey{Kind: kind, Name: name, Light: light}, func(l int) *image.RGBA {
		return rendering.Shade(src, l)
	})
	return texRef{img: lit, light: 255}
}
