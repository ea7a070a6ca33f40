// Package fov clips world-space wall segments against the player's field
// of view and projects them onto screen columns.
package fov

import (
	"math"

	"doomcore/internal/geometry"
	"doomcore/internal/mathutil"
)

// View is the viewer state the clipper works against.
type View struct {
	Pos   geometry.Vec2
	Angle float64 // degrees, any range
}

// Span is the screen range of a visible segment. X2 is exclusive.
type Span struct {
	X1, X2 int
	// Angle1 is the unclipped world angle from the viewer to the first
	// endpoint. Wall texturing and sky alignment start from it.
	Angle1 float64
}

// Clipper holds the projection constants for one screen width and FOV.
type Clipper struct {
	Width      int
	FOV        float64
	HalfFOV    float64
	HalfWidth  float64
	ScreenDist float64

	xToAngle []float64
}

// NewClipper creates a clipper for a screen width in pixels and a
// horizontal field of view in degrees.
func NewClipper(width int, fovDeg float64) *Clipper {
	c := &Clipper{
		Width:     width,
		FOV:       fovDeg,
		HalfFOV:   fovDeg / 2,
		HalfWidth: float64(width) / 2,
	}
	c.ScreenDist = c.HalfWidth / math.Tan(mathutil.DegToRad(c.HalfFOV))
	c.xToAngle = make([]float64, width+1)
	for x := range c.xToAngle {
		c.xToAngle[x] = mathutil.RadToDeg(math.Atan((c.HalfWidth - float64(x)) / c.ScreenDist))
	}
	return c
}

// XToAngle returns the view-relative angle of screen column x. Positive
// angles are left of center.
func (c *Clipper) XToAngle(x int) float64 {
	return c.xToAngle[mathutil.Clamp(x, 0, c.Width)]
}

// AngleToX projects a view-relative angle onto the nearest column
// boundary, so ±HalfFOV map to exactly 0 and Width.
func (c *Clipper) AngleToX(angle float64) int {
	return int(math.Round(c.HalfWidth - math.Tan(mathutil.DegToRad(angle))*c.ScreenDist))
}

// PointToAngle returns the world angle in degrees from the viewer to p.
func PointToAngle(view View, p geometry.Vec2) float64 {
	d := p.Sub(view.Pos)
	return mathutil.RadToDeg(math.Atan2(d.Y, d.X))
}

// ClassifyAgainstFOV culls back faces and clips the segment a→b to the
// field of view. It returns false when nothing of the segment is visible.
func (c *Clipper) ClassifyAgainstFOV(view View, a, b geometry.Vec2) (Span, bool) {
	angle1 := PointToAngle(view, a)
	angle2 := PointToAngle(view, b)

	span := mathutil.NormDeg(angle1 - angle2)
	if span >= 180 {
		return Span{}, false
	}
	raw := angle1

	rel1, rel2, ok := c.clip(view, angle1, angle2, span)
	if !ok {
		return Span{}, false
	}
	return Span{X1: c.AngleToX(rel1), X2: c.AngleToX(rel2), Angle1: raw}, true
}

// EdgeVisible reports whether any part of a→b falls inside the field of
// view. Unlike ClassifyAgainstFOV it does not cull back faces: the edge is
// turned around to face the viewer first.
func (c *Clipper) EdgeVisible(view View, a, b geometry.Vec2) bool {
	angle1 := PointToAngle(view, a)
	angle2 := PointToAngle(view, b)
	span := mathutil.NormDeg(angle1 - angle2)
	if span > 180 {
		angle1, angle2 = angle2, angle1
		span = 360 - span
	}
	_, _, ok := c.clip(view, angle1, angle2, span)
	return ok
}

// clip turns world angles into view-relative angles limited to
// [-HalfFOV, HalfFOV].
func (c *Clipper) clip(view View, angle1, angle2, span float64) (float64, float64, bool) {
	facing := mathutil.NormDeg(view.Angle)
	angle1 -= facing
	angle2 -= facing

	span1 := mathutil.NormDeg(angle1 + c.HalfFOV)
	if span1 > c.FOV {
		if span1 >= span+c.FOV {
			return 0, 0, false
		}
		angle1 = c.HalfFOV
	} else {
		angle1 = span1 - c.HalfFOV
	}

	span2 := mathutil.NormDeg(c.HalfFOV - angle2)
	if span2 > c.FOV {
		if span2 >= span+c.FOV {
			return 0, 0, false
		}
		angle2 = -c.HalfFOV
	} else {
		angle2 = c.HalfFOV - span2
	}
	return angle1, angle2, true
}
