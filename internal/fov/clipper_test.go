package fov

import (
	"math/rand"
	"testing"

	"doomcore/internal/geometry"
)

func near(got, want, slack int) bool {
	d := got - want
	return d >= -slack && d <= slack
}

func TestClipperConstants(t *testing.T) {
	c := NewClipper(320, 90)
	if c.HalfWidth != 160 {
		t.Errorf("HalfWidth = %v", c.HalfWidth)
	}
	if c.ScreenDist < 159.999 || c.ScreenDist > 160.001 {
		t.Errorf("ScreenDist = %v, want 160", c.ScreenDist)
	}
	if got := c.XToAngle(160); got != 0 {
		t.Errorf("center column angle = %v", got)
	}
	if got := c.XToAngle(0); got < 44.99 || got > 45.01 {
		t.Errorf("left column angle = %v", got)
	}
	if got := c.XToAngle(-10); got != c.XToAngle(0) {
		t.Error("XToAngle should clamp out of range columns")
	}
}

func TestAngleToX(t *testing.T) {
	c := NewClipper(320, 90)
	tests := []struct {
		angle float64
		want  int
	}{
		{45, 0},
		{0, 160},
		{-45, 320},
	}
	for _, tt := range tests {
		if got := c.AngleToX(tt.angle); !near(got, tt.want, 1) {
			t.Errorf("AngleToX(%v) = %d, want %d", tt.angle, got, tt.want)
		}
	}
}

func TestClassifyFrontWall(t *testing.T) {
	c := NewClipper(320, 90)
	view := View{Pos: geometry.Vec2{}, Angle: 0}

	// Left endpoint first so the wall faces the viewer.
	span, ok := c.ClassifyAgainstFOV(view, geometry.Vec2{X: 100, Y: 50}, geometry.Vec2{X: 100, Y: -50})
	if !ok {
		t.Fatal("wall in front should be visible")
	}
	if !(span.X1 < 160 && span.X2 > 160) {
		t.Errorf("span %+v should straddle the center column", span)
	}
	if span.Angle1 <= 0 || span.Angle1 >= 45 {
		t.Errorf("Angle1 = %v", span.Angle1)
	}

	if _, ok := c.ClassifyAgainstFOV(view, geometry.Vec2{X: 100, Y: -50}, geometry.Vec2{X: 100, Y: 50}); ok {
		t.Error("back face should be culled")
	}
}

func TestClassifyClipsToScreenEdges(t *testing.T) {
	c := NewClipper(320, 90)
	view := View{Angle: 0}

	span, ok := c.ClassifyAgainstFOV(view, geometry.Vec2{X: 10, Y: 500}, geometry.Vec2{X: 10, Y: -500})
	if !ok {
		t.Fatal("wide wall should be visible")
	}
	if !near(span.X1, 0, 1) || !near(span.X2, 320, 1) {
		t.Errorf("wide wall span = %+v, want full screen", span)
	}
	if span.Angle1 < 88 || span.Angle1 > 90 {
		t.Errorf("Angle1 should stay unclipped, got %v", span.Angle1)
	}
}

func TestClassifyRejectsOutsideFOV(t *testing.T) {
	c := NewClipper(320, 90)
	tests := []struct {
		name string
		view View
		a, b geometry.Vec2
	}{
		{"behind", View{Angle: 180}, geometry.Vec2{X: 100, Y: 50}, geometry.Vec2{X: 100, Y: -50}},
		{"left of view", View{Angle: 0}, geometry.Vec2{X: 10, Y: 100}, geometry.Vec2{X: 50, Y: 100}},
		{"right of view", View{Angle: 0}, geometry.Vec2{X: 50, Y: -100}, geometry.Vec2{X: 10, Y: -100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if span, ok := c.ClassifyAgainstFOV(tt.view, tt.a, tt.b); ok {
				t.Errorf("expected rejection, got %+v", span)
			}
		})
	}
}

func TestClassifyWraparound(t *testing.T) {
	c := NewClipper(320, 90)
	rng := rand.New(rand.NewSource(7))
	angles := []float64{0, 45, 90.5, 137.25, 180, 300, 359.5}

	for i := 0; i < 500; i++ {
		a := geometry.Vec2{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		b := geometry.Vec2{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200}
		for _, theta := range angles {
			base, baseOK := c.ClassifyAgainstFOV(View{Angle: theta}, a, b)
			for _, turn := range []float64{360, -360, 720} {
				got, ok := c.ClassifyAgainstFOV(View{Angle: theta + turn}, a, b)
				if ok != baseOK || got != base {
					t.Fatalf("angle %v and %v disagree: %+v/%v vs %+v/%v",
						theta, theta+turn, base, baseOK, got, ok)
				}
			}
		}
	}
}

func TestEdgeVisibleIgnoresFacing(t *testing.T) {
	c := NewClipper(320, 90)
	view := View{Angle: 90}
	a, b := geometry.Vec2{X: -50, Y: 100}, geometry.Vec2{X: 50, Y: 100}
	if !c.EdgeVisible(view, a, b) || !c.EdgeVisible(view, b, a) {
		t.Error("edge ahead should be visible in both directions")
	}
	if c.EdgeVisible(View{Angle: 270}, a, b) {
		t.Error("edge behind should not be visible")
	}
}
