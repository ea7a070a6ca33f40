package raster

import (
	"image"
	"image/color"
	"math"
	"testing"

	"doomcore/internal/assets"
	"doomcore/internal/geometry"
)

func pixel(f *Frame, x, y int) color.RGBA {
	i := (y*f.Width + x) * 4
	return color.RGBA{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

// stripes returns a 1×n image with one colour per row.
func stripes(colours ...color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, len(colours)))
	for y, c := range colours {
		img.SetRGBA(0, y, c)
	}
	return img
}

var (
	red   = color.RGBA{200, 0, 0, 255}
	green = color.RGBA{0, 200, 0, 255}
	blue  = color.RGBA{0, 0, 200, 255}
	white = color.RGBA{250, 250, 250, 255}
)

func TestFrameReset(t *testing.T) {
	f := NewFrame(4, 3)
	f.Pix[0] = 99
	f.Depth[5] = 1

	f.Reset()

	for i, d := range f.Depth {
		if !math.IsInf(d, 1) {
			t.Fatalf("Expected depth %d to be +Inf, got %v", i, d)
		}
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if got := pixel(f, x, y); got != (color.RGBA{0, 0, 0, 255}) {
				t.Fatalf("Expected opaque black at %d,%d, got %v", x, y, got)
			}
		}
	}
}

func TestDrawWallColumn(t *testing.T) {
	tex := stripes(red, green, blue, white)

	t.Run("maps rows from the horizon", func(t *testing.T) {
		f := NewFrame(2, 8)
		DrawWallColumn(f, tex, 0, 1, 4, 7, 0, 1, 255, 10)

		want := []color.RGBA{red, green, blue, white}
		for i, c := range want {
			if got := pixel(f, 1, 4+i); got != c {
				t.Errorf("Expected row %d to be %v, got %v", 4+i, c, got)
			}
			if f.DepthAt(1, 4+i) != 10 {
				t.Errorf("Expected depth 10 at row %d, got %v", 4+i, f.DepthAt(1, 4+i))
			}
		}
		if !math.IsInf(f.DepthAt(1, 3), 1) || !math.IsInf(f.DepthAt(0, 4), 1) {
			t.Error("Expected pixels outside the column range to stay empty")
		}
	})

	t.Run("clamps to the frame and wraps the texture", func(t *testing.T) {
		f := NewFrame(2, 8)
		DrawWallColumn(f, tex, -3, 0, -5, 100, 0, 1, 255, 4)
		for y := 0; y < 8; y++ {
			if f.DepthAt(0, y) != 4 {
				t.Fatalf("Expected every row drawn, row %d has depth %v", y, f.DepthAt(0, y))
			}
		}
		// row 0 samples texture row -4, which wraps to 0
		if got := pixel(f, 0, 0); got != red {
			t.Errorf("Expected wrapped row to be red, got %v", got)
		}
	})

	t.Run("applies light", func(t *testing.T) {
		f := NewFrame(1, 8)
		DrawWallColumn(f, tex, 0, 0, 4, 4, 0, 1, 128, 1)
		if got := pixel(f, 0, 4); got != (color.RGBA{100, 0, 0, 255}) {
			t.Errorf("Expected half lit red, got %v", got)
		}
	})

	t.Run("ignores bad input", func(t *testing.T) {
		f := NewFrame(1, 8)
		DrawWallColumn(f, nil, 0, 0, 0, 7, 0, 1, 255, 1)
		DrawWallColumn(f, tex, 0, 5, 0, 7, 0, 1, 255, 1)
		DrawWallColumn(f, tex, 0, 0, 6, 2, 0, 1, 255, 1)
		for i, d := range f.Depth {
			if !math.IsInf(d, 1) {
				t.Errorf("Expected pixel %d untouched", i)
			}
		}
	})
}

func gradientFlat() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, assets.FlatSize, assets.FlatSize))
	for y := 0; y < assets.FlatSize; y++ {
		for x := 0; x < assets.FlatSize; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	return img
}

func TestDrawFlatColumn(t *testing.T) {
	flat := gradientFlat()
	proj := Projection{Dir: geometry.Vec2{X: 1}, ScreenDist: 2, HalfWidth: 2}

	f := NewFrame(4, 10)
	DrawFlatColumn(f, flat, 2, 5, 9, 255, -3, proj)

	tests := []struct {
		y     int
		depth float64
		want  color.RGBA
	}{
		{6, 6, color.RGBA{6, 0, 0, 255}},
		{7, 3, color.RGBA{3, 0, 0, 255}},
		{9, 1.5, color.RGBA{1, 0, 0, 255}},
	}
	for _, tt := range tests {
		if got := f.DepthAt(2, tt.y); got != tt.depth {
			t.Errorf("Expected depth %v at row %d, got %v", tt.depth, tt.y, got)
		}
		if got := pixel(f, 2, tt.y); got != tt.want {
			t.Errorf("Expected %v at row %d, got %v", tt.want, tt.y, got)
		}
	}
	if !math.IsInf(f.DepthAt(2, 5), 1) {
		t.Error("Expected the horizon row to be skipped")
	}

	// Column 0 looks 45° left: the floor point moves along +Y as well.
	DrawFlatColumn(f, flat, 0, 6, 6, 255, -3, proj)
	if got := pixel(f, 0, 6); got != (color.RGBA{6, 6, 0, 255}) {
		t.Errorf("Expected texel (6,6), got %v", got)
	}

	// A ceiling above the eye is drawn above the horizon only.
	DrawFlatColumn(f, flat, 1, 0, 9, 255, 3, proj)
	if got := f.DepthAt(1, 4); got != 6 {
		t.Errorf("Expected ceiling depth 6 at row 4, got %v", got)
	}
	if !math.IsInf(f.DepthAt(1, 7), 1) {
		t.Error("Expected no ceiling below the horizon")
	}
}

func TestDrawSkyColumn(t *testing.T) {
	f := NewFrame(2, 8)
	sky := stripes(blue, blue)
	DrawWallColumn(f, stripes(red), 0, 0, 0, 7, 0, 1, 255, 5)

	DrawSkyColumn(f, sky, 0, 0, 3, 90)

	for y := 0; y < 4; y++ {
		if !math.IsInf(f.DepthAt(0, y), 1) {
			t.Errorf("Expected sky depth +Inf at row %d, got %v", y, f.DepthAt(0, y))
		}
		if got := pixel(f, 0, y); got != blue {
			t.Errorf("Expected sky colour at row %d, got %v", y, got)
		}
	}
	if f.DepthAt(0, 4) != 5 {
		t.Error("Expected rows below the sky to keep the wall")
	}
}

func TestDrawSpriteColumn(t *testing.T) {
	key := assets.ColourKey
	img := stripes(green, green, key, green)

	tests := []struct {
		name  string
		depth float64
		want  []bool
	}{
		// stored depths are +Inf, 5, 10, 10
		{"far sprite", 10, []bool{true, false, false, false}},
		{"near sprite", 7, []bool{true, false, false, true}},
		{"nearest sprite", 1, []bool{true, true, false, true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFrame(1, 4)
			f.Depth[1], f.Depth[2], f.Depth[3] = 5, 10, 10
			before := append([]float64(nil), f.Depth...)

			DrawSpriteColumn(f, img, 0, 0, 0, 4, 255, tt.depth)

			for y, drawn := range tt.want {
				got := pixel(f, 0, y) == green
				if got != drawn {
					t.Errorf("Expected row %d drawn=%v, got %v", y, drawn, got)
				}
			}
			for i := range before {
				if f.Depth[i] != before[i] {
					t.Errorf("Expected depth %d to be unchanged", i)
				}
			}
		})
	}
}
