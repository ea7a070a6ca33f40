// Package raster draws the first-person view column by column into a
// software frame buffer with a per-pixel depth buffer.
package raster

import (
	"image"
	"io"
	"log"
	"math"

	"doomcore/internal/assets"
	"doomcore/internal/geometry"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger routes renderer warnings to l.
func SetLogger(l *log.Logger) {
	logger = l
}

// Sky mapping constants.
const (
	skyTexScale = 2.2 // texture columns per degree of view angle
	skyAlt      = 100
	skyRows     = 160 // texture rows spread over the screen height
)

// Frame is the colour and depth output of one frame. Pix uses the
// image.RGBA layout so it can be uploaded directly.
type Frame struct {
	Width  int
	Height int
	Pix    []byte
	Depth  []float64 // view depth per pixel, +Inf where nothing is drawn
}

// NewFrame allocates a cleared frame.
func NewFrame(width, height int) *Frame {
	f := &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
		Depth:  make([]float64, width*height),
	}
	f.Reset()
	return f
}

// Reset paints the frame opaque black and empties the depth buffer.
func (f *Frame) Reset() {
	for i := 0; i < len(f.Pix); i += 4 {
		f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3] = 0, 0, 0, 255
	}
	inf := math.Inf(1)
	for i := range f.Depth {
		f.Depth[i] = inf
	}
}

// DepthAt returns the stored depth of a pixel.
func (f *Frame) DepthAt(x, y int) float64 {
	return f.Depth[y*f.Width+x]
}

func (f *Frame) halfHeight() float64 {
	return float64(f.Height) / 2
}

// rows clamps an inclusive row range to the frame.
func (f *Frame) rows(y1, y2 int) (int, int) {
	return max(y1, 0), min(y2, f.Height-1)
}

func (f *Frame) put(i int, src []byte, light int) {
	p := f.Pix[i*4 : i*4+4 : i*4+4]
	if light >= 255 {
		p[0], p[1], p[2] = src[0], src[1], src[2]
	} else {
		light = max(light, 0)
		p[0] = uint8(int(src[0]) * light / 255)
		p[1] = uint8(int(src[1]) * light / 255)
		p[2] = uint8(int(src[2]) * light / 255)
	}
	p[3] = 255
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func texel(tex *image.RGBA, x, y int) []byte {
	b := tex.Rect
	i := tex.PixOffset(b.Min.X+wrap(x, b.Dx()), b.Min.Y+wrap(y, b.Dy()))
	return tex.Pix[i : i+4 : i+4]
}

// DrawWallColumn draws rows y1..y2 (inclusive) of column x from texture
// column texCol. Texture row texAlt lines up with the horizon and each
// screen row advances invScale texture rows. Every drawn pixel gets depth.
func DrawWallColumn(f *Frame, tex *image.RGBA, texCol float64, x, y1, y2 int, texAlt, invScale float64, light int, depth float64) {
	if tex == nil || x < 0 || x >= f.Width {
		return
	}
	y1, y2 = f.rows(y1, y2)
	if y1 > y2 {
		return
	}
	tx := int(math.Floor(texCol))
	ty := texAlt + (float64(y1)-f.halfHeight())*invScale
	for y := y1; y <= y2; y++ {
		i := y*f.Width + x
		f.put(i, texel(tex, tx, int(math.Floor(ty))), light)
		f.Depth[i] = depth
		ty += invScale
	}
}

// Projection is the camera data needed to back-project screen rows onto
// floors and ceilings.
type Projection struct {
	Pos        geometry.Vec2
	Dir        geometry.Vec2 // unit facing vector
	ScreenDist float64
	HalfWidth  float64
}

// DrawFlatColumn draws rows y1..y2 of a floor or ceiling at worldZ
// relative to the eye. Each row is traced back to the map point it shows
// and the flat is tiled over the map. Depth is the view depth of that point.
func DrawFlatColumn(f *Frame, flat *image.RGBA, x, y1, y2, light int, worldZ float64, p Projection) {
	if flat == nil || x < 0 || x >= f.Width {
		return
	}
	y1, y2 = f.rows(y1, y2)
	lateral := (p.HalfWidth - float64(x)) / p.ScreenDist
	left := geometry.Vec2{X: -p.Dir.Y, Y: p.Dir.X}
	hh := f.halfHeight()
	for y := y1; y <= y2; y++ {
		den := hh - float64(y)
		if den == 0 {
			continue
		}
		z := p.ScreenDist * worldZ / den
		if z <= 0 {
			continue
		}
		world := p.Pos.Add(p.Dir.Scale(z)).Add(left.Scale(z * lateral))
		i := y*f.Width + x
		f.put(i, texel(flat, int(math.Floor(world.X)), int(math.Floor(world.Y))), light)
		f.Depth[i] = z
	}
}

// DrawSkyColumn draws rows y1..y2 of the sky for a column looking along
// the world angle viewAngle. The sky is infinitely far away.
func DrawSkyColumn(f *Frame, sky *image.RGBA, x, y1, y2 int, viewAngle float64) {
	DrawWallColumn(f, sky, skyTexScale*viewAngle, x, y1, y2, skyAlt, skyRows/float64(f.Height), 255, math.Inf(1))
}

// DrawSpriteColumn draws source column srcX of a sprite spanning screen
// rows top to bottom. A pixel is written only where depth is nearer than
// the stored depth and the source is not the colour key. The depth
// buffer itself is left alone.
func DrawSpriteColumn(f *Frame, img *image.RGBA, srcX, x int, top, bottom float64, light int, depth float64) {
	if img == nil || x < 0 || x >= f.Width || bottom <= top {
		return
	}
	h := img.Rect.Dy()
	y1, y2 := f.rows(int(math.Floor(top)), int(math.Ceil(bottom)))
	for y := y1; y <= y2; y++ {
		v := (float64(y) + 0.5 - top) / (bottom - top)
		if v < 0 || v >= 1 {
			continue
		}
		i := y*f.Width + x
		if depth >= f.Depth[i] {
			continue
		}
		src := texel(img, srcX, int(v*float64(h)))
		if isColourKey(src) {
			continue
		}
		f.put(i, src, light)
	}
}

func isColourKey(p []byte) bool {
	k := assets.ColourKey
	return p[3] == 0 || (p[0] == k.R && p[1] == k.G && p[2] == k.B)
}
