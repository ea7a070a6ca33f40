package raster

import (
	"cmp"
	"image"
	"math"

	"golang.org/x/exp/slices"

	"doomcore/internal/assets"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
	"doomcore/internal/threading/rendering"
)

// nearClip is the closest view depth a sprite is drawn at.
const nearClip = 1.0

// Locator answers point-location queries for sprite placement.
type Locator interface {
	LeafContaining(p geometry.Vec2) float64
	SectorAt(p geometry.Vec2) int
}

// Sprite is a thing projected onto the screen.
type Sprite struct {
	Name   string
	Image  *image.RGBA
	Depth  float64
	Left   float64 // screen x of the left edge
	Right  float64
	Top    float64 // screen y of the top edge
	Bottom float64
	Light  int
}

// SpriteProjector turns things into screen sprites and composites them
// over the rendered walls.
type SpriteProjector struct {
	level    *geometry.Level
	locator  Locator
	clip     *fov.Clipper
	lib      assets.Library
	parallel *rendering.ParallelRenderer
}

// NewSpriteProjector creates a projector. parallel may be nil, in which
// case compositing runs on the caller's goroutine.
func NewSpriteProjector(level *geometry.Level, locator Locator, clip *fov.Clipper, lib assets.Library, parallel *rendering.ParallelRenderer) *SpriteProjector {
	return &SpriteProjector{level: level, locator: locator, clip: clip, lib: lib, parallel: parallel}
}

// Project places every visible thing on a screen of the given height and
// returns the sprites sorted far to near.
func (sp *SpriteProjector) Project(cam Camera, height int, things []geometry.Thing) []Sprite {
	results := make([]Sprite, len(things))
	visible := make([]bool, len(things))
	project := func(lo, hi int) {
		for i := lo; i < hi; i++ {
			results[i], visible[i] = sp.project(cam, float64(height)/2, things[i])
		}
	}
	if sp.parallel == nil {
		project(0, len(things))
	} else {
		sp.parallel.ForEachBatch(len(things), project)
	}

	sprites := make([]Sprite, 0, len(results))
	for i := range results {
		if visible[i] {
			sprites = append(sprites, results[i])
		}
	}
	slices.SortStableFunc(sprites, func(a, b Sprite) int {
		return cmp.Compare(b.Depth, a.Depth)
	})
	return sprites
}

func (sp *SpriteProjector) project(cam Camera, halfHeight float64, th geometry.Thing) (Sprite, bool) {
	if th.Sprite == "" || th.Type == geometry.ThingPlayerStart {
		return Sprite{}, false
	}
	dir := cam.dir()
	d := th.Pos.Sub(cam.Pos)
	depth := d.Dot(dir)
	if depth < nearClip {
		return Sprite{}, false
	}
	img, err := sp.lib.Sprite(th.Sprite)
	if err != nil {
		return Sprite{}, false
	}

	scale := sp.clip.ScreenDist / depth
	lateral := d.Dot(geometry.Vec2{X: -dir.Y, Y: dir.X})
	centerX := sp.clip.HalfWidth - lateral*scale

	worldH := th.Height
	if worldH <= 0 {
		worldH = float64(img.Rect.Dy())
	}
	halfW := worldH * float64(img.Rect.Dx()) / float64(img.Rect.Dy()) * scale / 2
	if centerX+halfW < 0 || centerX-halfW >= float64(sp.clip.Width) {
		return Sprite{}, false
	}

	floor := sp.locator.LeafContaining(th.Pos)
	return Sprite{
		Name:   th.Sprite,
		Image:  img,
		Depth:  depth,
		Left:   centerX - halfW,
		Right:  centerX + halfW,
		Top:    halfHeight - (floor+worldH-cam.Height)*scale,
		Bottom: halfHeight - (floor-cam.Height)*scale,
		Light:  sp.level.Sectors[sp.locator.SectorAt(th.Pos)].LightLevel,
	}, true
}

// Composite draws sprites in order over f. Workers own disjoint column
// bands and only read the depth buffer.
func (sp *SpriteProjector) Composite(f *Frame, sprites []Sprite) {
	draw := func(x0, x1 int) {
		for i := range sprites {
			drawSprite(f, &sprites[i], x0, x1)
		}
	}
	if sp.parallel == nil {
		draw(0, f.Width)
		return
	}
	sp.parallel.RenderColumns(f.Width, draw)
}

func drawSprite(f *Frame, s *Sprite, x0, x1 int) {
	width := s.Right - s.Left
	if width <= 0 {
		return
	}
	lo := max(x0, int(math.Floor(s.Left)))
	hi := min(x1, int(math.Ceil(s.Right)))
	w := float64(s.Image.Rect.Dx())
	for x := lo; x < hi; x++ {
		u := (float64(x) + 0.5 - s.Left) / width
		if u < 0 || u >= 1 {
			continue
		}
		DrawSpriteColumn(f, s.Image, int(u*w), x, s.Top, s.Bottom, s.Light, s.Depth)
	}
}
