package assets

import (
	"hash/fnv"
	"image"
	"image/color"
	"math/rand"
)

// ColourFor returns a stable colour for a texture name with every channel
// in [50, 255].
func ColourFor(name string) color.RGBA {
	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))
	return color.RGBA{
		R: uint8(50 + rng.Intn(206)),
		G: uint8(50 + rng.Intn(206)),
		B: uint8(50 + rng.Intn(206)),
		A: 255,
	}
}

func shade(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: 255}
}

// PlaceholderTexture draws a 64×128 brick pattern in the name's colour.
func PlaceholderTexture(name string) *image.RGBA {
	base := ColourFor(name)
	mortar := shade(base, 0.6)
	img := image.NewRGBA(image.Rect(0, 0, 64, 128))
	for y := 0; y < 128; y++ {
		row := y / 16
		for x := 0; x < 64; x++ {
			c := base
			if y%16 == 0 || (x+row%2*16)%32 == 0 {
				c = mortar
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// PlaceholderFlat draws a 64×64 checker board in the name's colour.
func PlaceholderFlat(name string) *image.RGBA {
	base := ColourFor(name)
	alt := shade(base, 0.85)
	img := image.NewRGBA(image.Rect(0, 0, FlatSize, FlatSize))
	for y := 0; y < FlatSize; y++ {
		for x := 0; x < FlatSize; x++ {
			c := base
			if (x/8+y/8)%2 == 1 {
				c = alt
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// PlaceholderSprite draws a 32×56 ellipse on a ColourKey background.
func PlaceholderSprite(name string) *image.RGBA {
	const w, h = 32, 56
	base := ColourFor(name)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - w/2) / (w / 2)
			dy := (float64(y) + 0.5 - h/2) / (h / 2)
			if dx*dx+dy*dy <= 1 {
				img.SetRGBA(x, y, base)
			} else {
				img.SetRGBA(x, y, ColourKey)
			}
		}
	}
	return img
}

// PlaceholderSky draws a 256×128 vertical gradient.
func PlaceholderSky(name string) *image.RGBA {
	base := ColourFor(name)
	img := image.NewRGBA(image.Rect(0, 0, 256, 128))
	for y := 0; y < 128; y++ {
		c := shade(base, 0.4+0.6*float64(y)/127)
		for x := 0; x < 256; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
