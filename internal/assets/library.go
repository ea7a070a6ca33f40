// Package assets supplies the RGBA images the rasterizer samples: wall
// textures, 64×64 flats, sprites and the sky.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"sync"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger routes asset loading messages to l.
func SetLogger(l *log.Logger) {
	logger = l
}

// ErrTextureNotFound is returned for names with no image.
var ErrTextureNotFound = errors.New("texture not found")

// ColourKey marks transparent sprite pixels.
var ColourKey = color.RGBA{R: 152, G: 0, B: 136, A: 255}

// FlatSize is the edge length of every flat.
const FlatSize = 64

// Library looks up images by name.
type Library interface {
	Texture(name string) (*image.RGBA, error)
	Flat(name string) (*image.RGBA, error)
	Sprite(name string) (*image.RGBA, error)
	SkyTexture() *image.RGBA
	IsSky(flat string) bool
}

type kind int

const (
	kindTexture kind = iota
	kindFlat
	kindSprite
)

func (k kind) String() string {
	switch k {
	case kindTexture:
		return "texture"
	case kindFlat:
		return "flat"
	default:
		return "sprite"
	}
}

// Options configures a Manager.
type Options struct {
	SkyTexture   string
	SkyFlat      string
	Placeholders bool // generate images for unknown names
}

// Manager is the Library used by the game. Loaded images take priority
// over generated placeholders. It is safe for concurrent use.
type Manager struct {
	opts Options

	mu     sync.RWMutex
	images [3]map[string]*image.RGBA
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	m := &Manager{opts: opts}
	for i := range m.images {
		m.images[i] = make(map[string]*image.RGBA)
	}
	return m
}

// add registers an image under a name, replacing any previous one.
func (m *Manager) add(k kind, name string, img *image.RGBA) {
	m.mu.Lock()
	m.images[k][name] = img
	m.mu.Unlock()
}

func (m *Manager) lookup(k kind, name string) (*image.RGBA, error) {
	m.mu.RLock()
	img, ok := m.images[k][name]
	m.mu.RUnlock()
	if ok {
		return img, nil
	}
	if !m.opts.Placeholders {
		return nil, fmt.Errorf("%s %q: %w", k, name, ErrTextureNotFound)
	}

	switch k {
	case kindTexture:
		img = PlaceholderTexture(name)
	case kindFlat:
		img = PlaceholderFlat(name)
	default:
		img = PlaceholderSprite(name)
	}
	m.add(k, name, img)
	return img, nil
}

// Texture returns a wall texture.
func (m *Manager) Texture(name string) (*image.RGBA, error) {
	return m.lookup(kindTexture, name)
}

// Flat returns a 64×64 floor or ceiling image.
func (m *Manager) Flat(name string) (*image.RGBA, error) {
	return m.lookup(kindFlat, name)
}

// Sprite returns a sprite whose transparent pixels hold ColourKey.
func (m *Manager) Sprite(name string) (*image.RGBA, error) {
	return m.lookup(kindSprite, name)
}

// SkyTexture returns the sky image, generating one if none was loaded.
func (m *Manager) SkyTexture() *image.RGBA {
	m.mu.RLock()
	img, ok := m.images[kindTexture][m.opts.SkyTexture]
	m.mu.RUnlock()
	if ok {
		return img
	}
	img = PlaceholderSky(m.opts.SkyTexture)
	m.add(kindTexture, m.opts.SkyTexture, img)
	return img
}

// IsSky reports whether a ceiling flat shows the sky.
func (m *Manager) IsSky(flat string) bool {
	return flat == m.opts.SkyFlat
}

// Count returns the number of images held, placeholders included.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, images := range m.images {
		n += len(images)
	}
	return n
}
