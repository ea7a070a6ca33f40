package rendering

import (
	"image"
	"sync"
	"sync/atomic"
)

// Cache size limits. Eviction trims to the target size in one step.
const (
	shadeCacheMaxSize    = 512
	shadeCacheTargetSize = 384
)

// lightStep quantizes light levels so nearby sectors share entries.
const lightStep = 8

// ShadeKey identifies one light-scaled copy of an image.
type ShadeKey struct {
	Kind  int // caller-defined image class, e.g. wall or flat
	Name  string
	Light int
}

// ShadeCache keeps light-scaled copies of textures so column drawing can
// copy pixels without per-pixel multiplies. It is safe for concurrent use.
type ShadeCache struct {
	cache      map[ShadeKey]*image.RGBA
	mutex      sync.RWMutex
	cacheOrder []ShadeKey
	hits       atomic.Int64
	misses     atomic.Int64
}

// NewShadeCache creates an empty cache.
func NewShadeCache() *ShadeCache {
	return &ShadeCache{
		cache:      make(map[ShadeKey]*image.RGBA, shadeCacheMaxSize),
		cacheOrder: make([]ShadeKey, 0, shadeCacheMaxSize),
	}
}

// QuantizeLight rounds a light level to the cache's step, within [0, 255].
func QuantizeLight(light int) int {
	q := (light + lightStep/2) / lightStep * lightStep
	return max(0, min(255, q))
}

// GetOrCreate returns the cached image for key, calling create with the
// quantized light level on a miss.
func (sc *ShadeCache) GetOrCreate(key ShadeKey, create func(light int) *image.RGBA) *image.RGBA {
	key.Light = QuantizeLight(key.Light)

	sc.mutex.RLock()
	if img, ok := sc.cache[key]; ok {
		sc.mutex.RUnlock()
		sc.hits.Add(1)
		return img
	}
	sc.mutex.RUnlock()

	img := create(key.Light)

	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.misses.Add(1)
	if existing, ok := sc.cache[key]; ok {
		return existing
	}
	if len(sc.cache) >= shadeCacheMaxSize {
		evict := len(sc.cacheOrder) - shadeCacheTargetSize
		for _, k := range sc.cacheOrder[:evict] {
			delete(sc.cache, k)
		}
		sc.cacheOrder = sc.cacheOrder[evict:]
	}
	sc.cache[key] = img
	sc.cacheOrder = append(sc.cacheOrder, key)
	return img
}

// Len returns the number of cached images.
func (sc *ShadeCache) Len() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return len(sc.cache)
}

// Stats returns hit and miss counts.
func (sc *ShadeCache) Stats() (hits, misses int64) {
	return sc.hits.Load(), sc.misses.Load()
}

// Clear drops every entry.
func (sc *ShadeCache) Clear() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	clear(sc.cache)
	sc.cacheOrder = sc.cacheOrder[:0]
}

// Shade returns a copy of src with every colour channel scaled by
// light/255. Alpha is kept.
func Shade(src *image.RGBA, light int) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	if light >= 255 {
		return dst
	}
	for i := 0; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = uint8(int(dst.Pix[i]) * light / 255)
		dst.Pix[i+1] = uint8(int(dst.Pix[i+1]) * light / 255)
		dst.Pix[i+2] = uint8(int(dst.Pix[i+2]) * light / 255)
	}
	return dst
}
