// Package keytracker turns held keys into single activations.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// KeyStateTracker tracks whether any of a group of keys was held on the
// previous tick.
type KeyStateTracker struct {
	keys        []ebiten.Key
	prevPressed bool
}

// New creates a tracker for a group of interchangeable keys.
func New(keys ...ebiten.Key) *KeyStateTracker {
	return &KeyStateTracker{keys: keys}
}

// Observe records this tick's state and reports a release-to-press edge.
func (k *KeyStateTracker) Observe(pressed bool) bool {
	justPressed := pressed && !k.prevPressed
	k.prevPressed = pressed
	return justPressed
}

// IsKeyJustPressed returns true if none of the keys was held last tick but
// one is held now.
func (k *KeyStateTracker) IsKeyJustPressed() bool {
	pressed := false
	for _, key := range k.keys {
		if ebiten.IsKeyPressed(key) {
			pressed = true
			break
		}
	}
	return k.Observe(pressed)
}
