package game

import (
	"doomcore/internal/game/keytracker"
	"doomcore/internal/player"

	"github.com/hajimehoshi/ebiten/v2"
)

// InputHandler maps the keyboard onto player intent
type InputHandler struct {
	use *keytracker.KeyStateTracker
}

// NewInputHandler creates a new input handler
func NewInputHandler() *InputHandler {
	return &InputHandler{use: keytracker.New(ebiten.KeyE, ebiten.KeySpace)}
}

// Movement reads held movement keys through pressed.
func (ih *InputHandler) Movement(pressed func(ebiten.Key) bool) player.Input {
	var in player.Input
	if pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp) {
		in.Forward++
	}
	if pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown) {
		in.Forward--
	}
	if pressed(ebiten.KeyD) {
		in.Strafe++
	}
	if pressed(ebiten.KeyA) {
		in.Strafe--
	}
	if pressed(ebiten.KeyArrowLeft) {
		in.Turn++
	}
	if pressed(ebiten.KeyArrowRight) {
		in.Turn--
	}
	return in
}

// UseJustPressed reports a fresh press of a use key. Holding the key does
// not repeat the action.
func (ih *InputHandler) UseJustPressed() bool {
	return ih.use.IsKeyJustPressed()
}
