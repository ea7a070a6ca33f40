package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// GameLoop manages the main game update and render cycle
type GameLoop struct {
	game         *Game
	inputHandler *InputHandler
	hud          *HUD
}

// NewGameLoop creates a new game loop manager
func NewGameLoop(game *Game) *GameLoop {
	return &GameLoop{
		game:         game,
		inputHandler: NewInputHandler(),
		hud:          NewHUD(game),
	}
}

// Update handles all game logic updates for one tick
func (gl *GameLoop) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		gl.game.showHUD = !gl.game.showHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		gl.game.showMap = !gl.game.showMap
	}

	in := gl.inputHandler.Movement(ebiten.IsKeyPressed)
	use := gl.inputHandler.UseJustPressed()
	gl.game.Tick(in, use, 1000/float64(ebiten.TPS()))

	gl.game.maybeLogPerfAlerts()
	return nil
}

// Draw renders the view in software and uploads it to the screen
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	if tc := gl.game.threading; tc != nil && tc.PerformanceMonitor != nil {
		frameTimer := tc.PerformanceMonitor.StartFrame()
		defer frameTimer.EndFrame()
	}

	if gl.game.showMap {
		screen.Fill(color.RGBA{15, 15, 22, 255})
		gl.game.DrawMap(screen)
	} else {
		gl.game.Render()
		screen.WritePixels(gl.game.Frame().Pix)
	}

	if gl.game.showHUD {
		gl.hud.Draw(screen)
	}
}
