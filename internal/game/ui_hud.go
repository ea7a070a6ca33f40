package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

const (
	hudMargin     = 2
	hudLineHeight = 13
)

// HUD draws the debug overlay in the top left corner
type HUD struct {
	game *Game
	face font.Face
}

func NewHUD(game *Game) *HUD {
	return &HUD{game: game, face: basicfont.Face7x13}
}

// Lines returns the overlay text for the current state.
func (h *HUD) Lines(fps float64) []string {
	g := h.game
	s := g.Player()
	lines := []string{
		fmt.Sprintf("FPS %.0f", fps),
		fmt.Sprintf("X %.0f Y %.0f A %.0f", s.X, s.Y, s.Angle),
		fmt.Sprintf("SEC %d SS %d Z %.0f", s.Sector, s.SubSector, s.Height),
		fmt.Sprintf("LEAF %d SEG %d SPR %d", g.lastStats.SubSectors, g.lastStats.Drawn, g.lastStats.Sprites),
	}
	if g.useTicks > 0 {
		lines = append(lines, g.useMessage)
	}
	return lines
}

func (h *HUD) Draw(screen *ebiten.Image) {
	lines := h.Lines(ebiten.ActualFPS())

	width := 0
	for _, line := range lines {
		width = max(width, font.MeasureString(h.face, line).Round())
	}
	vector.DrawFilledRect(screen, 0, 0, float32(width+2*hudMargin), float32(len(lines)*hudLineHeight+2*hudMargin), color.RGBA{0, 0, 0, 140}, false)

	for i, line := range lines {
		baseline := hudMargin + (i+1)*hudLineHeight - 3
		ebitext.Draw(screen, line, h.face, hudMargin, baseline, color.RGBA{220, 220, 220, 255})
	}
}
