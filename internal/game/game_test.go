package game

import (
	"errors"
	"math"
	"strings"
	"testing"

	"doomcore/internal/assets"
	"doomcore/internal/config"
	"doomcore/internal/door"
	"doomcore/internal/geometry"
	"doomcore/internal/player"
	"doomcore/internal/threading"

	"github.com/hajimehoshi/ebiten/v2"
)

const tickMs = 1000.0 / 60

func newTestGame(t *testing.T, tc *threading.ThreadingComponents) *Game {
	t.Helper()
	cfg := config.Default()
	lib := assets.NewManager(assets.Options{SkyTexture: cfg.Assets.SkyTexture, SkyFlat: cfg.Assets.SkyFlat, Placeholders: true})
	g, err := NewGame(cfg, geometry.DemoLevel(), lib, tc)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

func TestNewGameStartsAtPlayerStart(t *testing.T) {
	g := newTestGame(t, nil)
	s := g.Player()
	if s.X != 64 || s.Y != 128 || s.Angle != 0 {
		t.Errorf("Expected player at (64,128) facing 0, got %+v", s)
	}
	if want := g.engine.LeafContaining(g.player.Pos) + 41; s.Height != want {
		t.Errorf("Expected eye height %v, got %v", want, s.Height)
	}
	if s.Sector != geometry.DemoRoomA {
		t.Errorf("Expected sector %d, got %d", geometry.DemoRoomA, s.Sector)
	}
	if w, h := g.Layout(1280, 800); w != 320 || h != 200 {
		t.Errorf("Expected layout 320x200, got %dx%d", w, h)
	}
}

func TestNewGameWithoutPlayerStart(t *testing.T) {
	lvl := geometry.DemoLevel()
	lvl.Things = nil
	_, err := NewGame(config.Default(), lvl, assets.NewManager(assets.Options{Placeholders: true}), nil)
	if !errors.Is(err, ErrNoPlayerStart) {
		t.Errorf("Expected ErrNoPlayerStart, got %v", err)
	}
}

func TestTickMovesPlayer(t *testing.T) {
	g := newTestGame(t, nil)
	g.Tick(player.Input{Forward: 1}, false, tickMs)

	s := g.Player()
	want := 64 + 0.3*tickMs
	if math.Abs(s.X-want) > 1e-9 || s.Y != 128 {
		t.Errorf("Expected player at (%v,128), got (%v,%v)", want, s.X, s.Y)
	}
}

func TestTickUseOpensDoor(t *testing.T) {
	g := newTestGame(t, nil)
	if len(g.Doors()) != 0 {
		t.Fatal("Expected no doors before any activation")
	}

	g.Tick(player.Input{}, true, tickMs)
	doors := g.Doors()
	if len(doors) != 1 {
		t.Fatalf("Expected one door after use, got %d", len(doors))
	}
	if doors[0].State != door.Opening.String() {
		t.Errorf("Expected opening door, got %q", doors[0].State)
	}
	if !strings.HasPrefix(g.useMessage, "door") || g.useTicks != useMessageTicks-1 {
		t.Errorf("Expected a door message on the HUD, got %q (%d ticks)", g.useMessage, g.useTicks)
	}

	for i := 0; i < 200; i++ {
		g.Tick(player.Input{}, false, tickMs)
	}
	if state := g.Doors()[0].State; state != door.Open.String() {
		t.Errorf("Expected the door to finish opening, got %q", state)
	}
	if g.useTicks != 0 {
		t.Errorf("Expected the HUD message to expire, %d ticks left", g.useTicks)
	}
}

func TestTickUseOutOfReach(t *testing.T) {
	g := newTestGame(t, nil)
	g.player.Angle = 90
	g.Tick(player.Input{}, true, tickMs)
	if len(g.Doors()) != 0 {
		t.Error("Expected no door from a plain wall")
	}
	if g.useMessage == "" {
		t.Error("Expected a HUD message for a failed use")
	}
}

func TestRender(t *testing.T) {
	tc := threading.NewThreadingComponents(2)
	defer tc.Shutdown()
	g := newTestGame(t, tc)

	stats := g.Render()
	if stats.SubSectors != 1 || stats.OpenColumns != 0 {
		t.Errorf("Expected one leaf with every column closed, got %+v", stats)
	}
	f := g.Frame()
	if len(f.Pix) != 4*320*200 {
		t.Errorf("Expected a 320x200 RGBA frame, got %d bytes", len(f.Pix))
	}

	perf := g.PerformanceStats()
	if n, _ := perf["sub_sectors"].(int64); n != 1 {
		t.Errorf("Expected the monitor to see 1 leaf, got %v", perf["sub_sectors"])
	}
	if _, ok := perf["shade_cache_entries"]; !ok {
		t.Error("Expected shade cache counters in the stats")
	}
}

func TestSourceWithoutThreading(t *testing.T) {
	g := newTestGame(t, nil)
	if g.PerformanceStats() != nil || g.Alerts() != nil {
		t.Error("Expected no stats or alerts without threading components")
	}
}

func TestHUDLines(t *testing.T) {
	g := newTestGame(t, nil)
	g.Render()
	h := NewHUD(g)

	lines := h.Lines(60)
	if len(lines) != 4 {
		t.Fatalf("Expected 4 lines, got %v", lines)
	}
	if lines[0] != "FPS 60" || lines[1] != "X 64 Y 128 A 0" {
		t.Errorf("Unexpected HUD lines %q", lines[:2])
	}

	g.Tick(player.Input{}, true, tickMs)
	if lines := h.Lines(60); len(lines) != 5 {
		t.Errorf("Expected the use message as a fifth line, got %v", lines)
	}
}

func TestMovementKeys(t *testing.T) {
	ih := NewInputHandler()
	tests := []struct {
		name string
		keys []ebiten.Key
		want player.Input
	}{
		{"idle", nil, player.Input{}},
		{"forward", []ebiten.Key{ebiten.KeyW}, player.Input{Forward: 1}},
		{"arrow back", []ebiten.Key{ebiten.KeyArrowDown}, player.Input{Forward: -1}},
		{"opposing keys cancel", []ebiten.Key{ebiten.KeyW, ebiten.KeyS}, player.Input{}},
		{"strafe left", []ebiten.Key{ebiten.KeyA}, player.Input{Strafe: -1}},
		{"turn left", []ebiten.Key{ebiten.KeyArrowLeft}, player.Input{Turn: 1}},
		{"diagonal", []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyD, ebiten.KeyArrowRight}, player.Input{Forward: 1, Strafe: 1, Turn: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			held := map[ebiten.Key]bool{}
			for _, k := range tt.keys {
				held[k] = true
			}
			got := ih.Movement(func(k ebiten.Key) bool { return held[k] })
			if got != tt.want {
				t.Errorf("Expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestPerfHelpers(t *testing.T) {
	stats := map[string]interface{}{"a": 1.5, "b": int64(7), "c": uint64(3), "d": int32(2)}
	if getPerfFloat(stats, "a") != 1.5 || getPerfFloat(stats, "b") != 7 {
		t.Error("Expected numeric values to convert to float64")
	}
	if getPerfInt(stats, "c") != 3 || getPerfInt(stats, "d") != 2 || getPerfInt(stats, "missing") != 0 {
		t.Error("Expected numeric values to convert to int64")
	}
}
