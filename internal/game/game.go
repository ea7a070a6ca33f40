// Package game runs the engine inside an ebiten window: keyboard input
// drives the player and doors, and every frame is rasterized in software
// and uploaded to the screen.
package game

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"doomcore/internal/assets"
	"doomcore/internal/bsp"
	"doomcore/internal/collision"
	"doomcore/internal/config"
	"doomcore/internal/debugserver"
	"doomcore/internal/door"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
	"doomcore/internal/mapview"
	"doomcore/internal/player"
	"doomcore/internal/raster"
	"doomcore/internal/threading"
	"doomcore/internal/threading/monitoring"

	"github.com/hajimehoshi/ebiten/v2"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger routes game messages to l.
func SetLogger(l *log.Logger) {
	logger = l
}

// ErrNoPlayerStart is returned for levels without a player start thing.
var ErrNoPlayerStart = errors.New("level has no player start")

// useMessageTicks is how long the last activation result stays on the HUD.
const useMessageTicks = 90

// Game owns the level state and implements ebiten.Game.
type Game struct {
	config    *config.Config
	level     *geometry.Level
	engine    *bsp.Engine
	collision *collision.CollisionSystem
	doors     *door.Registry
	player    *player.Player
	renderer  *raster.Renderer
	threading *threading.ThreadingComponents
	gameLoop  *GameLoop

	showHUD     bool
	showMap     bool
	mapView     mapview.Transform
	lastStats   raster.Stats
	useMessage  string
	useTicks    int
	perfLastLog time.Time

	stateMu sync.RWMutex
	state   debugserver.PlayerState
}

// NewGame wires the engine subsystems for a validated level. tc may be
// nil, in which case the renderer runs single-threaded without profiling.
func NewGame(cfg *config.Config, level *geometry.Level, lib assets.Library, tc *threading.ThreadingComponents) (*Game, error) {
	start, ok := level.PlayerStart()
	if !ok {
		return nil, ErrNoPlayerStart
	}

	clip := fov.NewClipper(cfg.GetRenderWidth(), cfg.GetCameraFOV())
	engine := bsp.NewEngine(level, clip)

	doors := door.NewRegistry(level, cfg.Doors.Speed)
	cs := collision.NewCollisionSystem(level, engine, collision.Thresholds{
		MaxStepHeight: cfg.Player.MaxStepHeight,
		MinRoomHeight: cfg.Player.MinRoomHeight,
	})
	cs.SetDoorState(doors)
	cs.RegisterThings(level.Things)

	p := player.New(start, cfg.Player.Height, cfg.Player.Radius, cfg.GetMoveSpeed(), cfg.GetRotSpeed())
	p.UpdateHeight(engine)

	var opts raster.Options
	if tc != nil {
		opts.Monitor = tc.PerformanceMonitor
		tc.PerformanceMonitor.EnableDetailedLogging(cfg.Debug.Enabled || cfg.Debug.Verbose)
		if cfg.Rendering.ShadeCache {
			opts.Shades = tc.ShadeCache
		}
		if cfg.Rendering.Parallel {
			opts.Parallel = tc.ParallelRenderer
		}
	}

	g := &Game{
		config:    cfg,
		level:     level,
		engine:    engine,
		collision: cs,
		doors:     doors,
		player:    p,
		renderer:  raster.NewRenderer(engine, lib, cfg.GetRenderHeight(), opts),
		threading: tc,
		showHUD:   cfg.Debug.ShowHUD,
		mapView:   mapview.Fit(mapview.Bounds(level), 0, 0, cfg.GetRenderWidth(), cfg.GetRenderHeight(), 4),
	}
	g.gameLoop = NewGameLoop(g)
	g.publishState()

	logger.Printf("level %q: %d sectors, %d segments, %d sub-sectors, %d nodes",
		level.Name, len(level.Sectors), len(level.Segments), len(level.SubSectors), len(level.Nodes))
	return g, nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	return g.gameLoop.Update()
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.gameLoop.Draw(screen)
}

// Layout implements ebiten.Game. The logical screen is the render
// resolution; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return g.config.GetRenderWidth(), g.config.GetRenderHeight()
}

// Tick advances the simulation by dt milliseconds: player movement, an
// optional use action and one step of every door.
func (g *Game) Tick(in player.Input, use bool, dt float64) {
	g.player.Step(in, dt, g.collision, g.engine)
	if use {
		g.activate()
	}
	g.profile("doors", g.doors.Update)
	if g.useTicks > 0 {
		g.useTicks--
	}
	g.publishState()
}

func (g *Game) activate() {
	hit, d, ok := g.player.FindActivatableSurface(g.engine, g.doors, g.config.Player.ActivationDistance)
	switch {
	case !ok:
		g.useMessage = "nothing in reach"
	case d == nil:
		g.useMessage = "nothing to use"
	default:
		g.useMessage = "door " + d.State().String()
		logger.Printf("door on linedef %d %s at distance %.1f", d.Linedef, d.State(), hit.T)
	}
	g.useTicks = useMessageTicks
}

// Render draws the current view into the renderer's frame.
func (g *Game) Render() raster.Stats {
	cam := raster.Camera{Pos: g.player.Pos, Angle: g.player.Angle, Height: g.player.Height}
	g.lastStats = g.renderer.RenderFrame(cam, g.level.Things)
	return g.lastStats
}

// DrawMap draws the level from above with the player's leaf highlighted.
func (g *Game) DrawMap(screen *ebiten.Image) {
	s := g.Player()
	mapview.Draw(screen, g.level, g.mapView, mapview.Options{
		Partitions: true,
		Things:     true,
		Leaf:       s.SubSector,
		Viewer:     &mapview.Viewer{Pos: g.player.Pos, Angle: g.player.Angle},
	})
}

// Frame returns the last rendered frame.
func (g *Game) Frame() *raster.Frame {
	return g.renderer.Frame()
}

func (g *Game) profile(name string, fn func()) {
	if g.threading == nil || g.threading.PerformanceMonitor == nil {
		fn()
		return
	}
	g.threading.PerformanceMonitor.ProfiledFunction(name, fn)
}

func (g *Game) publishState() {
	s := debugserver.PlayerState{
		X:         g.player.Pos.X,
		Y:         g.player.Pos.Y,
		Angle:     g.player.Angle,
		Height:    g.player.Height,
		Sector:    g.engine.SectorAt(g.player.Pos),
		SubSector: g.engine.SubSectorAt(g.player.Pos),
	}
	g.stateMu.Lock()
	g.state = s
	g.stateMu.Unlock()
}

// Player implements debugserver.Source.
func (g *Game) Player() debugserver.PlayerState {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()
	return g.state
}

// Doors implements debugserver.Source.
func (g *Game) Doors() []door.Status {
	return g.doors.Snapshot()
}

// PerformanceStats implements debugserver.Source.
func (g *Game) PerformanceStats() map[string]interface{} {
	if g.threading == nil {
		return nil
	}
	return g.threading.GetDetailedPerformanceStats()
}

// Alerts implements debugserver.Source.
func (g *Game) Alerts() []monitoring.PerformanceAlert {
	if g.threading == nil {
		return nil
	}
	return g.threading.CheckPerformanceAlerts()
}
