package main

import (
	"context"
	"log"
	"time"

	"doomcore/internal/assets"
	"doomcore/internal/config"
	"doomcore/internal/debugserver"
	"doomcore/internal/door"
	"doomcore/internal/game"
	"doomcore/internal/geometry"
	"doomcore/internal/raster"
	"doomcore/internal/threading"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig("config.yaml")

	geometry.SetLogger(log.Default())
	assets.SetLogger(log.Default())
	raster.SetLogger(log.Default())
	game.SetLogger(log.Default())
	if cfg.Debug.Verbose {
		door.SetLogger(log.Default())
		debugserver.SetLogger(log.Default())
	}

	level := geometry.DemoLevel()
	if cfg.Level.File != "" {
		level = geometry.MustLoadLevel(cfg.Level.File)
	}

	lib := assets.NewManager(assets.Options{
		SkyTexture:   cfg.Assets.SkyTexture,
		SkyFlat:      cfg.Assets.SkyFlat,
		Placeholders: cfg.Assets.Placeholders,
	})
	if err := lib.LoadDir(context.Background(), cfg.Assets.Dir); err != nil {
		log.Printf("Warning: Failed to load assets: %v", err)
	}

	tc := threading.NewThreadingComponents(cfg.GetWorkers())
	defer tc.Shutdown()

	g, err := game.NewGame(cfg, level, lib, tc)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Debug.Enabled {
		srv := debugserver.New(cfg.Debug.Addr, g)
		if err := srv.Start(); err != nil {
			log.Printf("Warning: debug server not started: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
		}
	}

	// Set window properties from config
	ebiten.SetWindowSize(cfg.GetScreenWidth(), cfg.GetScreenHeight())
	ebiten.SetWindowTitle(cfg.Display.WindowTitle)
	if cfg.Display.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.Display.TPS > 0 {
		ebiten.SetTPS(cfg.Display.TPS)
	}

	if err := ebiten.RunGame(g); err != nil {
		log.Printf("game stopped: %v", err)
	}
}
