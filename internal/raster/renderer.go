package raster

import (
	"doomcore/internal/assets"
	"doomcore/internal/bsp"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
	"doomcore/internal/threading/monitoring"
	"doomcore/internal/threading/rendering"
)

// Options wires optional threading helpers into a Renderer.
type Options struct {
	Shades   *rendering.ShadeCache
	Parallel *rendering.ParallelRenderer
	Monitor  *monitoring.PerformanceMonitor
}

// Stats describes one rendered frame.
type Stats struct {
	SubSectors  int // leaves that produced visible segments
	Segments    int // visible segments handed to the rasterizer
	Drawn       int // segments that reached at least one open column
	Sprites     int
	OpenColumns int // columns left uncovered by solid walls
}

// Renderer runs the frame pipeline: clear, BSP walk with segment
// drawing, then sprite compositing.
type Renderer struct {
	engine  *bsp.Engine
	frame   *Frame
	segs    *SegmentRenderer
	sprites *SpriteProjector
	monitor *monitoring.PerformanceMonitor
	leafOf  []int
}

// NewRenderer creates a renderer with a frame as wide as the engine's
// clipper and height rows tall.
func NewRenderer(engine *bsp.Engine, lib assets.Library, height int, opts Options) *Renderer {
	level := engine.Level()
	clip := engine.Clipper()

	leafOf := make([]int, len(level.Segments))
	for i, ss := range level.SubSectors {
		for s := ss.FirstSeg; s < ss.FirstSeg+ss.SegCount; s++ {
			leafOf[s] = i
		}
	}

	return &Renderer{
		engine:  engine,
		frame:   NewFrame(clip.Width, height),
		segs:    NewSegmentRenderer(level, clip, lib, opts.Shades),
		sprites: NewSpriteProjector(level, engine, clip, lib, opts.Parallel),
		monitor: opts.Monitor,
		leafOf:  leafOf,
	}
}

// Frame returns the frame the renderer draws into. Its contents are
// valid until the next RenderFrame call.
func (r *Renderer) Frame() *Frame {
	return r.frame
}

// RenderFrame draws the view from cam with the given things as sprites.
func (r *Renderer) RenderFrame(cam Camera, things []geometry.Thing) Stats {
	var stats Stats
	r.frame.Reset()
	r.segs.Begin(r.frame, cam)

	r.stage("bsp_walk", func() {
		lastLeaf := -1
		r.engine.RenderOrderedWalk(cam.View(), func(segID int, span fov.Span) bool {
			if leaf := r.leafOf[segID]; leaf != lastLeaf {
				lastLeaf = leaf
				stats.SubSectors++
			}
			stats.Segments++
			return r.segs.Draw(segID, span)
		})
	})
	stats.Drawn = r.segs.Drawn()
	stats.OpenColumns = r.segs.OpenColumns()

	r.stage("sprites", func() {
		visible := r.sprites.Project(cam, r.frame.Height, things)
		r.sprites.Composite(r.frame, visible)
		stats.Sprites = len(visible)
	})

	if r.monitor != nil {
		r.monitor.RecordRender(stats.SubSectors, stats.Drawn, stats.Sprites, stats.OpenColumns)
	}
	return stats
}

func (r *Renderer) stage(name string, fn func()) {
	if r.monitor == nil {
		fn()
		return
	}
	r.monitor.ProfiledFunction(name, fn)
}
