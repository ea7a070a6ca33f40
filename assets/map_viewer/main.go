package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"

	"doomcore/internal/bsp"
	"doomcore/internal/config"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
	"doomcore/internal/mapview"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
)

type mapInfo struct {
	Key    string
	Level  *geometry.Level
	Engine *bsp.Engine
}

type viewer struct {
	maps       []mapInfo
	mapIndex   int
	sidebarTab int
	partitions bool
	things     bool
	lastErr    string
}

const (
	tabInfo = iota
	tabLegend
)

func main() {
	ensureRuntimeCWD()

	cfg := config.MustLoadConfig("config.yaml")

	maps, err := loadMaps(cfg, "assets/maps")
	if err != nil {
		log.Printf("Warning: %v", err)
	}

	v := &viewer{
		maps:       maps,
		sidebarTab: tabInfo,
		partitions: true,
		things:     true,
	}
	if len(maps) == 0 {
		v.lastErr = "no maps loaded"
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("doomcore map viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if v.sidebarTab == tabInfo {
			v.sidebarTab = tabLegend
		} else {
			v.sidebarTab = tabInfo
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.Key1) {
		v.sidebarTab = tabInfo
	}
	if inpututil.IsKeyJustPressed(ebiten.Key2) {
		v.sidebarTab = tabLegend
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		v.partitions = !v.partitions
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		v.things = !v.things
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		if len(v.maps) > 0 {
			v.mapIndex = (v.mapIndex + 1) % len(v.maps)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		if len(v.maps) > 0 {
			v.mapIndex--
			if v.mapIndex < 0 {
				v.mapIndex = len(v.maps) - 1
			}
		}
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	if len(v.maps) == 0 {
		msg := v.lastErr
		if msg == "" {
			msg = "no maps loaded"
		}
		ebitenutil.DebugPrintAt(screen, msg, 16, 16)
		return
	}

	m := v.maps[v.mapIndex]

	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()

	padding := 16
	mapAreaW := screenW - sidebarWidth - padding*3
	mapAreaH := screenH - padding*2
	mapAreaX := padding
	mapAreaY := padding
	sidebarX := mapAreaX + mapAreaW + padding
	sidebarY := padding

	tr := mapview.Fit(mapview.Bounds(m.Level), mapAreaX, mapAreaY+40, mapAreaW, mapAreaH-40, 12)
	cursor, leaf := v.hover(m, tr)

	drawMapPanel(screen, m, tr, mapAreaX, mapAreaY, mapAreaW, mapAreaH, mapview.Options{
		Partitions: v.partitions,
		Things:     v.things,
		Leaf:       leaf,
		Viewer:     startViewer(m.Level),
	})
	drawSidebar(screen, m, sidebarX, sidebarY, sidebarWidth, mapAreaH, v.sidebarTab, cursor, leaf)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

// hover locates the leaf under the mouse with the BSP tree.
func (v *viewer) hover(m mapInfo, tr mapview.Transform) (geometry.Vec2, int) {
	mx, my := ebiten.CursorPosition()
	p := tr.ToWorld(float64(mx), float64(my))
	if !mapview.Bounds(m.Level).Contains(p) {
		return p, -1
	}
	return p, m.Engine.SubSectorAt(p)
}

func startViewer(level *geometry.Level) *mapview.Viewer {
	start, ok := level.PlayerStart()
	if !ok {
		return nil
	}
	return &mapview.Viewer{Pos: start.Pos, Angle: start.Angle}
}

func drawMapPanel(screen *ebiten.Image, m mapInfo, tr mapview.Transform, x, y, w, h int, opts mapview.Options) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{20, 20, 35, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	mapview.Draw(screen, m.Level, tr, opts)
	drawMapHeader(screen, m, x, y)
}

func drawMapHeader(screen *ebiten.Image, m mapInfo, x, y int) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s (%s)", m.Level.Name, m.Key), x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to switch maps, N partitions, T things, Esc to quit", x+12, y+24)
}

func drawSidebar(screen *ebiten.Image, m mapInfo, x, y, w, h int, tab int, cursor geometry.Vec2, leaf int) {
	drawFilledRect(screen, x, y, w, h, color.RGBA{18, 18, 26, 255})
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})

	tabHeight := 24
	drawSidebarTabs(screen, x, y, w, tabHeight, tab)
	row := y + tabHeight + 12

	lines := legendLines()
	if tab == tabInfo {
		lines = infoLines(m, cursor, leaf)
	}
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x+12, row)
		row += 16
	}
}

func infoLines(m mapInfo, cursor geometry.Vec2, leaf int) []string {
	lvl := m.Level
	lines := []string{
		fmt.Sprintf("Vertices: %d", len(lvl.Vertices)),
		fmt.Sprintf("Sectors: %d", len(lvl.Sectors)),
		fmt.Sprintf("Linedefs: %d", len(lvl.Linedefs)),
		fmt.Sprintf("Segments: %d", len(lvl.Segments)),
		fmt.Sprintf("Sub-sectors: %d", len(lvl.SubSectors)),
		fmt.Sprintf("Nodes: %d", len(lvl.Nodes)),
		fmt.Sprintf("Things: %d", len(lvl.Things)),
		"",
		fmt.Sprintf("Cursor: %.0f, %.0f", cursor.X, cursor.Y),
	}
	if leaf < 0 {
		return append(lines, "Leaf: -")
	}
	sector := &lvl.Sectors[m.Engine.SectorAt(cursor)]
	first, count := lvl.SubSectorSegments(leaf)
	return append(lines,
		fmt.Sprintf("Leaf: %d (segs %d..%d)", leaf, first, first+count-1),
		fmt.Sprintf("Floor %.0f  Ceil %.0f  Light %d", sector.FloorHeight, sector.CeilHeight, sector.LightLevel),
		fmt.Sprintf("Flats: %s / %s", sector.FloorTexture, sector.CeilTexture),
	)
}

func legendLines() []string {
	return []string{
		"Lines",
		"-----",
		"Light grey: one-sided wall",
		"Grey: two-sided portal",
		"Orange: door",
		"Dark: trigger line",
		"Purple: BSP partition",
		"Green: leaf under the cursor",
		"",
		"Markers",
		"-------",
		"Cyan: player start",
		"Red circles: things",
	}
}

func drawSidebarTabs(screen *ebiten.Image, x, y, w, h int, active int) {
	tabW := w / 2
	infoColor := color.RGBA{40, 40, 55, 255}
	legendColor := color.RGBA{40, 40, 55, 255}
	if active == tabInfo {
		infoColor = color.RGBA{70, 70, 95, 255}
	} else {
		legendColor = color.RGBA{70, 70, 95, 255}
	}
	drawFilledRect(screen, x, y, tabW, h, infoColor)
	drawFilledRect(screen, x+tabW, y, w-tabW, h, legendColor)
	drawRectBorder(screen, x, y, w, h, 2, color.RGBA{70, 70, 90, 255})
	ebitenutil.DebugPrintAt(screen, "Info (1)", x+10, y+6)
	ebitenutil.DebugPrintAt(screen, "Legend (2)", x+tabW+10, y+6)
}

// loadMaps returns the built-in demo level followed by every YAML level in
// dir, sorted by file name.
func loadMaps(cfg *config.Config, dir string) ([]mapInfo, error) {
	clip := fov.NewClipper(cfg.GetRenderWidth(), cfg.GetCameraFOV())

	demo := geometry.DemoLevel()
	maps := []mapInfo{{Key: "demo", Level: demo, Engine: bsp.NewEngine(demo, clip)}}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return maps, fmt.Errorf("failed to list maps: %w", err)
	}
	sort.Strings(files)

	for _, file := range files {
		key := filepath.Base(file)
		lvl, err := geometry.LoadLevel(file)
		if err != nil {
			log.Printf("Warning: skipping %s: %v", key, err)
			continue
		}
		maps = append(maps, mapInfo{Key: key, Level: lvl, Engine: bsp.NewEngine(lvl, clip)})
	}
	return maps, nil
}

func drawFilledRect(screen *ebiten.Image, x, y, w, h int, clr color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), clr, false)
}

func drawRectBorder(screen *ebiten.Image, x, y, w, h, thickness int, clr color.RGBA) {
	t := float32(thickness)
	fx := float32(x)
	fy := float32(y)
	fw := float32(w)
	fh := float32(h)
	vector.DrawFilledRect(screen, fx, fy, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy+fh-t, fw, t, clr, false)
	vector.DrawFilledRect(screen, fx, fy, t, fh, clr, false)
	vector.DrawFilledRect(screen, fx+fw-t, fy, t, fh, clr, false)
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("config.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(exe)
	_ = os.Chdir(execDir)
}
