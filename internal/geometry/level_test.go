package geometry

import (
	"errors"
	"math"
	"testing"
)

func TestDemoLevelResolves(t *testing.T) {
	lvl := DemoLevel()

	if lvl.RootNode() != 1 {
		t.Fatalf("expected root node 1, got %d", lvl.RootNode())
	}

	door := lvl.Segments[3]
	if door.FrontSector != DemoRoomA || door.BackSector != DemoDoor {
		t.Errorf("segment 3 sectors = %d/%d, want %d/%d", door.FrontSector, door.BackSector, DemoRoomA, DemoDoor)
	}
	back := lvl.Segments[6]
	if back.FrontSector != DemoDoor || back.BackSector != DemoRoomA {
		t.Errorf("segment 6 sectors = %d/%d, want %d/%d", back.FrontSector, back.BackSector, DemoDoor, DemoRoomA)
	}
	if back.Side != 4 {
		t.Errorf("segment 6 should face sidedef 4, got %d", back.Side)
	}
	if !lvl.Segments[0].Solid() {
		t.Error("segment 0 should be solid")
	}
	if got := lvl.Segments[0].Angle; math.Abs(got-90) > 1e-9 {
		t.Errorf("segment 0 angle = %v, want 90", got)
	}
	if got := lvl.Segments[5].Angle; math.Abs(got-180) > 1e-9 {
		t.Errorf("segment 5 angle = %v, want 180", got)
	}
	if got := back.Offset; got != 0 {
		t.Errorf("segment 6 offset = %v, want 0", got)
	}
}

func TestPlayerStart(t *testing.T) {
	start, ok := DemoLevel().PlayerStart()
	if !ok {
		t.Fatal("demo level has no player start")
	}
	if start.Pos != (Vec2{64, 128}) {
		t.Errorf("player start at %v", start.Pos)
	}
}

func TestValidateRejectsMalformedLevels(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(l *Level)
	}{
		{"sidedef sector out of range", func(l *Level) { l.Sidedefs[0].Sector = 99 }},
		{"linedef vertex out of range", func(l *Level) { l.Linedefs[0].End = 500 }},
		{"segment linedef out of range", func(l *Level) { l.Segments[2].Linedef = -1 }},
		{"segment reused", func(l *Level) { l.SubSectors[1].FirstSeg = 5 }},
		{"segment orphaned", func(l *Level) { l.SubSectors[2].SegCount = 5 }},
		{"node child out of range", func(l *Level) { l.Nodes[0].FrontChild = SubSectorID(7) }},
		{"node cycle", func(l *Level) { l.Nodes[0].BackChild = 1 }},
		{"zero partition", func(l *Level) { l.Nodes[1].DX, l.Nodes[1].DY = 0, 0 }},
		{"backwards one-sided", func(l *Level) { l.Segments[0].Direction = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lvl := DemoLevel()
			tt.mutate(lvl)
			err := lvl.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrMalformedLevel) {
				t.Errorf("error %v does not wrap ErrMalformedLevel", err)
			}
		})
	}
}

const singleRoomYAML = `
name: BOX
vertices: [[0, 0], [0, 128], [128, 128], [128, 0]]
sectors:
  - {floor: 8, ceil: 72, light: 144, floor_tex: FLAT1, ceil_tex: F_SKY1}
sidedefs:
  - {sector: 0, middle: STONE2}
  - {sector: 0, middle: STONE2}
  - {sector: 0, middle: STONE2}
  - {sector: 0, middle: STONE2, x_offset: 16}
linedefs:
  - {start: 0, end: 1, flags: 1, front: 0}
  - {start: 1, end: 2, flags: 1, front: 1}
  - {start: 2, end: 3, flags: 1, front: 2}
  - {start: 3, end: 0, flags: 1, front: 3}
segments:
  - {start: 0, end: 1, linedef: 0}
  - {start: 1, end: 2, linedef: 1}
  - {start: 2, end: 3, linedef: 2}
  - {start: 3, end: 0, linedef: 3}
subsectors:
  - {first: 0, count: 4}
things:
  - {x: 64, y: 64, angle: 90, type: 1}
`

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel([]byte(singleRoomYAML))
	if err != nil {
		t.Fatalf("ParseLevel: %v", err)
	}
	if lvl.Name != "BOX" {
		t.Errorf("name = %q", lvl.Name)
	}
	if lvl.RootNode() != SubSectorID(0) {
		t.Errorf("node-less level should root at sub-sector 0, got %#x", lvl.RootNode())
	}
	if lvl.Sidedefs[0].UpperTexture != NoTexture {
		t.Errorf("missing upper texture should become %q, got %q", NoTexture, lvl.Sidedefs[0].UpperTexture)
	}
	if lvl.Sidedefs[3].XOffset != 16 {
		t.Errorf("x_offset not decoded")
	}
	if !lvl.Segments[1].Solid() {
		t.Error("segments without back sidedef must be solid")
	}
	if lvl.Segments[1].V2 != (Vec2{128, 128}) {
		t.Errorf("segment 1 not resolved: %+v", lvl.Segments[1])
	}
	if lvl.Sectors[0].FloorHeight != 8 || lvl.Sectors[0].CeilTexture != "F_SKY1" {
		t.Errorf("sector decoded as %+v", lvl.Sectors[0])
	}
}

func TestParseLevelRejectsBrokenReferences(t *testing.T) {
	_, err := ParseLevel([]byte(`
vertices: [[0, 0], [0, 1]]
sectors: [{floor: 0, ceil: 1}]
sidedefs: [{sector: 3}]
linedefs: [{start: 0, end: 1, front: 0}]
segments: [{start: 0, end: 1, linedef: 0}]
subsectors: [{first: 0, count: 1}]
`))
	if !errors.Is(err, ErrMalformedLevel) {
		t.Errorf("expected ErrMalformedLevel, got %v", err)
	}
}

func TestBBoxContains(t *testing.T) {
	b := BBox{Top: 10, Bottom: 0, Left: -5, Right: 5}
	if !b.Contains(Vec2{0, 5}) || !b.Contains(Vec2{5, 10}) {
		t.Error("points inside or on the edge should be contained")
	}
	if b.Contains(Vec2{6, 5}) || b.Contains(Vec2{0, -1}) {
		t.Error("points outside should not be contained")
	}
}

func TestLoadShippedLevel(t *testing.T) {
	lvl, err := LoadLevel("../../assets/maps/box.yaml")
	if err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	if lvl.Name != "BOX" || len(lvl.Things) != 2 {
		t.Errorf("Expected BOX with 2 things, got %q with %d", lvl.Name, len(lvl.Things))
	}
	if _, ok := lvl.PlayerStart(); !ok {
		t.Error("Expected a player start")
	}
}
