package geometry

// Sector indices of the demo level.
const (
	DemoRoomA = 0
	DemoRoomB = 1
	DemoDoor  = 2
)

// DemoLevel builds a small hand-partitioned map: room A (x 0..256) joined
// to room B (x 288..544, open sky, floor 16) by a closed door sector
// (x 256..288, y 96..160). Two nodes split the map along x=256 and x=288.
func DemoLevel() *Level {
	lvl := &Level{
		Name: "DEMO1",
		Vertices: []Vec2{
			{0, 0}, {0, 256}, {256, 256}, {256, 160}, {256, 96}, {256, 0},
			{288, 160}, {288, 96}, {288, 0}, {288, 256}, {544, 256}, {544, 0},
		},
		Sectors: []Sector{
			DemoRoomA: {FloorHeight: 0, CeilHeight: 128, FloorTexture: "FLOOR4_8", CeilTexture: "CEIL3_5", LightLevel: 192},
			DemoRoomB: {FloorHeight: 16, CeilHeight: 200, FloorTexture: "FLOOR5_1", CeilTexture: "F_SKY1", LightLevel: 255},
			DemoDoor:  {FloorHeight: 0, CeilHeight: 0, FloorTexture: "FLAT20", CeilTexture: "FLAT20", LightLevel: 160},
		},
		Sidedefs: []Sidedef{
			{Sector: DemoRoomA, MiddleTexture: "STARTAN3", UpperTexture: NoTexture, LowerTexture: NoTexture},   // 0
			{Sector: DemoRoomA, MiddleTexture: "STARTAN3", UpperTexture: NoTexture, LowerTexture: NoTexture},   // 1
			{Sector: DemoRoomA, MiddleTexture: "STARTAN3", UpperTexture: NoTexture, LowerTexture: NoTexture},   // 2
			{Sector: DemoRoomA, MiddleTexture: NoTexture, UpperTexture: "BIGDOOR2", LowerTexture: NoTexture},   // 3
			{Sector: DemoDoor, MiddleTexture: NoTexture, UpperTexture: NoTexture, LowerTexture: NoTexture},     // 4
			{Sector: DemoRoomA, MiddleTexture: "STARTAN3", UpperTexture: NoTexture, LowerTexture: NoTexture},   // 5
			{Sector: DemoRoomA, MiddleTexture: "STARTAN3", UpperTexture: NoTexture, LowerTexture: NoTexture},   // 6
			{Sector: DemoDoor, MiddleTexture: "DOORTRAK", UpperTexture: NoTexture, LowerTexture: NoTexture},    // 7
			{Sector: DemoDoor, MiddleTexture: NoTexture, UpperTexture: NoTexture, LowerTexture: "STEP1"},       // 8
			{Sector: DemoRoomB, MiddleTexture: NoTexture, UpperTexture: "BIGDOOR2", LowerTexture: NoTexture},   // 9
			{Sector: DemoDoor, MiddleTexture: "DOORTRAK", UpperTexture: NoTexture, LowerTexture: NoTexture},    // 10
			{Sector: DemoRoomB, MiddleTexture: "BROWN1", UpperTexture: NoTexture, LowerTexture: NoTexture},     // 11
			{Sector: DemoRoomB, MiddleTexture: "BROWN1", UpperTexture: NoTexture, LowerTexture: NoTexture},     // 12
			{Sector: DemoRoomB, MiddleTexture: "BROWN1", UpperTexture: NoTexture, LowerTexture: NoTexture},     // 13
			{Sector: DemoRoomB, MiddleTexture: "BROWN1", UpperTexture: NoTexture, LowerTexture: NoTexture},     // 14
			{Sector: DemoRoomB, MiddleTexture: "BROWN1", UpperTexture: NoTexture, LowerTexture: NoTexture},     // 15
		},
		Linedefs: []Linedef{
			{Start: 0, End: 1, Flags: FlagBlocking, Front: 0, Back: NoSide},                        // 0  A west
			{Start: 1, End: 2, Flags: FlagBlocking, Front: 1, Back: NoSide},                        // 1  A north
			{Start: 2, End: 3, Flags: FlagBlocking, Front: 2, Back: NoSide},                        // 2  A east, upper part
			{Start: 3, End: 4, Flags: FlagTwoSided, LineType: LineDoor, Front: 3, Back: 4},        // 3  A/door
			{Start: 4, End: 5, Flags: FlagBlocking, Front: 5, Back: NoSide},                        // 4  A east, lower part
			{Start: 5, End: 0, Flags: FlagBlocking, Front: 6, Back: NoSide},                        // 5  A south
			{Start: 3, End: 6, Flags: FlagBlocking | FlagDontPegBottom, Front: 7, Back: NoSide},   // 6  door track north
			{Start: 6, End: 7, Flags: FlagTwoSided, LineType: LineDoor, Front: 8, Back: 9},        // 7  door/B
			{Start: 7, End: 4, Flags: FlagBlocking | FlagDontPegBottom, Front: 10, Back: NoSide},  // 8  door track south
			{Start: 8, End: 7, Flags: FlagBlocking, Front: 11, Back: NoSide},                       // 9  B west, lower part
			{Start: 6, End: 9, Flags: FlagBlocking, Front: 12, Back: NoSide},                       // 10 B west, upper part
			{Start: 9, End: 10, Flags: FlagBlocking, Front: 13, Back: NoSide},                      // 11 B north
			{Start: 10, End: 11, Flags: FlagBlocking, Front: 14, Back: NoSide},                     // 12 B east
			{Start: 11, End: 8, Flags: FlagBlocking, Front: 15, Back: NoSide},                      // 13 B south
		},
		Segments: []Segment{
			// room A
			{StartVertex: 0, EndVertex: 1, Linedef: 0},
			{StartVertex: 1, EndVertex: 2, Linedef: 1},
			{StartVertex: 2, EndVertex: 3, Linedef: 2},
			{StartVertex: 3, EndVertex: 4, Linedef: 3},
			{StartVertex: 4, EndVertex: 5, Linedef: 4},
			{StartVertex: 5, EndVertex: 0, Linedef: 5},
			// door
			{StartVertex: 4, EndVertex: 3, Linedef: 3, Direction: 1},
			{StartVertex: 3, EndVertex: 6, Linedef: 6},
			{StartVertex: 6, EndVertex: 7, Linedef: 7},
			{StartVertex: 7, EndVertex: 4, Linedef: 8},
			// room B
			{StartVertex: 8, EndVertex: 7, Linedef: 9},
			{StartVertex: 7, EndVertex: 6, Linedef: 7, Direction: 1},
			{StartVertex: 6, EndVertex: 9, Linedef: 10},
			{StartVertex: 9, EndVertex: 10, Linedef: 11},
			{StartVertex: 10, EndVertex: 11, Linedef: 12},
			{StartVertex: 11, EndVertex: 8, Linedef: 13},
		},
		SubSectors: []SubSector{
			{FirstSeg: 0, SegCount: 6},
			{FirstSeg: 6, SegCount: 4},
			{FirstSeg: 10, SegCount: 6},
		},
		Nodes: []Node{
			{
				X: 288, Y: 0, DX: 0, DY: 256,
				FrontBox:   BBox{Top: 256, Bottom: 0, Left: 288, Right: 544},
				BackBox:    BBox{Top: 160, Bottom: 96, Left: 256, Right: 288},
				FrontChild: SubSectorID(2),
				BackChild:  SubSectorID(1),
			},
			{
				X: 256, Y: 0, DX: 0, DY: 256,
				FrontBox:   BBox{Top: 256, Bottom: 0, Left: 256, Right: 544},
				BackBox:    BBox{Top: 256, Bottom: 0, Left: 0, Right: 256},
				FrontChild: 0,
				BackChild:  SubSectorID(0),
			},
		},
		Things: []Thing{
			{Pos: Vec2{64, 128}, Angle: 0, Type: ThingPlayerStart},
			{Pos: Vec2{416, 128}, Type: 2035, Sprite: "BAR1A0", Height: 32, Radius: 10, Solid: true},
			{Pos: Vec2{200, 200}, Type: 2028, Sprite: "COLUA0", Height: 48, Radius: 16, Solid: true},
		},
	}
	if err := lvl.Validate(); err != nil {
		panic(err)
	}
	lvl.Resolve()
	return lvl
}
