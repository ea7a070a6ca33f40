package geometry

import "math"

// SubSectorBit marks a BSP child id as a sub-sector rather than a node.
const SubSectorBit = 0x8000

const (
	// NoSide marks an absent sidedef on a linedef.
	NoSide = -1
	// NoSector marks the missing back sector of a one-sided segment.
	NoSector = -1
)

// NoTexture is the texture name that disables drawing of a wall part.
const NoTexture = "-"

// Line types understood by the core.
const (
	LineNormal = 0
	LineDoor   = 1
)

// Linedef flags.
const (
	FlagBlocking      = 1
	FlagBlockMonsters = 2
	FlagTwoSided      = 4
	FlagDontPegTop    = 8
	FlagDontPegBottom = 16
)

// Vec2 is a point or direction in map space.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Dot(o Vec2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross returns the z component of the 3D cross product.
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }

func (v Vec2) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec2) Len() float64 { return math.Sqrt(v.LenSq()) }

// Dist returns the euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Normalize returns a unit vector, or the zero vector for zero input.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Sector is a region with uniform floor and ceiling.
type Sector struct {
	FloorHeight  float64
	CeilHeight   float64
	FloorTexture string
	CeilTexture  string
	LightLevel   int
}

// Sidedef holds the textures of one side of a linedef.
type Sidedef struct {
	XOffset       float64
	YOffset       float64
	UpperTexture  string
	LowerTexture  string
	MiddleTexture string
	Sector        int
}

// Linedef is a wall line between two vertices.
type Linedef struct {
	Start, End int
	Flags      int
	LineType   int
	Front      int // sidedef index
	Back       int // sidedef index or NoSide
}

// TwoSided reports whether the linedef has a back sidedef.
func (l *Linedef) TwoSided() bool { return l.Back != NoSide }

// IsDoor reports whether activating the linedef operates a door.
func (l *Linedef) IsDoor() bool { return l.LineType == LineDoor }

// Segment is a directed piece of a linedef bounding one sub-sector.
type Segment struct {
	StartVertex int
	EndVertex   int
	Linedef     int
	Direction   int // 0 same as linedef, 1 opposite

	// Resolved by Level.Resolve.
	V1, V2      Vec2
	Offset      float64 // distance along the linedef to V1
	Angle       float64 // degrees
	FrontSector int
	BackSector  int
	Side        int // sidedef facing the front sector
}

// Solid reports whether the segment has no back sector.
func (s *Segment) Solid() bool { return s.BackSector == NoSector }

// SubSector is a convex leaf made of a contiguous run of segments.
type SubSector struct {
	FirstSeg int
	SegCount int
}

// BBox is an axis aligned box.
type BBox struct {
	Top, Bottom, Left, Right float64
}

// Contains reports whether p lies in the closed box.
func (b BBox) Contains(p Vec2) bool {
	return p.X >= b.Left && p.X <= b.Right && p.Y >= b.Bottom && p.Y <= b.Top
}

// Node is an interior BSP node. The front child lies right of the
// partition direction.
type Node struct {
	X, Y       float64
	DX, DY     float64
	FrontBox   BBox
	BackBox    BBox
	FrontChild int
	BackChild  int
}

// Thing is a map object placement.
type Thing struct {
	Pos    Vec2
	Angle  float64
	Type   int
	Sprite string
	Height float64
	Radius float64
	Solid  bool
}

// Thing type of the single player start.
const ThingPlayerStart = 1
