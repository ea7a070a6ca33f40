package geometry

import (
	"errors"
	"fmt"
	"math"

	"doomcore/internal/mathutil"
)

// ErrMalformedLevel is wrapped by every Validate failure.
var ErrMalformedLevel = errors.New("malformed level")

// Level owns the tables of one loaded map. Everything except sector
// ceiling heights is read-only after Resolve.
type Level struct {
	Name       string
	Vertices   []Vec2
	Sectors    []Sector
	Sidedefs   []Sidedef
	Linedefs   []Linedef
	Segments   []Segment
	SubSectors []SubSector
	Nodes      []Node
	Things     []Thing
}

// IsSubSector reports whether a BSP child id names a sub-sector.
func IsSubSector(id int) bool {
	return id >= SubSectorBit
}

// SubSectorIndex strips the sub-sector marker from a child id.
func SubSectorIndex(id int) int {
	return id - SubSectorBit
}

// SubSectorID marks a sub-sector index as a BSP child id.
func SubSectorID(index int) int {
	return index | SubSectorBit
}

// RootNode returns the id the BSP walk starts at. A level without nodes
// consists of a single sub-sector.
func (l *Level) RootNode() int {
	if len(l.Nodes) == 0 {
		return SubSectorID(0)
	}
	return len(l.Nodes) - 1
}

// FrontSector returns the sector in front of seg.
func (l *Level) FrontSector(seg *Segment) *Sector {
	return &l.Sectors[seg.FrontSector]
}

// BackSector returns the sector behind seg or nil for solid walls.
func (l *Level) BackSector(seg *Segment) *Sector {
	if seg.BackSector == NoSector {
		return nil
	}
	return &l.Sectors[seg.BackSector]
}

// SideOf returns the sidedef facing the front of seg.
func (l *Level) SideOf(seg *Segment) *Sidedef {
	return &l.Sidedefs[seg.Side]
}

// LinedefOf returns the linedef seg was split from.
func (l *Level) LinedefOf(seg *Segment) *Linedef {
	return &l.Linedefs[seg.Linedef]
}

// SubSectorSegments returns the segment ids of one sub-sector.
func (l *Level) SubSectorSegments(index int) (first, count int) {
	ss := l.SubSectors[index]
	return ss.FirstSeg, ss.SegCount
}

// PlayerStart returns the first player start thing, if any.
func (l *Level) PlayerStart() (Thing, bool) {
	for _, th := range l.Things {
		if th.Type == ThingPlayerStart {
			return th, true
		}
	}
	return Thing{}, false
}

// Resolve fills the derived segment fields from the vertex, linedef and
// sidedef tables. It must run after Validate succeeds.
func (l *Level) Resolve() {
	for i := range l.Segments {
		seg := &l.Segments[i]
		line := &l.Linedefs[seg.Linedef]
		seg.V1 = l.Vertices[seg.StartVertex]
		seg.V2 = l.Vertices[seg.EndVertex]
		d := seg.V2.Sub(seg.V1)
		seg.Angle = mathutil.NormDeg(mathutil.RadToDeg(math.Atan2(d.Y, d.X)))

		front, back := line.Front, line.Back
		origin := l.Vertices[line.Start]
		if seg.Direction != 0 {
			front, back = back, front
			origin = l.Vertices[line.End]
		}
		seg.Offset = origin.Dist(seg.V1)
		seg.Side = front
		seg.FrontSector = l.Sidedefs[front].Sector
		if back == NoSide {
			seg.BackSector = NoSector
		} else {
			seg.BackSector = l.Sidedefs[back].Sector
		}
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedLevel, fmt.Sprintf(format, args...))
}

// Validate checks every cross reference, the sub-sector tiling and the
// shape of the node graph.
func (l *Level) Validate() error {
	if len(l.SubSectors) == 0 {
		return malformed("no sub-sectors")
	}
	for i, sd := range l.Sidedefs {
		if sd.Sector < 0 || sd.Sector >= len(l.Sectors) {
			return malformed("sidedef %d references sector %d", i, sd.Sector)
		}
	}
	for i, ld := range l.Linedefs {
		if !l.validVertex(ld.Start) || !l.validVertex(ld.End) {
			return malformed("linedef %d references missing vertex", i)
		}
		if ld.Front < 0 || ld.Front >= len(l.Sidedefs) {
			return malformed("linedef %d has no front sidedef", i)
		}
		if ld.Back != NoSide && (ld.Back < 0 || ld.Back >= len(l.Sidedefs)) {
			return malformed("linedef %d references sidedef %d", i, ld.Back)
		}
	}
	for i, seg := range l.Segments {
		if !l.validVertex(seg.StartVertex) || !l.validVertex(seg.EndVertex) {
			return malformed("segment %d references missing vertex", i)
		}
		if seg.Linedef < 0 || seg.Linedef >= len(l.Linedefs) {
			return malformed("segment %d references linedef %d", i, seg.Linedef)
		}
		if seg.Direction != 0 && !l.Linedefs[seg.Linedef].TwoSided() {
			return malformed("segment %d runs backwards along one-sided linedef %d", i, seg.Linedef)
		}
	}
	if err := l.validateTiling(); err != nil {
		return err
	}
	return l.validateNodes()
}

func (l *Level) validVertex(i int) bool {
	return i >= 0 && i < len(l.Vertices)
}

func (l *Level) validateTiling() error {
	covered := make([]bool, len(l.Segments))
	for i, ss := range l.SubSectors {
		if ss.SegCount <= 0 {
			return malformed("sub-sector %d is empty", i)
		}
		if ss.FirstSeg < 0 || ss.FirstSeg+ss.SegCount > len(l.Segments) {
			return malformed("sub-sector %d segment range out of bounds", i)
		}
		for s := ss.FirstSeg; s < ss.FirstSeg+ss.SegCount; s++ {
			if covered[s] {
				return malformed("segment %d belongs to more than one sub-sector", s)
			}
			covered[s] = true
		}
	}
	for s, ok := range covered {
		if !ok {
			return malformed("segment %d belongs to no sub-sector", s)
		}
	}
	return nil
}

// validateNodes requires the graph reachable from the root to be a tree
// covering every node and every sub-sector exactly once.
func (l *Level) validateNodes() error {
	if len(l.Nodes) == 0 {
		if len(l.SubSectors) != 1 {
			return malformed("%d sub-sectors but no nodes", len(l.SubSectors))
		}
		return nil
	}
	seenNode := make([]bool, len(l.Nodes))
	seenLeaf := make([]bool, len(l.SubSectors))
	stack := []int{l.RootNode()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if IsSubSector(id) {
			idx := SubSectorIndex(id)
			if idx < 0 || idx >= len(l.SubSectors) {
				return malformed("child references sub-sector %d", idx)
			}
			if seenLeaf[idx] {
				return malformed("sub-sector %d reached twice", idx)
			}
			seenLeaf[idx] = true
			continue
		}
		if id < 0 || id >= len(l.Nodes) {
			return malformed("child references node %d", id)
		}
		if seenNode[id] {
			return malformed("node %d reached twice", id)
		}
		seenNode[id] = true
		n := l.Nodes[id]
		if n.DX == 0 && n.DY == 0 {
			return malformed("node %d has a zero partition vector", id)
		}
		stack = append(stack, n.FrontChild, n.BackChild)
	}
	for i, ok := range seenNode {
		if !ok {
			return malformed("node %d unreachable from root", i)
		}
	}
	for i, ok := range seenLeaf {
		if !ok {
			return malformed("sub-sector %d unreachable from root", i)
		}
	}
	return nil
}
