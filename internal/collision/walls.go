package collision

import "doomcore/internal/geometry"

// WallType is the movement class of one wall segment.
type WallType int

const (
	WallSolid WallType = iota
	WallDoor
	WallPassable
	WallImpassable
)

func (w WallType) String() string {
	switch w {
	case WallSolid:
		return "solid"
	case WallDoor:
		return "door"
	case WallPassable:
		return "passable"
	case WallImpassable:
		return "impassable"
	default:
		return "unknown"
	}
}

// Blocks reports whether a mover has to respond to the wall.
func (w WallType) Blocks() bool {
	return w == WallSolid || w == WallImpassable
}

// Thresholds are the height limits a mover can negotiate.
type Thresholds struct {
	MaxStepHeight float64
	MinRoomHeight float64
}

// Classify decides how a mover standing in sector from interacts with a
// wall leading into sector to. A nil to means a one-sided wall. Door
// linedefs ignore heights: open or opening is WallDoor, anything else
// WallSolid.
func Classify(line *geometry.Linedef, from, to *geometry.Sector, doorOpen bool, th Thresholds) WallType {
	if to == nil {
		return WallSolid
	}
	if line.IsDoor() {
		if doorOpen {
			return WallDoor
		}
		return WallSolid
	}

	step := to.FloorHeight - from.FloorHeight
	clearance := min(from.CeilHeight, to.CeilHeight) - max(from.FloorHeight, to.FloorHeight)
	if step <= th.MaxStepHeight && clearance >= th.MinRoomHeight {
		return WallPassable
	}
	return WallImpassable
}
