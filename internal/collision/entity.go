package collision

import (
	"strconv"

	"doomcore/internal/geometry"
)

// Entity is a solid round map object the mover must not walk into.
type Entity struct {
	ID     string
	Pos    geometry.Vec2
	Radius float64
	Solid  bool
}

// NewEntity creates a collision entity.
func NewEntity(id string, pos geometry.Vec2, radius float64, solid bool) *Entity {
	return &Entity{ID: id, Pos: pos, Radius: radius, Solid: solid}
}

// Overlaps checks whether a circle at p intersects the entity.
func (e *Entity) Overlaps(p geometry.Vec2, radius float64) bool {
	r := e.Radius + radius
	return e.Pos.Sub(p).LenSq() < r*r
}

// DistanceToPoint returns the distance from the entity center to p.
func (e *Entity) DistanceToPoint(p geometry.Vec2) float64 {
	return e.Pos.Dist(p)
}

func thingID(index int) string {
	return "thing-" + strconv.Itoa(index)
}
