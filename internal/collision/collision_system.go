package collision

import (
	"sort"

	"doomcore/internal/geometry"
)

// Sweeper finds wall segments within a radius of a point.
type Sweeper interface {
	CollectSegmentsNear(p geometry.Vec2, radius float64) []int
}

// DoorState reports whether the door bound to a linedef is open or opening.
type DoorState interface {
	IsOpen(linedef int) bool
}

// closedDoors is used when no door registry is attached.
type closedDoors struct{}

func (closedDoors) IsOpen(int) bool { return false }

// CollisionSystem resolves movement against level walls and solid things.
type CollisionSystem struct {
	level      *geometry.Level
	sweeper    Sweeper
	doors      DoorState
	thresholds Thresholds
	entities   map[string]*Entity
	maxRadius  float64 // largest registered entity radius
}

// NewCollisionSystem creates a collision system over a validated level.
func NewCollisionSystem(level *geometry.Level, sweeper Sweeper, thresholds Thresholds) *CollisionSystem {
	return &CollisionSystem{
		level:      level,
		sweeper:    sweeper,
		doors:      closedDoors{},
		thresholds: thresholds,
		entities:   make(map[string]*Entity),
	}
}

// SetDoorState attaches the door lookup used to classify door linedefs.
func (cs *CollisionSystem) SetDoorState(doors DoorState) {
	if doors == nil {
		doors = closedDoors{}
	}
	cs.doors = doors
}

// RegisterEntity adds an entity to the collision system
func (cs *CollisionSystem) RegisterEntity(entity *Entity) {
	cs.entities[entity.ID] = entity
	cs.maxRadius = max(cs.maxRadius, entity.Radius)
}

// RegisterThings adds every solid thing of the level as an entity.
func (cs *CollisionSystem) RegisterThings(things []geometry.Thing) {
	for i, th := range things {
		if !th.Solid || th.Radius <= 0 {
			continue
		}
		cs.RegisterEntity(NewEntity(thingID(i), th.Pos, th.Radius, true))
	}
}

// ClassifySegment classifies a wall for a mover standing at pos.
func (cs *CollisionSystem) ClassifySegment(segID int, pos geometry.Vec2) WallType {
	seg := &cs.level.Segments[segID]
	front := cs.level.FrontSector(seg)
	back := cs.level.BackSector(seg)
	if back == nil {
		return WallSolid
	}
	from, to := front, back
	if seg.V2.Sub(seg.V1).Cross(pos.Sub(seg.V1)) > 0 {
		from, to = back, front
	}
	return Classify(cs.level.LinedefOf(seg), from, to, cs.doors.IsOpen(seg.Linedef), cs.thresholds)
}

// blockingWall returns the first wall near target that blocks a mover
// coming from pos, or -1.
func (cs *CollisionSystem) blockingWall(pos, target geometry.Vec2, radius float64) int {
	for _, id := range cs.sweeper.CollectSegmentsNear(target, radius) {
		if cs.ClassifySegment(id, pos).Blocks() {
			return id
		}
	}
	return -1
}

func (cs *CollisionSystem) blockingEntity(moverID string, target geometry.Vec2, radius float64) *Entity {
	for _, entity := range cs.GetNearbyEntities(target, radius+cs.maxRadius, moverID) {
		if entity.Solid && entity.Overlaps(target, radius) {
			return entity
		}
	}
	return nil
}

// CanMoveTo checks if a mover of the given radius standing at pos can
// occupy target.
func (cs *CollisionSystem) CanMoveTo(moverID string, pos, target geometry.Vec2, radius float64) bool {
	return cs.blockingWall(pos, target, radius) < 0 && cs.blockingEntity(moverID, target, radius) == nil
}

// Resolve applies move to pos. A blocking wall turns the move into a
// slide along the wall; if the slide is blocked as well the mover stays
// in place. Solid entities stop the move outright.
func (cs *CollisionSystem) Resolve(moverID string, pos, move geometry.Vec2, radius float64) geometry.Vec2 {
	target := pos.Add(move)
	if cs.blockingEntity(moverID, target, radius) != nil {
		return pos
	}
	wall := cs.blockingWall(pos, target, radius)
	if wall < 0 {
		return target
	}

	seg := &cs.level.Segments[wall]
	tangent := seg.V2.Sub(seg.V1).Normalize()
	slid := pos.Add(tangent.Scale(move.Dot(tangent)))
	if !cs.CanMoveTo(moverID, pos, slid, radius) {
		return pos
	}
	return slid
}

// GetNearbyEntities returns entities within a certain distance of a point,
// sorted by ID.
func (cs *CollisionSystem) GetNearbyEntities(p geometry.Vec2, radius float64, excludeID string) []*Entity {
	var nearby []*Entity
	for id, entity := range cs.entities {
		if id == excludeID {
			continue
		}
		if entity.DistanceToPoint(p) <= radius {
			nearby = append(nearby, entity)
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].ID < nearby[j].ID })
	return nearby
}
