// Package player holds the viewer state and turns input into legal
// movement through the collision system.
package player

import (
	"math"

	"doomcore/internal/bsp"
	"doomcore/internal/door"
	"doomcore/internal/fov"
	"doomcore/internal/geometry"
	"doomcore/internal/mathutil"
)

// ID is the collision id of the player.
const ID = "player"

var diagonalCorrection = 1 / math.Sqrt2

// Mover resolves an attempted move against walls and things.
type Mover interface {
	Resolve(moverID string, pos, move geometry.Vec2, radius float64) geometry.Vec2
}

// FloorLocator returns the floor height under a point.
type FloorLocator interface {
	LeafContaining(p geometry.Vec2) float64
}

// RayCaster finds the nearest wall along a ray.
type RayCaster interface {
	CastRay(origin, dir geometry.Vec2, maxDistance float64) (bsp.RayHit, bool)
}

// Input is one tick of movement intent. Values are in [-1, 1].
type Input struct {
	Forward float64
	Strafe  float64 // positive is right
	Turn    float64 // positive is left
}

// Player is the viewer.
type Player struct {
	Pos       geometry.Vec2
	Angle     float64 // degrees in [0, 360)
	Height    float64 // eye height above z=0
	EyeHeight float64 // eye height above the floor
	Radius    float64

	Speed    float64 // units per millisecond
	RotSpeed float64 // degrees per millisecond
}

// New places a player at a start thing.
func New(start geometry.Thing, eyeHeight, radius, speed, rotSpeed float64) *Player {
	return &Player{
		Pos:       start.Pos,
		Angle:     mathutil.NormDeg(start.Angle),
		Height:    eyeHeight,
		EyeHeight: eyeHeight,
		Radius:    radius,
		Speed:     speed,
		RotSpeed:  rotSpeed,
	}
}

// View returns the state the renderer needs.
func (p *Player) View() fov.View {
	return fov.View{Pos: p.Pos, Angle: p.Angle}
}

// Direction is the unit vector the player faces.
func (p *Player) Direction() geometry.Vec2 {
	rad := mathutil.DegToRad(p.Angle)
	return geometry.Vec2{X: math.Cos(rad), Y: math.Sin(rad)}
}

// Rotate turns the player by deg degrees counter-clockwise.
func (p *Player) Rotate(deg float64) {
	p.Angle = mathutil.NormDeg(p.Angle + deg)
}

// Step applies one tick of input lasting dt milliseconds.
func (p *Player) Step(in Input, dt float64, mover Mover, floors FloorLocator) {
	if in.Turn != 0 {
		p.Rotate(in.Turn * p.RotSpeed * dt)
	}

	forward, strafe := in.Forward, in.Strafe
	if forward != 0 && strafe != 0 {
		forward *= diagonalCorrection
		strafe *= diagonalCorrection
	}
	if forward != 0 || strafe != 0 {
		dir := p.Direction()
		right := geometry.Vec2{X: dir.Y, Y: -dir.X}
		move := dir.Scale(forward).Add(right.Scale(strafe)).Scale(p.Speed * dt)
		p.Pos = mover.Resolve(ID, p.Pos, move, p.Radius)
	}

	p.UpdateHeight(floors)
}

// UpdateHeight puts the eye at EyeHeight above the floor under the player.
func (p *Player) UpdateHeight(floors FloorLocator) {
	p.Height = floors.LeafContaining(p.Pos) + p.EyeHeight
}

// FindActivatableSurface casts along the facing direction out to
// maxDistance. A door line hit within reach is activated in doors; the
// returned door is nil for any other wall.
func (p *Player) FindActivatableSurface(caster RayCaster, doors *door.Registry, maxDistance float64) (bsp.RayHit, *door.Door, bool) {
	hit, ok := caster.CastRay(p.Pos, p.Direction(), maxDistance)
	if !ok {
		return bsp.RayHit{}, nil, false
	}
	return hit, doors.Activate(hit.SegID), true
}
