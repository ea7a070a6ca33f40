// Package door animates door sectors. Doors are created on first
// activation and keyed by the linedef that triggered them.
package door

import (
	"io"
	"log"
	"sort"
	"sync"

	"doomcore/internal/geometry"
)

var logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger routes door messages to l.
func SetLogger(l *log.Logger) {
	logger = l
}

// State is the animation state of a door.
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// Door raises and lowers the ceiling of the sector behind its linedef.
type Door struct {
	Linedef      int
	Sector       int
	TargetHeight float64
	ClosedHeight float64
	Speed        float64

	state State
}

// State returns the current animation state.
func (d *Door) State() State {
	return d.state
}

// IsOpen reports whether the door lets movers through.
func (d *Door) IsOpen() bool {
	return d.state == Open || d.state == Opening
}

// Toggle starts opening a shut door and closing an open one.
func (d *Door) Toggle() {
	switch d.state {
	case Open:
		d.state = Closing
	case Closed, Closing:
		d.state = Opening
	}
}

// update moves the ceiling one tick towards the current goal.
func (d *Door) update(sector *geometry.Sector) {
	switch d.state {
	case Opening:
		sector.CeilHeight = min(d.TargetHeight, sector.CeilHeight+d.Speed)
		if sector.CeilHeight >= d.TargetHeight {
			d.state = Open
			logger.Printf("door %d open", d.Linedef)
		}
	case Closing:
		sector.CeilHeight = max(d.ClosedHeight, sector.CeilHeight-d.Speed)
		if sector.CeilHeight <= d.ClosedHeight {
			d.state = Closed
			logger.Printf("door %d closed", d.Linedef)
		}
	}
}

// Status is a copy of a door's state for reporting.
type Status struct {
	Linedef      int     `json:"linedef"`
	Sector       int     `json:"sector"`
	State        string  `json:"state"`
	CeilHeight   float64 `json:"ceil_height"`
	TargetHeight float64 `json:"target_height"`
}

// Registry owns every door of a level. Sector ceilings are only changed
// from Update.
type Registry struct {
	mu    sync.RWMutex
	level *geometry.Level
	speed float64
	doors map[int]*Door
}

// NewRegistry creates an empty registry. speed is the ceiling movement
// per tick.
func NewRegistry(level *geometry.Level, speed float64) *Registry {
	return &Registry{
		level: level,
		speed: speed,
		doors: make(map[int]*Door),
	}
}

// Activate toggles the door behind a segment, creating it on first use.
// Later activations of the same linedef reuse the existing door. It
// returns nil for segments that do not belong to a two-sided door line.
func (r *Registry) Activate(segID int) *Door {
	seg := &r.level.Segments[segID]
	if !r.level.LinedefOf(seg).IsDoor() || seg.BackSector == geometry.NoSector {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	d, ok := r.doors[seg.Linedef]
	if !ok {
		back := r.level.BackSector(seg)
		d = &Door{
			Linedef:      seg.Linedef,
			Sector:       seg.BackSector,
			TargetHeight: r.level.FrontSector(seg).CeilHeight,
			ClosedHeight: back.CeilHeight,
			Speed:        r.speed,
		}
		r.doors[seg.Linedef] = d
		logger.Printf("door %d registered for sector %d", d.Linedef, d.Sector)
	}
	d.Toggle()
	logger.Printf("door %d %s", d.Linedef, d.state)
	return d
}

// Get returns the door bound to a linedef.
func (r *Registry) Get(linedef int) (*Door, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.doors[linedef]
	return d, ok
}

// Len returns the number of registered doors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.doors)
}

// IsOpen reports whether the door bound to a linedef is open or opening.
// Linedefs without a door are closed.
func (r *Registry) IsOpen(linedef int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.doors[linedef]
	return ok && d.IsOpen()
}

// Update advances every door by one tick.
func (r *Registry) Update() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.sortedIDs() {
		d := r.doors[id]
		d.update(&r.level.Sectors[d.Sector])
	}
}

// Snapshot returns the state of every door ordered by linedef.
func (r *Registry) Snapshot() []Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Status, 0, len(r.doors))
	for _, id := range r.sortedIDs() {
		d := r.doors[id]
		out = append(out, Status{
			Linedef:      d.Linedef,
			Sector:       d.Sector,
			State:        d.state.String(),
			CeilHeight:   r.level.Sectors[d.Sector].CeilHeight,
			TargetHeight: d.TargetHeight,
		})
	}
	return out
}

func (r *Registry) sortedIDs() []int {
	ids := make([]int, 0, len(r.doors))
	for id := range r.doors {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
