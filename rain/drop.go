package rain

import (
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/screwyforcepush/agentrain/event"
)

// Origin distinguishes background drops from drops spawned for a
// domain event. Event drops outrank ambient drops for pool capacity
type Origin uint8

const (
	OriginAmbient Origin = iota
	OriginEvent
)

// String returns the origin name
func (o Origin) String() string {
	if o == OriginEvent {
		return "event"
	}
	return "ambient"
}

// Cell is one glyph of a drop's trail
// Index 0 is the leading cell; brightness is in [0,1]
type Cell struct {
	Glyph      rune
	Brightness float64
	Index      int
	Leading    bool
}

// Drop is one falling glyph trail, the unit of simulation
// Owned exclusively by the Pool; the renderer only reads snapshots
type Drop struct {
	ID        uint64
	EventID   string // empty for ambient and manually added drops
	Kind      event.Kind
	Column    int
	Y         float64 // leading cell row, continuous
	Velocity  float64 // rows per second
	Age       time.Duration
	Cells     []Cell
	Color     colorful.Color
	Origin    Origin
	SpawnedAt time.Time
	UpdatedAt time.Time

	slot   int // pool slot index, fixed for the life of the pool
	active bool
	doomed bool
}

// Active reports whether the drop currently occupies a live slot
func (d *Drop) Active() bool {
	return d.active
}

// reset clears all mutable fields while keeping the slot index and the
// cell backing array for reuse
func (d *Drop) reset() {
	d.ID = 0
	d.EventID = ""
	d.Kind = event.KindUnknown
	d.Column = 0
	d.Y = 0
	d.Velocity = 0
	d.Age = 0
	d.Cells = d.Cells[:0]
	d.Color = colorful.Color{}
	d.Origin = OriginAmbient
	d.SpawnedAt = time.Time{}
	d.UpdatedAt = time.Time{}
	d.active = false
	d.doomed = false
}
