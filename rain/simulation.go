package rain

import (
	"math"
	"math/rand"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/screwyforcepush/agentrain/event"
	"github.com/screwyforcepush/agentrain/parameter"
)

// Params are the simulation tunables resolved from configuration
type Params struct {
	SpeedMin    float64 // rows per second
	SpeedMax    float64
	SpawnRate   float64 // ambient spawns per second
	Charset     []rune
	TrailLength int
	Columns     int
	Rows        int
	BaseColor   colorful.Color
	AccentColor colorful.Color
}

// Simulation advances drop state per elapsed time and applies the
// spawn policy. It mutates drops only through the pool's operations
type Simulation struct {
	pool *Pool
	p    Params
	rng  *rand.Rand

	trailLength int // quality-adjusted, starts at p.TrailLength
	released    uint64
	spawnedAmb  uint64
}

// NewSimulation creates a simulation over the given pool
func NewSimulation(pool *Pool, p Params, rng *rand.Rand) *Simulation {
	if p.TrailLength < 2 {
		p.TrailLength = 2
	}
	if len(p.Charset) == 0 {
		p.Charset = []rune{'?'}
	}
	return &Simulation{
		pool:        pool,
		p:           p,
		rng:         rng,
		trailLength: p.TrailLength,
	}
}

// Step advances every active drop by dt and runs the ambient spawn
// gate. dt is clamped so a resumed terminal never teleports drops
func (s *Simulation) Step(now time.Time, dt time.Duration) {
	if dt <= 0 {
		return
	}
	if dt > parameter.MaxStep {
		dt = parameter.MaxStep
	}
	secs := dt.Seconds()
	bottom := float64(s.p.Rows) + parameter.ReleaseMargin

	s.pool.forEachActive(func(d *Drop) {
		d.Y += d.Velocity * secs
		d.Age += dt
		d.UpdatedAt = now

		if s.rng.Float64() < parameter.GlyphShuffleChance {
			d.Cells[0].Glyph = s.randGlyph()
		}

		ageSecs := d.Age.Seconds()
		for j := range d.Cells {
			d.Cells[j].Brightness = cellBrightness(j, ageSecs)
		}

		// Off bounds once the tail clears bottom-plus-margin
		if d.Y-float64(len(d.Cells)) > bottom {
			d.doomed = true
		}
		// Fully faded drops release even while on screen
		if d.Cells[0].Brightness < parameter.MinBrightness {
			d.doomed = true
		}
	})

	s.released += uint64(s.pool.releaseDoomed())

	if s.p.SpawnRate > 0 {
		expected := secs * s.p.SpawnRate
		n := int(expected)
		if s.rng.Float64() < expected-float64(n) {
			n++
		}
		for i := 0; i < n; i++ {
			if s.SpawnAmbient(now) == nil {
				break // capacity exhausted, ambient requests just drop
			}
		}
	}
}

// cellBrightness is the deterministic decay formula: exponential in
// trail index and in drop age. Not physically modeled
func cellBrightness(index int, ageSecs float64) float64 {
	return math.Exp(-parameter.TrailFalloff*float64(index) - parameter.AgeDecay*ageSecs)
}

// SpawnAmbient requests an ambient drop. Returns nil when capacity
// does not allow it; ambient spawns never evict
func (s *Simulation) SpawnAmbient(now time.Time) *Drop {
	d, ok := s.pool.Acquire(now)
	if !ok {
		return nil
	}
	s.initDrop(d, OriginAmbient, now)
	s.spawnedAmb++
	return d
}

// SpawnEvent requests an event-driven drop, evicting the oldest
// ambient drop when the pool is exhausted. Returns nil only when the
// pool is saturated with event drops
func (s *Simulation) SpawnEvent(now time.Time, eventID string, kind event.Kind) *Drop {
	d, ok := s.pool.Acquire(now)
	if !ok {
		if !s.pool.EvictOldestAmbient() {
			return nil
		}
		d, ok = s.pool.Acquire(now)
		if !ok {
			return nil
		}
	}
	s.initDrop(d, OriginEvent, now)
	d.EventID = eventID
	d.Kind = kind
	d.Color = s.p.AccentColor
	return d
}

func (s *Simulation) initDrop(d *Drop, origin Origin, now time.Time) {
	d.Origin = origin
	d.Column = s.pool.PickColumn(now)
	s.pool.MarkColumn(d.Column, now)
	d.Y = 0
	d.Velocity = s.p.SpeedMin + s.rng.Float64()*(s.p.SpeedMax-s.p.SpeedMin)
	d.Age = 0
	d.SpawnedAt = now
	d.UpdatedAt = now
	d.Color = s.p.BaseColor

	n := s.trailLength
	if cap(d.Cells) < n {
		d.Cells = make([]Cell, n)
	} else {
		d.Cells = d.Cells[:n]
	}
	for j := 0; j < n; j++ {
		d.Cells[j] = Cell{
			Glyph:      s.randGlyph(),
			Brightness: cellBrightness(j, 0),
			Index:      j,
			Leading:    j == 0,
		}
	}
	s.pool.activate(d)
}

func (s *Simulation) randGlyph() rune {
	return s.p.Charset[s.rng.Intn(len(s.p.Charset))]
}

// SetTrailLength applies a quality-adjusted trail length. Existing
// drops are truncated immediately; grown trails apply to new spawns
func (s *Simulation) SetTrailLength(n int) {
	if n < 2 {
		n = 2
	}
	if n > s.p.TrailLength {
		n = s.p.TrailLength
	}
	s.trailLength = n
	s.pool.forEachActive(func(d *Drop) {
		if len(d.Cells) > n {
			d.Cells = d.Cells[:n]
		}
	})
}

// TrailLength returns the current quality-adjusted trail length
func (s *Simulation) TrailLength() int {
	return s.trailLength
}

// Resize recomputes the column layout for new grid bounds. Active
// drops keep their column index; positions are clamped into the new
// bounds instead of destroying the drop
func (s *Simulation) Resize(cols, rows int) {
	s.p.Columns = cols
	s.p.Rows = rows
	s.pool.ResizeColumns(cols)
	bottom := float64(rows) + parameter.ReleaseMargin
	s.pool.forEachActive(func(d *Drop) {
		if d.Y > bottom {
			d.Y = bottom
		}
	})
}

// Bounds returns the current grid bounds in columns and rows
func (s *Simulation) Bounds() (cols, rows int) {
	return s.p.Columns, s.p.Rows
}

// Released returns the total drops released by the step sweep
func (s *Simulation) Released() uint64 {
	return s.released
}
