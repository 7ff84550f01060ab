package rain

import (
	"math/rand"
	"time"
)

// ReleaseHook observes drop releases before the slot is cleared
// Used by the sync adapter to retire event-id dedup entries
type ReleaseHook func(*Drop)

// Pool owns every drop slot. Slots are allocated once at construction
// and recycled; the pool never allocates past its capacity
//
// Not safe for concurrent use; all access happens on the frame loop
// under the engine lock
type Pool struct {
	slots   []Drop
	free    []int
	activeN int
	cap     int // current quality cap, never above len(slots)

	columns  []time.Time // last spawn per column, for cooldown
	cooldown time.Duration

	nextID    uint64
	rng       *rand.Rand
	onRelease ReleaseHook

	// Snapshot cache, rebuilt only when the active set changed
	dirty    bool
	snapshot []*Drop

	scratch []int // reused candidate buffer for column picking
}

// NewPool creates a pool with a fixed slot capacity and column layout
func NewPool(capacity, columns int, cooldown time.Duration, rng *rand.Rand) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	if columns < 1 {
		columns = 1
	}
	p := &Pool{
		slots:    make([]Drop, capacity),
		free:     make([]int, 0, capacity),
		cap:      capacity,
		columns:  make([]time.Time, columns),
		cooldown: cooldown,
		rng:      rng,
		snapshot: make([]*Drop, 0, capacity),
		scratch:  make([]int, 0, columns),
	}
	for i := range p.slots {
		p.slots[i].slot = i
		p.slots[i].Cells = make([]Cell, 0, 16)
	}
	// Free list is popped from the tail; fill reversed so low slots go first
	for i := capacity - 1; i >= 0; i-- {
		p.free = append(p.free, i)
	}
	return p
}

// SetReleaseHook registers the release observer. Must be set before
// the first spawn
func (p *Pool) SetReleaseHook(h ReleaseHook) {
	p.onRelease = h
}

// Capacity returns the hard slot ceiling
func (p *Pool) Capacity() int {
	return len(p.slots)
}

// Cap returns the current quality-imposed active cap
func (p *Pool) Cap() int {
	return p.cap
}

// Len returns the active drop count
func (p *Pool) Len() int {
	return p.activeN
}

// Acquire returns a recycled idle slot, or nil when the active count
// has reached the current cap or no idle slot remains. Callers
// requesting on behalf of a domain event should evict the oldest
// ambient drop and retry; ambient callers simply skip the spawn
func (p *Pool) Acquire(now time.Time) (*Drop, bool) {
	if p.activeN >= p.cap || len(p.free) == 0 {
		return nil, false
	}
	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	d := &p.slots[idx]
	p.nextID++
	d.ID = p.nextID
	d.active = false // armed by activate once initialized
	return d, true
}

// activate marks an acquired drop live. Split from Acquire so a drop
// is never observable half-initialized
func (p *Pool) activate(d *Drop) {
	d.active = true
	p.activeN++
	p.dirty = true
}

// Release returns the drop with the given id to the idle set
// Returns false if no active drop has that id. Releasing twice is a
// no-op by construction: the first release clears the id
func (p *Pool) Release(id uint64) bool {
	if id == 0 {
		return false
	}
	for i := range p.slots {
		if p.slots[i].active && p.slots[i].ID == id {
			p.releaseSlot(&p.slots[i])
			return true
		}
	}
	return false
}

func (p *Pool) releaseSlot(d *Drop) {
	if !d.active {
		return
	}
	if p.onRelease != nil {
		p.onRelease(d)
	}
	d.reset()
	p.free = append(p.free, d.slot)
	p.activeN--
	p.dirty = true
}

// releaseDoomed sweeps drops flagged during the simulation step
func (p *Pool) releaseDoomed() int {
	n := 0
	for i := range p.slots {
		if p.slots[i].active && p.slots[i].doomed {
			p.releaseSlot(&p.slots[i])
			n++
		}
	}
	return n
}

// EvictOldestAmbient releases the longest-lived ambient drop
// Returns false when no ambient drop is active
func (p *Pool) EvictOldestAmbient() bool {
	var victim *Drop
	for i := range p.slots {
		d := &p.slots[i]
		if !d.active || d.Origin != OriginAmbient {
			continue
		}
		if victim == nil || d.SpawnedAt.Before(victim.SpawnedAt) {
			victim = d
		}
	}
	if victim == nil {
		return false
	}
	p.releaseSlot(victim)
	return true
}

// SetCap applies a new active cap, evicting surplus drops
// oldest-ambient-first, then oldest-event, until the count fits
func (p *Pool) SetCap(n int) {
	if n < 1 {
		n = 1
	}
	if n > len(p.slots) {
		n = len(p.slots)
	}
	p.cap = n
	for p.activeN > p.cap {
		if p.EvictOldestAmbient() {
			continue
		}
		if !p.evictOldestEvent() {
			break
		}
	}
}

func (p *Pool) evictOldestEvent() bool {
	var victim *Drop
	for i := range p.slots {
		d := &p.slots[i]
		if !d.active || d.Origin != OriginEvent {
			continue
		}
		if victim == nil || d.SpawnedAt.Before(victim.SpawnedAt) {
			victim = d
		}
	}
	if victim == nil {
		return false
	}
	p.releaseSlot(victim)
	return true
}

// Clear releases every active drop
func (p *Pool) Clear() {
	for i := range p.slots {
		if p.slots[i].active {
			p.releaseSlot(&p.slots[i])
		}
	}
}

// ListActive returns a read-only snapshot of the active set
// The slice is cached and rebuilt only after membership changes,
// keeping per-tick cost bounded regardless of pool size
func (p *Pool) ListActive() []*Drop {
	if !p.dirty {
		return p.snapshot
	}
	p.snapshot = p.snapshot[:0]
	for i := range p.slots {
		if p.slots[i].active {
			p.snapshot = append(p.snapshot, &p.slots[i])
		}
	}
	p.dirty = false
	return p.snapshot
}

// forEachActive visits live drops without building a snapshot
func (p *Pool) forEachActive(fn func(*Drop)) {
	for i := range p.slots {
		if p.slots[i].active {
			fn(&p.slots[i])
		}
	}
}

// ColumnCount returns the current column layout width
func (p *Pool) ColumnCount() int {
	return len(p.columns)
}

// ResizeColumns recomputes the column layout. Last-use stamps carry
// over for columns that survive; drops keep their column index
func (p *Pool) ResizeColumns(n int) {
	if n < 1 {
		n = 1
	}
	if n == len(p.columns) {
		return
	}
	cols := make([]time.Time, n)
	copy(cols, p.columns)
	p.columns = cols
	if cap(p.scratch) < n {
		p.scratch = make([]int, 0, n)
	}
}

// PickColumn chooses a spawn column, preferring columns not used
// within the cooldown window to avoid clumping. Falls back to the
// least recently used column when every column is cooling down
func (p *Pool) PickColumn(now time.Time) int {
	p.scratch = p.scratch[:0]
	for i, last := range p.columns {
		if last.IsZero() || now.Sub(last) >= p.cooldown {
			p.scratch = append(p.scratch, i)
		}
	}
	if len(p.scratch) > 0 {
		return p.scratch[p.rng.Intn(len(p.scratch))]
	}
	oldest := 0
	for i := 1; i < len(p.columns); i++ {
		if p.columns[i].Before(p.columns[oldest]) {
			oldest = i
		}
	}
	return oldest
}

// MarkColumn stamps a column as just used
func (p *Pool) MarkColumn(col int, now time.Time) {
	if col >= 0 && col < len(p.columns) {
		p.columns[col] = now
	}
}
