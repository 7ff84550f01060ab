package rain

import (
	"log/slog"
	"time"

	"github.com/screwyforcepush/agentrain/event"
	"github.com/screwyforcepush/agentrain/logging"
)

// AdapterStats are cumulative sync adapter counters
type AdapterStats struct {
	Spawned      uint64 // event drops spawned
	Deduplicated uint64 // events ignored because their id is still falling
	BurstDropped uint64 // events past the per-tick cap
	Rejected     uint64 // spawns refused by a saturated pool
}

// Adapter maps domain events to spawn requests and carries the
// resize control path. One instance per engine, driven from the
// frame loop only
type Adapter struct {
	sim        *Simulation
	active     map[string]uint64 // event id -> drop id while falling
	maxPerTick int
	log        *slog.Logger
	stats      AdapterStats
}

// NewAdapter creates a sync adapter over the simulation
// log may be nil
func NewAdapter(sim *Simulation, maxPerTick int, log *slog.Logger) *Adapter {
	if maxPerTick < 1 {
		maxPerTick = 1
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Adapter{
		sim:        sim,
		active:     make(map[string]uint64),
		maxPerTick: maxPerTick,
		log:        log,
	}
}

// ReleaseHook retires the dedup entry when an event drop leaves the
// pool. Register on the pool before the first spawn
func (a *Adapter) ReleaseHook(d *Drop) {
	if d.EventID != "" {
		delete(a.active, d.EventID)
	}
}

// ProcessEvent maps one domain event to zero or one spawn request
// Duplicate ids are ignored while their drop is still active
func (a *Adapter) ProcessEvent(ev event.AgentEvent, now time.Time) bool {
	if ev.ID != "" {
		if _, dup := a.active[ev.ID]; dup {
			a.stats.Deduplicated++
			return false
		}
	}
	d := a.sim.SpawnEvent(now, ev.ID, ev.Kind)
	if d == nil {
		a.stats.Rejected++
		return false
	}
	if ev.ID != "" {
		a.active[ev.ID] = d.ID
	}
	a.stats.Spawned++
	return true
}

// ProcessBatch drains a burst of events, capping spawn attempts per
// tick to protect the frame budget. Excess events are dropped, not
// queued: responsiveness over completeness
func (a *Adapter) ProcessBatch(events []event.AgentEvent, now time.Time) int {
	spawned := 0
	attempts := 0
	for i := range events {
		if attempts >= a.maxPerTick {
			excess := uint64(len(events) - i)
			a.stats.BurstDropped += excess
			a.log.Debug("event burst trimmed", "dropped", excess, "cap", a.maxPerTick)
			break
		}
		ev := events[i]
		if ev.ID != "" {
			if _, dup := a.active[ev.ID]; dup {
				a.stats.Deduplicated++
				continue // dedup does not consume an attempt
			}
		}
		attempts++
		d := a.sim.SpawnEvent(now, ev.ID, ev.Kind)
		if d == nil {
			a.stats.Rejected++
			continue
		}
		if ev.ID != "" {
			a.active[ev.ID] = d.ID
		}
		a.stats.Spawned++
		spawned++
	}
	return spawned
}

// Resize recomputes the column layout. Non-positive dimensions are
// logged and ignored; the last valid geometry stays in effect
func (a *Adapter) Resize(cols, rows int) bool {
	if cols <= 0 || rows <= 0 {
		a.log.Warn("ignoring resize to non-positive geometry", "cols", cols, "rows", rows)
		return false
	}
	a.sim.Resize(cols, rows)
	return true
}

// ActiveEventDrops returns the number of event drops still falling
func (a *Adapter) ActiveEventDrops() int {
	return len(a.active)
}

// Stats returns a copy of the cumulative counters
func (a *Adapter) Stats() AdapterStats {
	return a.stats
}
