package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/screwyforcepush/agentrain/engine/status"
	"github.com/screwyforcepush/agentrain/event"
	"github.com/screwyforcepush/agentrain/logging"
	"github.com/screwyforcepush/agentrain/parameter"
	"github.com/screwyforcepush/agentrain/rain"
)

// ErrSurfaceUnavailable is returned when no drawing surface could be
// attached. The engine stays constructed but inert
var ErrSurfaceUnavailable = errors.New("drawing surface unavailable")

// PauseReason is a bitmask of conditions keeping the frame loop idle
// The loop resumes only when the mask is empty, so an explicit
// disable always wins over any ambient resume signal
type PauseReason uint32

const (
	PauseHidden PauseReason = 1 << iota
	PauseBlur
	PauseReducedMotion
	PauseDisabled
)

// String lists the set reasons, or "none"
func (r PauseReason) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	if r&PauseHidden != 0 {
		parts = append(parts, "hidden")
	}
	if r&PauseBlur != 0 {
		parts = append(parts, "blur")
	}
	if r&PauseReducedMotion != 0 {
		parts = append(parts, "reduced-motion")
	}
	if r&PauseDisabled != 0 {
		parts = append(parts, "disabled")
	}
	return strings.Join(parts, ",")
}

// Painter renders a drop snapshot onto a drawing surface
// Implementations must not retain or mutate the drops
type Painter interface {
	Paint(drops []*rain.Drop, glow bool)
	Resize(cols, rows int)
}

// PerformanceUpdate is emitted on the fixed sampling cadence
type PerformanceUpdate struct {
	AvgFrameRate  float64
	AvgRenderTime time.Duration
	ActiveDrops   int
	MemoryUsageMB float64
}

// MemoryMetrics is the on-demand resource snapshot
type MemoryMetrics struct {
	HeapAllocMB  float64
	ActiveDrops  int
	PoolCapacity int
	QueuedEvents int
}

// Callbacks are host notifications. All fields optional. Invoked
// outside the engine lock; re-entrant engine calls are safe
type Callbacks struct {
	OnPerformance    func(PerformanceUpdate)
	OnQualityWarning func(from, to rain.Level)
	OnStatusChange   func(status string)
}

// Options configure an Engine
type Options struct {
	Sim           rain.Params
	MaxDrops      int // hard pool ceiling
	FrameInterval time.Duration
	ReducedMotion bool
	Logger        *slog.Logger
	Registry      *status.Registry
	Rand          *rand.Rand
	Time          TimeProvider     // real time source, default monotonic
	MemoryProbe   func() float64   // estimated MB, default runtime heap
	Callbacks     Callbacks
}

// Engine is one owned, injectable animation engine instance. It holds
// all state itself: construct per mounting surface, Stop on unmount
type Engine struct {
	mu sync.Mutex // guards pool, sim, adapter, quality, painter

	queue   *event.Queue
	pool    *rain.Pool
	sim     *rain.Simulation
	adapter *rain.Adapter
	monitor *rain.Monitor
	quality *rain.Controller
	painter Painter

	clock *PausableClock
	real  TimeProvider
	sched *FrameScheduler

	reasonMu     sync.Mutex   // serializes reason transitions
	paused       atomic.Bool  // derived from reasons, read by the loop
	reasons      atomic.Uint32
	pendingLevel atomic.Int32 // next quality level, -1 when unchanged
	glow         atomic.Bool

	samplerStop chan struct{}
	samplerWG   sync.WaitGroup
	started     bool
	inert       bool

	ceiling   int
	baseTrail int
	memProbe  func() float64

	statusMu   sync.Mutex
	statusText string

	cb  Callbacks
	log *slog.Logger
	reg *status.Registry

	// Cached metric pointers
	statTicks  *atomic.Int64
	statEvents *atomic.Int64
	statDrops  *atomic.Int64
	statLevel  *atomic.Int64
	statFPS    *status.AtomicFloat
	statFrame  *status.AtomicFloat
}

// New constructs an engine bound to a painter. A nil painter yields a
// structured error and an inert engine whose control surface is safe
// to call but does nothing
func New(painter Painter, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = status.NewRegistry()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Time == nil {
		opts.Time = NewMonotonicTimeProvider()
	}
	if opts.MaxDrops < 1 {
		opts.MaxDrops = parameter.HardDropCeiling
	}
	if opts.MemoryProbe == nil {
		opts.MemoryProbe = heapAllocMB
	}

	e := &Engine{
		queue:     event.NewQueue(),
		painter:   painter,
		real:      opts.Time,
		ceiling:   opts.MaxDrops,
		baseTrail: opts.Sim.TrailLength,
		memProbe:  opts.MemoryProbe,
		cb:        opts.Callbacks,
		log:       opts.Logger,
		reg:       opts.Registry,
	}
	e.clock = NewPausableClock(opts.Time)
	e.pendingLevel.Store(-1)
	e.glow.Store(true)

	e.pool = rain.NewPool(opts.MaxDrops, opts.Sim.Columns, parameter.ColumnCooldown, opts.Rand)
	e.sim = rain.NewSimulation(e.pool, opts.Sim, opts.Rand)
	e.adapter = rain.NewAdapter(e.sim, parameter.MaxSpawnPerTick, opts.Logger)
	e.pool.SetReleaseHook(e.adapter.ReleaseHook)
	e.monitor = rain.NewMonitor(opts.Time.Now())
	e.quality = rain.NewController(e.monitor, func(l rain.Level) {
		e.pendingLevel.Store(int32(l))
	}, nil)

	e.sched = NewFrameScheduler(e.clock, &e.paused, opts.FrameInterval, e.tick)

	e.statTicks = e.reg.Ints.Get("engine.ticks")
	e.statEvents = e.reg.Ints.Get("engine.events_consumed")
	e.statDrops = e.reg.Ints.Get("pool.active")
	e.statLevel = e.reg.Ints.Get("quality.level")
	e.statFPS = e.reg.Floats.Get("perf.avg_fps")
	e.statFrame = e.reg.Floats.Get("perf.avg_frame_ms")

	if opts.ReducedMotion {
		e.setReason(PauseReducedMotion, true)
	}

	if painter == nil {
		e.inert = true
		e.setReason(PauseDisabled, true)
		e.setStatus("animation disabled")
		return e, fmt.Errorf("engine init: %w", ErrSurfaceUnavailable)
	}
	e.setStatus("animation enabled")
	return e, nil
}

func heapAllocMB() float64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	return float64(ms.HeapAlloc) / (1024 * 1024)
}

// Start launches the frame loop and the sampling timer. Idempotent;
// an inert engine refuses to start
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inert {
		return ErrSurfaceUnavailable
	}
	if e.started {
		return nil
	}
	e.started = true
	e.setStatus("animation transitioning")

	e.sched.Start()
	e.samplerStop = make(chan struct{})
	e.samplerWG.Add(1)
	go e.samplerLoop(e.samplerStop)

	e.updateStatus()
	e.log.Info("engine started", "ceiling", e.ceiling, "columns", e.pool.ColumnCount())
	return nil
}

// Stop halts the frame loop and releases every timer and goroutine,
// so repeated mount/unmount never leaks scheduled callbacks
// Idempotent and safe before Start
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started {
		e.mu.Unlock()
		return
	}
	e.started = false
	stop := e.samplerStop
	e.mu.Unlock()

	e.sched.Stop()
	close(stop)
	e.samplerWG.Wait()
	e.setStatus("animation stopped")
	e.log.Info("engine stopped", "ticks", e.sched.Ticks())
}

// tick runs one full frame: apply pending quality, drain buffered
// events, simulate, paint. Ordering is fixed: events before simulate,
// simulate before render, so the painter never observes a drop set
// mutated mid-paint
func (e *Engine) tick(dt time.Duration) {
	start := e.real.Now()

	e.mu.Lock()
	if lvl := e.pendingLevel.Swap(-1); lvl >= 0 {
		e.applyLevelLocked(rain.Level(lvl))
	}
	now := e.clock.Now()
	if batch := e.queue.Consume(); len(batch) > 0 {
		e.adapter.ProcessBatch(batch, now)
		e.statEvents.Add(int64(len(batch)))
	}
	e.sim.Step(now, dt)
	e.painter.Paint(e.pool.ListActive(), e.glow.Load())
	e.statDrops.Store(int64(e.pool.Len()))
	e.mu.Unlock()

	e.monitor.RecordFrame(e.real.Now().Sub(start))
	e.statTicks.Add(1)
}

// applyLevelLocked re-applies a quality level's drop cap and trail
// length. Caller holds e.mu
func (e *Engine) applyLevelLocked(l rain.Level) {
	e.pool.SetCap(l.MaxDrops(e.ceiling))
	e.sim.SetTrailLength(l.TrailLength(e.baseTrail))
	e.glow.Store(l.Params().Glow)
	e.statLevel.Store(int64(l))
	e.log.Info("quality level applied",
		"level", l.String(),
		"max_drops", e.pool.Cap(),
		"trail", e.sim.TrailLength())
}

// samplerLoop runs on its own fixed cadence, independent of the
// render loop
func (e *Engine) samplerLoop(stop <-chan struct{}) {
	defer e.samplerWG.Done()
	t := time.NewTicker(parameter.SampleInterval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			return
		case <-t.C:
		}
		if e.paused.Load() {
			continue
		}

		now := e.real.Now()
		mem := e.sampleMemory()
		s := e.monitor.Sample(now, mem)

		e.mu.Lock()
		before := e.quality.Level()
		e.quality.Observe(s, now)
		after := e.quality.Level()
		active := e.pool.Len()
		e.mu.Unlock()

		avgFPS, avgFT := e.monitor.Averages()
		e.statFPS.Set(avgFPS)
		e.statFrame.Set(float64(avgFT) / float64(time.Millisecond))

		if cb := e.cb.OnPerformance; cb != nil {
			cb(PerformanceUpdate{
				AvgFrameRate:  avgFPS,
				AvgRenderTime: avgFT,
				ActiveDrops:   active,
				MemoryUsageMB: mem,
			})
		}
		if after > before {
			e.log.Warn("quality degraded", "from", before.String(), "to", after.String())
			if cb := e.cb.OnQualityWarning; cb != nil {
				cb(before, after)
			}
		}
	}
}

// sampleMemory degrades to zero rather than failing when the probe
// is unavailable or panics
func (e *Engine) sampleMemory() (mb float64) {
	defer func() {
		if recover() != nil {
			mb = 0
		}
	}()
	if e.memProbe == nil {
		return 0
	}
	return e.memProbe()
}

// ===== PAUSE / RESUME STATE =====

// setReason flips one reason bit. The mutex keeps the derived paused
// flag and the clock transition consistent with the final mask when
// callers race
func (e *Engine) setReason(bit PauseReason, on bool) {
	e.reasonMu.Lock()
	old := e.reasons.Load()
	next := old
	if on {
		next |= uint32(bit)
	} else {
		next &^= uint32(bit)
	}
	if old == next {
		e.reasonMu.Unlock()
		return
	}
	e.reasons.Store(next)
	e.paused.Store(next != 0)
	if old == 0 && next != 0 {
		e.clock.Pause()
	}
	if old != 0 && next == 0 {
		e.clock.Resume()
	}
	e.reasonMu.Unlock()

	e.log.Debug("pause reasons changed", "reasons", PauseReason(next).String())
	e.updateStatus()
}

// Enable clears the explicit disable. The loop still stays paused
// while any ambient reason (hidden, blur, reduced motion) holds
func (e *Engine) Enable() {
	e.setReason(PauseDisabled, false)
}

// Disable explicitly pauses the engine. Wins over every resume
// signal until Enable. Idempotent
func (e *Engine) Disable() {
	e.setReason(PauseDisabled, true)
}

// Toggle flips the explicit enable/disable state
func (e *Engine) Toggle() {
	if e.Disabled() {
		e.Enable()
	} else {
		e.Disable()
	}
}

// Disabled reports whether the explicit disable is set
func (e *Engine) Disabled() bool {
	return PauseReason(e.reasons.Load())&PauseDisabled != 0
}

// Paused reports whether any pause reason holds
func (e *Engine) Paused() bool {
	return e.paused.Load()
}

// PauseReasons returns the current reason mask
func (e *Engine) PauseReasons() PauseReason {
	return PauseReason(e.reasons.Load())
}

// SetHidden tracks surface visibility (terminal suspended or covered)
func (e *Engine) SetHidden(hidden bool) {
	e.setReason(PauseHidden, hidden)
}

// SetFocused tracks terminal focus; losing focus pauses
func (e *Engine) SetFocused(focused bool) {
	e.setReason(PauseBlur, !focused)
}

// SetReducedMotion tracks the user's reduced motion preference
func (e *Engine) SetReducedMotion(reduced bool) {
	e.setReason(PauseReducedMotion, reduced)
}

// ===== STATUS =====

func (e *Engine) updateStatus() {
	r := PauseReason(e.reasons.Load())
	switch {
	case r&PauseDisabled != 0:
		e.setStatus("animation disabled")
	case r != 0:
		e.setStatus("animation paused: " + r.String())
	default:
		e.setStatus("animation enabled")
	}
}

func (e *Engine) setStatus(text string) {
	e.statusMu.Lock()
	changed := text != e.statusText
	e.statusText = text
	e.statusMu.Unlock()
	if changed {
		if cb := e.cb.OnStatusChange; cb != nil {
			cb(text)
		}
	}
}

// Status returns the accessible state description, updated on every
// state change
func (e *Engine) Status() string {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	return e.statusText
}

// ===== CONTROL SURFACE =====

// PushEvent buffers a domain event for the next tick. Safe from any
// goroutine at any time, including before Start
func (e *Engine) PushEvent(ev event.AgentEvent) {
	e.queue.Push(ev)
}

// AddDrop spawns one manual drop and returns its id, or 0 when no
// idle slot exists or the engine is inert. Manual drops never evict
// an active drop, so an add followed by a remove always restores the
// prior active count
func (e *Engine) AddDrop() uint64 {
	if e.inert {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	d := e.sim.SpawnAmbient(e.clock.Now())
	if d == nil {
		return 0
	}
	return d.ID
}

// RemoveDrop releases the drop with the given id
func (e *Engine) RemoveDrop(id uint64) bool {
	if e.inert {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Release(id)
}

// ClearAll releases every active drop
func (e *Engine) ClearAll() {
	if e.inert {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pool.Clear()
}

// Resize recomputes the column layout for new grid dimensions
// Non-positive dimensions are ignored; drops keep their column index
// and get their position clamped into the new bounds
func (e *Engine) Resize(cols, rows int) bool {
	if e.inert {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.adapter.Resize(cols, rows) {
		return false
	}
	e.painter.Resize(cols, rows)
	return true
}

// ResetQuality is the explicit hard reset back to LevelHigh
func (e *Engine) ResetQuality() {
	if e.inert {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.quality.Reset(e.real.Now())
}

// QualityLevel returns the current adaptive tier
func (e *Engine) QualityLevel() rain.Level {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.quality.Level()
}

// ActiveDrops returns the live drop count
func (e *Engine) ActiveDrops() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pool.Len()
}

// AdapterStats returns cumulative sync adapter counters
func (e *Engine) AdapterStats() rain.AdapterStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adapter.Stats()
}

// GetMemoryMetrics returns the resource snapshot. Degrades to zeroes
// when instrumentation is unavailable
func (e *Engine) GetMemoryMetrics() MemoryMetrics {
	m := MemoryMetrics{HeapAllocMB: e.sampleMemory(), QueuedEvents: e.queue.Len()}
	e.mu.Lock()
	m.ActiveDrops = e.pool.Len()
	m.PoolCapacity = e.pool.Capacity()
	e.mu.Unlock()
	return m
}
