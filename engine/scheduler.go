package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/screwyforcepush/agentrain/parameter"
)

// TickFunc runs one full frame: drain events, simulate, render
// The scheduler guarantees a tick either runs to completion or is
// never entered; Stop waits for an in-flight tick to finish
type TickFunc func(dt time.Duration)

// FrameScheduler drives the single cooperative frame loop
// Pause-aware: while the paused flag is set it idles on a slow poll
// and advances its dt anchor, so resuming never produces a jump
type FrameScheduler struct {
	clock    *PausableClock
	isPaused *atomic.Bool
	interval time.Duration
	tick     TickFunc

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup

	ticks atomic.Uint64
}

// NewFrameScheduler creates a scheduler; Start arms it
func NewFrameScheduler(clock *PausableClock, isPaused *atomic.Bool, interval time.Duration, tick TickFunc) *FrameScheduler {
	if interval <= 0 {
		interval = parameter.FrameInterval
	}
	return &FrameScheduler{
		clock:    clock,
		isPaused: isPaused,
		interval: interval,
		tick:     tick,
	}
}

// Start begins the loop. Idempotent; safe after Stop
func (s *FrameScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.stopChan)
}

// Stop halts the loop and waits for any in-flight tick. Idempotent
// and safe to call before Start or repeatedly
func (s *FrameScheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()
	s.wg.Wait()
}

// Running reports whether the loop is active
func (s *FrameScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Ticks returns the number of completed ticks
func (s *FrameScheduler) Ticks() uint64 {
	return s.ticks.Load()
}

func (s *FrameScheduler) loop(stop <-chan struct{}) {
	defer s.wg.Done()

	last := s.clock.Now()
	nextDeadline := last.Add(s.interval)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		if s.isPaused.Load() {
			// Clock is frozen while paused; re-anchor so the first
			// post-resume dt covers only running time
			last = s.clock.Now()
			nextDeadline = last.Add(s.interval)
			timer.Reset(parameter.PausedPollInterval)
			continue
		}

		now := s.clock.Now()
		dt := now.Sub(last)
		last = now
		if dt > 0 {
			s.tick(dt)
			s.ticks.Add(1)
		}

		// Drift-corrected deadline; snap forward if far behind
		nextDeadline = nextDeadline.Add(s.interval)
		if now.Sub(nextDeadline) > 2*s.interval {
			nextDeadline = now.Add(s.interval)
		}
		sleep := nextDeadline.Sub(s.clock.Now())
		if sleep < time.Millisecond {
			sleep = time.Millisecond
		}
		timer.Reset(sleep)
	}
}
