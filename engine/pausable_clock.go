package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock provides pausable engine time. While paused, Now is
// frozen at the pause point, so a dt computed across a pause span is
// zero rather than the wall-clock gap
type PausableClock struct {
	mu sync.RWMutex

	realStartTime   time.Time // when the clock was created (real time)
	engineStartTime time.Time // engine time epoch (adjusted for pauses)

	isPaused        atomic.Bool
	pauseStartTime  time.Time     // when the current pause started (real time)
	totalPausedTime time.Duration // cumulative pause duration

	real TimeProvider
}

// NewPausableClock creates a running pausable clock
func NewPausableClock(real TimeProvider) *PausableClock {
	if real == nil {
		real = NewMonotonicTimeProvider()
	}
	now := real.Now()
	return &PausableClock{
		realStartTime:   now,
		engineStartTime: now,
		real:            real,
	}
}

// Now returns the current engine time (frozen while paused)
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	if pc.isPaused.Load() {
		return pc.engineStartTime.Add(pc.pauseStartTime.Sub(pc.realStartTime) - pc.totalPausedTime)
	}

	realElapsed := pc.real.Now().Sub(pc.realStartTime)
	return pc.engineStartTime.Add(realElapsed - pc.totalPausedTime)
}

// RealTime returns the wall clock, unaffected by pause
func (pc *PausableClock) RealTime() time.Time {
	return pc.real.Now()
}

// Pause stops engine time advancement. Idempotent
func (pc *PausableClock) Pause() {
	if pc.isPaused.CompareAndSwap(false, true) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		pc.pauseStartTime = pc.real.Now()
	}
}

// Resume continues engine time advancement. Idempotent
func (pc *PausableClock) Resume() {
	if pc.isPaused.CompareAndSwap(true, false) {
		pc.mu.Lock()
		defer pc.mu.Unlock()
		if !pc.pauseStartTime.IsZero() {
			pc.totalPausedTime += pc.real.Now().Sub(pc.pauseStartTime)
			pc.pauseStartTime = time.Time{}
		}
	}
}

// IsPaused returns the current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.isPaused.Load()
}

// TotalPausedTime returns the cumulative pause duration, including
// the current pause if one is in progress
func (pc *PausableClock) TotalPausedTime() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.totalPausedTime
	if pc.isPaused.Load() && !pc.pauseStartTime.IsZero() {
		total += pc.real.Now().Sub(pc.pauseStartTime)
	}
	return total
}
