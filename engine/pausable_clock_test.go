package engine

import (
	"testing"
	"time"
)

// TestPausableClockAdvances tests engine time tracks real time while
// running
func TestPausableClockAdvances(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	clock := NewPausableClock(mock)

	if !clock.Now().Equal(start) {
		t.Errorf("Expected initial engine time %v, got %v", start, clock.Now())
	}

	mock.Advance(5 * time.Second)
	if got := clock.Now(); !got.Equal(start.Add(5 * time.Second)) {
		t.Errorf("Expected engine time +5s, got %v", got)
	}
}

// TestPausableClockFreezesWhilePaused tests Now is frozen at the
// pause point so dt across a pause is zero
func TestPausableClockFreezesWhilePaused(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	clock := NewPausableClock(mock)

	mock.Advance(2 * time.Second)
	clock.Pause()
	if !clock.IsPaused() {
		t.Fatal("Expected clock paused")
	}

	frozen := clock.Now()
	mock.Advance(time.Hour)
	if got := clock.Now(); !got.Equal(frozen) {
		t.Errorf("Expected frozen engine time %v, got %v", frozen, got)
	}
	if got := clock.RealTime(); !got.Equal(start.Add(2*time.Second + time.Hour)) {
		t.Errorf("Expected real time unaffected by pause, got %v", got)
	}

	clock.Resume()
	if clock.IsPaused() {
		t.Fatal("Expected clock resumed")
	}
	// Engine time continues from the pause point
	if got := clock.Now(); !got.Equal(frozen) {
		t.Errorf("Expected engine time to resume at %v, got %v", frozen, got)
	}
	mock.Advance(3 * time.Second)
	if got := clock.Now(); !got.Equal(frozen.Add(3 * time.Second)) {
		t.Errorf("Expected engine time +3s after resume, got %v", got)
	}
}

// TestPausableClockTotalPausedTime tests pause accounting across
// multiple spans
func TestPausableClockTotalPausedTime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	clock := NewPausableClock(mock)

	clock.Pause()
	mock.Advance(10 * time.Second)
	clock.Resume()

	mock.Advance(time.Second)
	clock.Pause()
	mock.Advance(5 * time.Second)

	// 10s completed plus 5s in progress
	if got := clock.TotalPausedTime(); got != 15*time.Second {
		t.Errorf("Expected 15s total paused, got %v", got)
	}
	clock.Resume()
	if got := clock.TotalPausedTime(); got != 15*time.Second {
		t.Errorf("Expected 15s total paused after resume, got %v", got)
	}
}

// TestPausableClockIdempotentTransitions tests repeated Pause and
// Resume calls are safe
func TestPausableClockIdempotentTransitions(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mock := NewMockTimeProvider(start)
	clock := NewPausableClock(mock)

	clock.Resume() // resume before any pause
	clock.Pause()
	clock.Pause()
	mock.Advance(time.Second)
	clock.Resume()
	clock.Resume()

	if got := clock.TotalPausedTime(); got != time.Second {
		t.Errorf("Expected 1s total paused, got %v", got)
	}
}
