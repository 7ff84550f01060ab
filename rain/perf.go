package rain

import (
	"sync"
	"time"

	"github.com/screwyforcepush/agentrain/parameter"
)

// Sample is one performance observation on the fixed sampling cadence
type Sample struct {
	Timestamp time.Time
	FrameTime time.Duration // average render+simulate time per frame
	FrameRate float64       // instantaneous, frames since last sample
	MemoryMB  float64       // estimated heap use, 0 when unavailable
}

// Monitor keeps a bounded rolling window of performance samples
// RecordFrame is called from the frame loop; Sample and the averages
// from the sampling timer, hence the lock
type Monitor struct {
	mu sync.Mutex

	window [parameter.SampleWindow]Sample
	idx    int
	count  int

	frameCount   int
	frameTimeAcc time.Duration
	lastSample   time.Time
}

// NewMonitor creates a monitor anchored at the given start time
func NewMonitor(start time.Time) *Monitor {
	return &Monitor{lastSample: start}
}

// RecordFrame accumulates one frame's cost. Frame-loop thread only
func (m *Monitor) RecordFrame(cost time.Duration) {
	m.mu.Lock()
	m.frameCount++
	m.frameTimeAcc += cost
	m.mu.Unlock()
}

// Sample folds the frames since the last call into one observation
// and pushes it onto the rolling window, evicting the oldest entry
// once the window is full
func (m *Monitor) Sample(now time.Time, memMB float64) Sample {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := now.Sub(m.lastSample).Seconds()
	s := Sample{Timestamp: now, MemoryMB: memMB}
	if elapsed > 0 {
		s.FrameRate = float64(m.frameCount) / elapsed
	}
	if m.frameCount > 0 {
		s.FrameTime = m.frameTimeAcc / time.Duration(m.frameCount)
	}

	m.window[m.idx] = s
	m.idx = (m.idx + 1) % parameter.SampleWindow
	if m.count < parameter.SampleWindow {
		m.count++
	}

	m.frameCount = 0
	m.frameTimeAcc = 0
	m.lastSample = now
	return s
}

// Averages returns the moving average frame rate and frame time over
// the current window. Zeroes when no samples exist
func (m *Monitor) Averages() (fps float64, frameTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.averagesLocked()
}

func (m *Monitor) averagesLocked() (float64, time.Duration) {
	if m.count == 0 {
		return 0, 0
	}
	var fpsSum float64
	var ftSum time.Duration
	for i := 0; i < m.count; i++ {
		fpsSum += m.window[i].FrameRate
		ftSum += m.window[i].FrameTime
	}
	return fpsSum / float64(m.count), ftSum / time.Duration(m.count)
}

// Full reports whether the rolling window has filled once
func (m *Monitor) Full() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count == parameter.SampleWindow
}

// ShouldReduce is true when degradation is warranted: the window is
// full and the moving average frame rate is under the low threshold
// or the average frame time exceeds the per-frame budget. Requiring a
// full window avoids transient-noise triggers
func (m *Monitor) ShouldReduce() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count < parameter.SampleWindow {
		return false
	}
	fps, ft := m.averagesLocked()
	return fps < parameter.LowFrameRate || ft > parameter.FrameBudget
}

// Reset clears the window. Called after quality transitions so each
// evaluation period starts from fresh evidence
func (m *Monitor) Reset(now time.Time) {
	m.mu.Lock()
	m.idx = 0
	m.count = 0
	m.frameCount = 0
	m.frameTimeAcc = 0
	m.lastSample = now
	m.mu.Unlock()
}
