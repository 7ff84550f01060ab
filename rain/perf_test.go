package rain

import (
	"testing"
	"time"

	"github.com/screwyforcepush/agentrain/parameter"
)

// feedSamples pushes n observations at the given frame rate and frame
// cost, advancing one sampling period per observation
func feedSamples(m *Monitor, start time.Time, n, framesPerSecond int, cost time.Duration) time.Time {
	now := start
	for i := 0; i < n; i++ {
		for f := 0; f < framesPerSecond; f++ {
			m.RecordFrame(cost)
		}
		now = now.Add(time.Second)
		m.Sample(now, 0)
	}
	return now
}

// TestMonitorSample tests frame accumulation folds into one observation
func TestMonitorSample(t *testing.T) {
	start := time.Now()
	m := NewMonitor(start)

	for i := 0; i < 60; i++ {
		m.RecordFrame(5 * time.Millisecond)
	}
	s := m.Sample(start.Add(time.Second), 12.5)

	if s.FrameRate < 59.9 || s.FrameRate > 60.1 {
		t.Errorf("Expected frame rate near 60, got %.2f", s.FrameRate)
	}
	if s.FrameTime != 5*time.Millisecond {
		t.Errorf("Expected frame time 5ms, got %v", s.FrameTime)
	}
	if s.MemoryMB != 12.5 {
		t.Errorf("Expected memory 12.5MB, got %.2f", s.MemoryMB)
	}

	// Accumulators reset between samples
	s2 := m.Sample(start.Add(2*time.Second), 0)
	if s2.FrameRate != 0 || s2.FrameTime != 0 {
		t.Errorf("Expected empty second sample, got fps=%.2f ft=%v", s2.FrameRate, s2.FrameTime)
	}
}

// TestMonitorAverages tests the moving average over the window
func TestMonitorAverages(t *testing.T) {
	start := time.Now()
	m := NewMonitor(start)

	if fps, ft := m.Averages(); fps != 0 || ft != 0 {
		t.Errorf("Expected zero averages on empty monitor, got %.2f %v", fps, ft)
	}

	feedSamples(m, start, 10, 60, 5*time.Millisecond)
	fps, ft := m.Averages()
	if fps < 59.9 || fps > 60.1 {
		t.Errorf("Expected average fps near 60, got %.2f", fps)
	}
	if ft != 5*time.Millisecond {
		t.Errorf("Expected average frame time 5ms, got %v", ft)
	}
}

// TestMonitorWindowEviction tests old samples fall out once the window
// is full
func TestMonitorWindowEviction(t *testing.T) {
	start := time.Now()
	m := NewMonitor(start)

	// Fill the window with slow samples, then overwrite it with fast ones
	now := feedSamples(m, start, parameter.SampleWindow, 10, 40*time.Millisecond)
	if !m.Full() {
		t.Fatal("Expected full window")
	}
	feedSamples(m, now, parameter.SampleWindow, 60, 5*time.Millisecond)

	fps, _ := m.Averages()
	if fps < 59.9 {
		t.Errorf("Expected slow samples fully evicted, average fps %.2f", fps)
	}
}

// TestMonitorShouldReduceRequiresFullWindow tests no degradation
// verdict before a full evaluation period
func TestMonitorShouldReduceRequiresFullWindow(t *testing.T) {
	start := time.Now()
	m := NewMonitor(start)

	feedSamples(m, start, parameter.SampleWindow-1, 10, 40*time.Millisecond)
	if m.ShouldReduce() {
		t.Error("Expected no verdict before the window fills")
	}

	feedSamples(m, start.Add(time.Duration(parameter.SampleWindow-1)*time.Second), 1, 10, 40*time.Millisecond)
	if !m.ShouldReduce() {
		t.Error("Expected degradation verdict with a full slow window")
	}
}

// TestMonitorShouldReduceThresholds tests both trigger conditions
func TestMonitorShouldReduceThresholds(t *testing.T) {
	start := time.Now()

	// Healthy: 60 fps, cheap frames
	m := NewMonitor(start)
	feedSamples(m, start, parameter.SampleWindow, 60, 5*time.Millisecond)
	if m.ShouldReduce() {
		t.Error("Expected healthy window to pass")
	}

	// Low frame rate alone triggers
	m = NewMonitor(start)
	feedSamples(m, start, parameter.SampleWindow, 20, 5*time.Millisecond)
	if !m.ShouldReduce() {
		t.Error("Expected low frame rate to trigger")
	}

	// Blown frame budget alone triggers
	m = NewMonitor(start)
	feedSamples(m, start, parameter.SampleWindow, 60, parameter.FrameBudget+5*time.Millisecond)
	if !m.ShouldReduce() {
		t.Error("Expected blown frame budget to trigger")
	}
}

// TestMonitorReset tests a reset discards all evidence
func TestMonitorReset(t *testing.T) {
	start := time.Now()
	m := NewMonitor(start)
	feedSamples(m, start, parameter.SampleWindow, 10, 40*time.Millisecond)
	if !m.ShouldReduce() {
		t.Fatal("Expected degradation verdict before reset")
	}

	m.Reset(start.Add(time.Hour))
	if m.Full() || m.ShouldReduce() {
		t.Error("Expected empty monitor after reset")
	}
	if fps, ft := m.Averages(); fps != 0 || ft != 0 {
		t.Errorf("Expected zero averages after reset, got %.2f %v", fps, ft)
	}
}
