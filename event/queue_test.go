package event

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/screwyforcepush/agentrain/parameter"
)

// TestQueueBasic tests push and consume in FIFO order
func TestQueueBasic(t *testing.T) {
	q := NewQueue()

	ev1 := AgentEvent{ID: "a", Timestamp: time.Now(), Kind: KindSessionStart}
	ev2 := AgentEvent{ID: "b", Timestamp: time.Now(), Kind: KindToolUse}
	ev3 := AgentEvent{ID: "c", Timestamp: time.Now(), Kind: KindSessionEnd}

	q.Push(ev1)
	q.Push(ev2)
	q.Push(ev3)

	events := q.Consume()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	if events[0].ID != "a" || events[0].Kind != KindSessionStart {
		t.Errorf("Event 1 mismatch: got id=%q kind=%v", events[0].ID, events[0].Kind)
	}
	if events[1].ID != "b" || events[1].Kind != KindToolUse {
		t.Errorf("Event 2 mismatch: got id=%q kind=%v", events[1].ID, events[1].Kind)
	}
	if events[2].ID != "c" || events[2].Kind != KindSessionEnd {
		t.Errorf("Event 3 mismatch: got id=%q kind=%v", events[2].ID, events[2].Kind)
	}

	// Second consume should return nothing
	if again := q.Consume(); len(again) != 0 {
		t.Errorf("Expected 0 events on second consume, got %d", len(again))
	}
}

// TestQueueEmptyConsume tests consuming from an empty queue
func TestQueueEmptyConsume(t *testing.T) {
	q := NewQueue()
	if events := q.Consume(); events != nil {
		t.Errorf("Expected nil from empty queue, got %d events", len(events))
	}
	if q.Len() != 0 {
		t.Errorf("Expected length 0, got %d", q.Len())
	}
}

// TestQueueOverflow tests that the oldest events are overwritten when full
func TestQueueOverflow(t *testing.T) {
	q := NewQueue()
	extra := 10
	total := parameter.EventQueueSize + extra

	for i := 0; i < total; i++ {
		q.Push(AgentEvent{ID: fmt.Sprintf("ev-%d", i)})
	}

	events := q.Consume()
	if len(events) != parameter.EventQueueSize {
		t.Fatalf("Expected %d events after overflow, got %d", parameter.EventQueueSize, len(events))
	}

	// The first `extra` events should have been overwritten
	want := fmt.Sprintf("ev-%d", extra)
	if events[0].ID != want {
		t.Errorf("Expected oldest surviving event %q, got %q", want, events[0].ID)
	}
	wantLast := fmt.Sprintf("ev-%d", total-1)
	if events[len(events)-1].ID != wantLast {
		t.Errorf("Expected newest event %q, got %q", wantLast, events[len(events)-1].ID)
	}
}

// TestQueueConcurrentProducers tests concurrent pushes from many goroutines
func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	numGoroutines := 8
	perGoroutine := 50
	total := numGoroutines * perGoroutine

	var wg sync.WaitGroup
	wg.Add(numGoroutines)
	for g := 0; g < numGoroutines; g++ {
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				q.Push(AgentEvent{ID: fmt.Sprintf("%d-%d", g, i), Kind: KindMessage})
			}
		}(g)
	}
	wg.Wait()

	events := q.Consume()
	if len(events) != total {
		t.Errorf("Expected %d events, got %d", total, len(events))
	}
	seen := make(map[string]bool, total)
	for _, ev := range events {
		if seen[ev.ID] {
			t.Errorf("Duplicate event id %q", ev.ID)
		}
		seen[ev.ID] = true
	}
}

// TestQueueLen tests the approximate pending count
func TestQueueLen(t *testing.T) {
	q := NewQueue()
	for i := 0; i < 5; i++ {
		q.Push(AgentEvent{ID: fmt.Sprintf("%d", i)})
	}
	if q.Len() != 5 {
		t.Errorf("Expected length 5, got %d", q.Len())
	}
	q.Consume()
	if q.Len() != 0 {
		t.Errorf("Expected length 0 after consume, got %d", q.Len())
	}
}

// TestKindString tests kind names used in logs
func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		KindUnknown:      "unknown",
		KindSessionStart: "session_start",
		KindToolUse:      "tool_use",
		KindMessage:      "message",
		KindNotification: "notification",
		KindSessionEnd:   "session_end",
		Kind(99):         "unknown",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
