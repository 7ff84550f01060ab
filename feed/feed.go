// Package feed generates a synthetic agent-orchestration event
// stream. It stands in for the dashboard's fetch/WebSocket layer,
// which pushes real events through the same queue interface
package feed

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/screwyforcepush/agentrain/event"
)

var kinds = []event.Kind{
	event.KindSessionStart,
	event.KindToolUse,
	event.KindToolUse,
	event.KindToolUse,
	event.KindMessage,
	event.KindMessage,
	event.KindNotification,
	event.KindSessionEnd,
}

// Generator pushes synthetic events at an average rate with
// occasional bursts, mimicking parallel subagent fan-out
type Generator struct {
	push func(event.AgentEvent)
	rate float64 // events per second
	rng  *rand.Rand

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a generator. push must be safe for concurrent use
func New(push func(event.AgentEvent), rate float64, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{push: push, rate: rate, rng: rng}
}

// Start launches the feed goroutine. No-op at rate zero or when
// already running
func (g *Generator) Start() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running || g.rate <= 0 {
		return
	}
	g.running = true
	g.stopChan = make(chan struct{})
	g.wg.Add(1)
	go g.loop(g.stopChan)
}

// Stop halts the feed. Idempotent
func (g *Generator) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.running = false
	close(g.stopChan)
	g.mu.Unlock()
	g.wg.Wait()
}

func (g *Generator) loop(stop <-chan struct{}) {
	defer g.wg.Done()
	timer := time.NewTimer(g.nextDelay())
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.C:
		}

		// Roughly one burst in eight, like a session spawning subagents
		n := 1
		if g.rng.Intn(8) == 0 {
			n = 2 + g.rng.Intn(5)
		}
		now := time.Now()
		for i := 0; i < n; i++ {
			g.push(event.AgentEvent{
				ID:        uuid.NewString(),
				Timestamp: now,
				Kind:      kinds[g.rng.Intn(len(kinds))],
			})
		}
		timer.Reset(g.nextDelay())
	}
}

// nextDelay draws an exponential inter-arrival interval
func (g *Generator) nextDelay() time.Duration {
	d := time.Duration(g.rng.ExpFloat64() / g.rate * float64(time.Second))
	if d < 10*time.Millisecond {
		d = 10 * time.Millisecond
	}
	if d > 10*time.Second {
		d = 10 * time.Second
	}
	return d
}
