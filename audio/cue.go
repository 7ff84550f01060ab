// Package audio plays short alert tones. Initialization failure is
// non-fatal: the visualizer runs fine without sound
package audio

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const cueSampleRate = beep.SampleRate(44100)

// Cue owns the speaker and emits alert tones
type Cue struct {
	ready bool
}

// NewCue initializes the speaker. On error the returned Cue is a
// silent no-op and the error is informational
func NewCue() (*Cue, error) {
	err := speaker.Init(cueSampleRate, cueSampleRate.N(time.Second/10))
	return &Cue{ready: err == nil}, err
}

// Downgrade plays a short low tone signalling a quality downgrade
func (c *Cue) Downgrade() {
	c.tone(392, 120*time.Millisecond)
}

// Ready reports whether the speaker initialized
func (c *Cue) Ready() bool {
	return c.ready
}

func (c *Cue) tone(freq float64, d time.Duration) {
	if !c.ready {
		return
	}
	sine, err := generators.SineTone(cueSampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(cueSampleRate.N(d), sine))
}
