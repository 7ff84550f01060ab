package rain

import (
	"time"

	"github.com/screwyforcepush/agentrain/parameter"
)

// Level is the adaptive degradation tier. Ordering matters: a larger
// value means lower visual quality
type Level int

const (
	LevelHigh Level = iota
	LevelMedium
	LevelLow
	LevelMinimal
)

// String returns the level name
func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	case LevelMinimal:
		return "minimal"
	default:
		return "invalid"
	}
}

// LevelParams bind a quality level to its simulation limits
// Fractions scale the configured ceiling and trail length so the
// ladder respects whatever hard limits the host configured
type LevelParams struct {
	DropFrac  float64 // of the hard drop ceiling
	TrailFrac float64 // of the configured trail length
	Glow      bool    // trailing glow / fade effects
}

var levelTable = [...]LevelParams{
	LevelHigh:    {DropFrac: 1.0, TrailFrac: 1.0, Glow: true},
	LevelMedium:  {DropFrac: 0.6, TrailFrac: 0.75, Glow: true},
	LevelLow:     {DropFrac: 0.35, TrailFrac: 0.5, Glow: false},
	LevelMinimal: {DropFrac: 0.15, TrailFrac: 0.3, Glow: false},
}

// Params returns the limits bound to the level
func (l Level) Params() LevelParams {
	if l < LevelHigh || l > LevelMinimal {
		return levelTable[LevelMinimal]
	}
	return levelTable[l]
}

// MaxDrops resolves the level's active drop cap against the ceiling
func (l Level) MaxDrops(ceiling int) int {
	n := int(float64(ceiling) * l.Params().DropFrac)
	if n < 1 {
		n = 1
	}
	return n
}

// TrailLength resolves the level's trail length against the base
func (l Level) TrailLength(base int) int {
	n := int(float64(base) * l.Params().TrailFrac)
	if n < 3 {
		n = 3
	}
	return n
}

// Controller is the quality state machine. Transitions move exactly
// one level per evaluation: downgrades on a sustained-bad full
// window, upgrades only after a longer sustained-good streak
// (hysteresis). High to Minimal in one step is impossible without
// Reset
type Controller struct {
	level      Level
	monitor    *Monitor
	goodStreak int

	apply       func(Level) // re-applies caps; must not block
	onDowngrade func(from, to Level)
}

// NewController creates a controller starting at LevelHigh
// apply is invoked on every transition including Reset; onDowngrade
// only on downgrades. Either may be nil
func NewController(monitor *Monitor, apply func(Level), onDowngrade func(from, to Level)) *Controller {
	return &Controller{
		level:       LevelHigh,
		monitor:     monitor,
		apply:       apply,
		onDowngrade: onDowngrade,
	}
}

// Level returns the current tier
func (c *Controller) Level() Level {
	return c.level
}

// Observe evaluates one sampling period and moves at most one level
func (c *Controller) Observe(s Sample, now time.Time) {
	if c.monitor.ShouldReduce() {
		c.goodStreak = 0
		if c.level < LevelMinimal {
			from := c.level
			c.level++
			c.monitor.Reset(now)
			if c.apply != nil {
				c.apply(c.level)
			}
			if c.onDowngrade != nil {
				c.onDowngrade(from, c.level)
			}
		}
		return
	}

	if sampleGood(s) {
		c.goodStreak++
		if c.goodStreak >= parameter.UpgradeStreak && c.level > LevelHigh {
			c.level--
			c.goodStreak = 0
			c.monitor.Reset(now)
			if c.apply != nil {
				c.apply(c.level)
			}
		}
	} else {
		c.goodStreak = 0
	}
}

// sampleGood is the upgrade-direction predicate, deliberately
// stricter than the downgrade threshold
func sampleGood(s Sample) bool {
	return s.FrameRate >= parameter.LowFrameRate*1.6 &&
		s.FrameTime <= parameter.FrameBudget*3/4
}

// Reset is the explicit hard reset: straight back to LevelHigh,
// discarding all accumulated evidence
func (c *Controller) Reset(now time.Time) {
	c.level = LevelHigh
	c.goodStreak = 0
	c.monitor.Reset(now)
	if c.apply != nil {
		c.apply(c.level)
	}
}
