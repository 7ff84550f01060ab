package parameter

import "time"

// Frame Loop & Engine Timing
const (
	// FrameInterval is the target frame interval (~60 FPS)
	FrameInterval = 16 * time.Millisecond

	// MaxStep is the simulation dt clamp
	// Prevents drops teleporting across the grid after a suspended terminal resumes
	MaxStep = 50 * time.Millisecond

	// PausedPollInterval is the scheduler sleep interval while paused
	PausedPollInterval = 4 * FrameInterval

	// SampleInterval is the cadence of the performance sampling timer,
	// independent of the frame loop
	SampleInterval = time.Second
)

// Event Plumbing Limits
const (
	// EventQueueSize is the fixed capacity of the domain event ring buffer
	EventQueueSize = 1024

	// EventBufferMask is the bitmask for fast modulo operations (1024 - 1)
	EventBufferMask = EventQueueSize - 1

	// MaxSpawnPerTick caps event-driven spawn attempts processed per tick
	// Excess burst events are dropped to protect the frame budget
	MaxSpawnPerTick = 16
)

// Performance Monitoring
const (
	// SampleWindow is the rolling performance sample window size
	SampleWindow = 60

	// UpgradeStreak is the number of consecutive good samples required
	// before a quality upgrade (longer than the downgrade window)
	UpgradeStreak = 90

	// LowFrameRate is the average FPS below which quality degrades
	LowFrameRate = 30.0

	// FrameBudget is the per-frame time budget; sustained averages above
	// this trigger degradation
	FrameBudget = 22 * time.Millisecond
)

// Drop Pool Defaults
const (
	// HardDropCeiling is the absolute pool capacity; no quality level
	// may raise the active cap past this
	HardDropCeiling = 256

	// ColumnCooldown is the minimum interval before a column is reused
	// for a new spawn, to avoid visual clumping
	ColumnCooldown = 400 * time.Millisecond

	// ReleaseMargin is the distance past the bottom edge, in rows,
	// beyond which a drop's trail is fully off screen and released
	ReleaseMargin = 2.0
)

// Trail Decay
const (
	// TrailFalloff is the exponential brightness falloff per trail index
	TrailFalloff = 0.35

	// AgeDecay is the exponential brightness decay per second of drop age
	AgeDecay = 0.08

	// MinBrightness is the floor below which a cell is not painted
	MinBrightness = 0.04

	// GlyphShuffleChance is the per-tick probability that a drop's
	// leading glyph mutates
	GlyphShuffleChance = 0.08
)
