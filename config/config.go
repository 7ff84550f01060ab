// Package config resolves engine options from defaults, an optional
// TOML file, and CLI flag overrides applied by the command layer
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full option set. Unset fields resolve to defaults at
// load time
type Config struct {
	ColumnDensity float64 `toml:"column_density"` // fraction of grid columns carrying drops, (0,1]
	CharacterSet  string  `toml:"character_set"`  // named set or literal runes
	SpeedMin      float64 `toml:"speed_min"`      // rows per second
	SpeedMax      float64 `toml:"speed_max"`
	SpawnRate     float64 `toml:"spawn_rate"` // ambient spawns per second
	Palette       string  `toml:"palette"`
	MaxDrops      int     `toml:"max_drops"` // hard pool ceiling
	TrailLength   int     `toml:"trail_length"`
	ReducedMotion bool    `toml:"reduced_motion"`
	AudioCue      bool    `toml:"audio_cue"` // tone on quality downgrade
	FeedRate      float64 `toml:"feed_rate"` // demo feed events per second
	LogPath       string  `toml:"log_path"`
	LogLevel      string  `toml:"log_level"`
}

// Load reads the config file when present and overlays it on the
// defaults. A missing file is not an error; a malformed one is
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks ranges and name lookups, normalizing what it can
func (c *Config) Validate() error {
	if c.ColumnDensity <= 0 || c.ColumnDensity > 1 {
		return fmt.Errorf("column_density %.2f out of range (0,1]", c.ColumnDensity)
	}
	if c.SpeedMin <= 0 {
		return fmt.Errorf("speed_min must be positive, got %.2f", c.SpeedMin)
	}
	if c.SpeedMax < c.SpeedMin {
		return fmt.Errorf("speed_max %.2f below speed_min %.2f", c.SpeedMax, c.SpeedMin)
	}
	if c.SpawnRate < 0 {
		return fmt.Errorf("spawn_rate must not be negative, got %.2f", c.SpawnRate)
	}
	if c.MaxDrops < 1 || c.MaxDrops > maxDropCeiling {
		return fmt.Errorf("max_drops %d out of range [1,%d]", c.MaxDrops, maxDropCeiling)
	}
	if c.TrailLength < 3 || c.TrailLength > 64 {
		return fmt.Errorf("trail_length %d out of range [3,64]", c.TrailLength)
	}
	if c.FeedRate < 0 {
		return fmt.Errorf("feed_rate must not be negative, got %.2f", c.FeedRate)
	}
	if len(c.Charset()) == 0 {
		return errors.New("character_set resolves to no glyphs")
	}
	if _, ok := palettes[c.Palette]; !ok {
		return fmt.Errorf("unknown palette %q", c.Palette)
	}
	return nil
}

// Stride converts column density to a grid column spacing
func (c *Config) Stride() int {
	stride := int(1.0/c.ColumnDensity + 0.5)
	if stride < 1 {
		stride = 1
	}
	return stride
}
