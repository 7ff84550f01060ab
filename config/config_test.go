package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultValidates tests the shipped defaults pass validation
func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected defaults to validate, got %v", err)
	}
	if cfg.CharacterSet != "matrix" || cfg.Palette != "green" {
		t.Errorf("Unexpected defaults: charset=%q palette=%q", cfg.CharacterSet, cfg.Palette)
	}
	if cfg.MaxDrops != 256 || cfg.TrailLength != 16 {
		t.Errorf("Unexpected defaults: max_drops=%d trail=%d", cfg.MaxDrops, cfg.TrailLength)
	}
}

// TestLoadMissingFile tests a missing config file falls back to
// defaults without error
func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Expected missing file to be fine, got %v", err)
	}
	if cfg != Default() {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

// TestLoadOverlay tests file values overlay defaults
func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rain.toml")
	body := `
column_density = 0.5
character_set = "binary"
spawn_rate = 4.0
palette = "amber"
max_drops = 64
reduced_motion = true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected load to succeed, got %v", err)
	}
	if cfg.ColumnDensity != 0.5 || cfg.CharacterSet != "binary" || cfg.Palette != "amber" {
		t.Errorf("Overlay mismatch: %+v", cfg)
	}
	if cfg.SpawnRate != 4.0 || cfg.MaxDrops != 64 || !cfg.ReducedMotion {
		t.Errorf("Overlay mismatch: %+v", cfg)
	}
	// Untouched fields keep their defaults
	if cfg.SpeedMin != 6.0 || cfg.TrailLength != 16 {
		t.Errorf("Expected untouched defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected overlaid config to validate, got %v", err)
	}
}

// TestLoadMalformed tests a malformed file is an error
func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("column_density = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected parse error for malformed file")
	}
}

// TestValidateRejects tests each range check fires
func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"density zero", func(c *Config) { c.ColumnDensity = 0 }, "column_density"},
		{"density above one", func(c *Config) { c.ColumnDensity = 1.5 }, "column_density"},
		{"speed min zero", func(c *Config) { c.SpeedMin = 0 }, "speed_min"},
		{"speed max below min", func(c *Config) { c.SpeedMax = 1 }, "speed_max"},
		{"negative spawn rate", func(c *Config) { c.SpawnRate = -1 }, "spawn_rate"},
		{"max drops zero", func(c *Config) { c.MaxDrops = 0 }, "max_drops"},
		{"max drops huge", func(c *Config) { c.MaxDrops = 100000 }, "max_drops"},
		{"trail too short", func(c *Config) { c.TrailLength = 2 }, "trail_length"},
		{"trail too long", func(c *Config) { c.TrailLength = 65 }, "trail_length"},
		{"negative feed rate", func(c *Config) { c.FeedRate = -0.5 }, "feed_rate"},
		{"empty charset", func(c *Config) { c.CharacterSet = "" }, "character_set"},
		{"unknown palette", func(c *Config) { c.Palette = "plaid" }, "palette"},
	}
	for _, tc := range cases {
		cfg := Default()
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: expected validation error", tc.name)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: expected error mentioning %q, got %v", tc.name, tc.want, err)
		}
	}
}

// TestCharsetResolution tests named sets and literal fallback
func TestCharsetResolution(t *testing.T) {
	cfg := Default()
	cfg.CharacterSet = "binary"
	if got := cfg.Charset(); len(got) != 2 || got[0] != '0' || got[1] != '1' {
		t.Errorf("Expected binary set, got %q", string(got))
	}

	cfg.CharacterSet = "xyz"
	if got := cfg.Charset(); string(got) != "xyz" {
		t.Errorf("Expected literal runes, got %q", string(got))
	}

	names := CharsetNames()
	if len(names) == 0 {
		t.Error("Expected built-in charset names")
	}
}

// TestPaletteResolution tests lookup and the green fallback
func TestPaletteResolution(t *testing.T) {
	cfg := Default()
	cfg.Palette = "amber"
	base, accent := cfg.Colors()
	if base.R != 1.0 || base.G != 0.75 {
		t.Errorf("Unexpected amber base: %+v", base)
	}
	if accent.B != 0.85 {
		t.Errorf("Unexpected amber accent: %+v", accent)
	}

	cfg.Palette = "nonexistent"
	base, _ = cfg.Colors()
	green := palettes["green"]
	if base != green.base {
		t.Errorf("Expected green fallback, got %+v", base)
	}
}

// TestStride tests density to column spacing conversion
func TestStride(t *testing.T) {
	cases := []struct {
		density float64
		want    int
	}{
		{1.0, 1},
		{0.75, 1},
		{0.5, 2},
		{0.25, 4},
		{0.1, 10},
	}
	for _, tc := range cases {
		cfg := Default()
		cfg.ColumnDensity = tc.density
		if got := cfg.Stride(); got != tc.want {
			t.Errorf("Stride(%.2f) = %d, want %d", tc.density, got, tc.want)
		}
	}
}
