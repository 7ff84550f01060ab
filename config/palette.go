package config

import "github.com/lucasb-eyer/go-colorful"

// palette is a base color for ambient drops and an accent for
// event-driven drops
type palette struct {
	base   colorful.Color
	accent colorful.Color
}

var palettes = map[string]palette{
	"green":  {base: colorful.Color{R: 0.0, G: 1.0, B: 0.25}, accent: colorful.Color{R: 1.0, G: 0.95, B: 0.4}},
	"amber":  {base: colorful.Color{R: 1.0, G: 0.75, B: 0.0}, accent: colorful.Color{R: 1.0, G: 1.0, B: 0.85}},
	"cyan":   {base: colorful.Color{R: 0.0, G: 0.9, B: 1.0}, accent: colorful.Color{R: 1.0, G: 0.5, B: 0.9}},
	"purple": {base: colorful.Color{R: 0.55, G: 0.2, B: 1.0}, accent: colorful.Color{R: 0.3, G: 1.0, B: 0.7}},
	"red":    {base: colorful.Color{R: 1.0, G: 0.15, B: 0.1}, accent: colorful.Color{R: 1.0, G: 0.9, B: 0.3}},
	"white":  {base: colorful.Color{R: 0.9, G: 0.9, B: 0.9}, accent: colorful.Color{R: 0.4, G: 0.8, B: 1.0}},
}

// Colors returns the base and accent colors for the configured
// palette. Unknown names fall back to green
func (c *Config) Colors() (base, accent colorful.Color) {
	p, ok := palettes[c.Palette]
	if !ok {
		p = palettes["green"]
	}
	return p.base, p.accent
}

// PaletteNames lists the built-in palette names
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	return names
}
