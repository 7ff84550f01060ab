package render

import "github.com/lucasb-eyer/go-colorful"

// RGB stores explicit 8-bit color channels, decoupled from the
// terminal backend
type RGB struct {
	R, G, B uint8
}

// RGBBlack is the cleared cell color
var RGBBlack = RGB{0, 0, 0}

// FromColorful converts a colorful color with clamping
func FromColorful(c colorful.Color) RGB {
	cc := c.Clamped()
	return RGB{
		R: uint8(cc.R*255 + 0.5),
		G: uint8(cc.G*255 + 0.5),
		B: uint8(cc.B*255 + 0.5),
	}
}

// Scale multiplies each channel by f in [0,1]
func (c RGB) Scale(f float64) RGB {
	if f <= 0 {
		return RGBBlack
	}
	if f >= 1 {
		return c
	}
	return RGB{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
	}
}

// Blend performs alpha blending: result = src*alpha + dst*(1-alpha)
func (c RGB) Blend(src RGB, alpha float64) RGB {
	if alpha <= 0 {
		return c
	}
	if alpha >= 1 {
		return src
	}
	inv := 1.0 - alpha
	return RGB{
		R: uint8(float64(src.R)*alpha + float64(c.R)*inv),
		G: uint8(float64(src.G)*alpha + float64(c.G)*inv),
		B: uint8(float64(src.B)*alpha + float64(c.B)*inv),
	}
}

// Dim reports whether the color has faded below visibility
func (c RGB) Dim() bool {
	return int(c.R)+int(c.G)+int(c.B) < 24
}
