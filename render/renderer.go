package render

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/screwyforcepush/agentrain/parameter"
	"github.com/screwyforcepush/agentrain/rain"
)

// glowRetain is the per-frame color fraction kept by the fade pass
const glowRetain = 0.62

var white = colorful.Color{R: 1, G: 1, B: 1}

// Renderer paints drop snapshots onto a surface. It is a pure
// function of the snapshot: it holds no simulation state and never
// mutates drops
type Renderer struct {
	surface Surface
	buf     *Buffer
	stride  int // grid columns per logical drop column
}

// NewRenderer creates a renderer over an initialized surface
// stride spreads logical columns across the grid; 1 uses every column
func NewRenderer(surface Surface, stride int) *Renderer {
	if stride < 1 {
		stride = 1
	}
	w, h := surface.Size()
	return &Renderer{
		surface: surface,
		buf:     NewBuffer(w, h),
		stride:  stride,
	}
}

// Stride returns the column spacing
func (r *Renderer) Stride() int {
	return r.stride
}

// Columns returns the logical column count for the current width
func (r *Renderer) Columns() int {
	w, _ := r.buf.Size()
	n := w / r.stride
	if n < 1 {
		n = 1
	}
	return n
}

// Rows returns the current grid height
func (r *Renderer) Rows() int {
	_, h := r.buf.Size()
	return h
}

// Resize adjusts the compositor grid to new logical dimensions
func (r *Renderer) Resize(cols, rows int) {
	r.buf.Resize(cols*r.stride, rows)
	r.surface.Clear()
}

// Paint composites one frame: fade (or clear) the previous frame,
// then draw every visible cell of every active drop
func (r *Renderer) Paint(drops []*rain.Drop, glow bool) {
	if glow {
		r.buf.Fade(glowRetain)
	} else {
		r.buf.Clear()
	}
	w, h := r.buf.Size()

	for _, d := range drops {
		x := d.Column * r.stride
		if x < 0 || x >= w {
			continue // off-grid column after a shrink, kept by policy
		}
		lead := int(d.Y)
		for j := range d.Cells {
			y := lead - j
			if y < 0 || y >= h {
				continue
			}
			c := &d.Cells[j]
			b := c.Brightness
			if b < parameter.MinBrightness {
				continue
			}
			if runewidth.RuneWidth(c.Glyph) == 2 && x+1 >= w {
				continue
			}
			r.buf.Set(x, y, c.Glyph, r.cellColor(d, c, b))
		}
	}
	r.buf.Flush(r.surface)
}

// cellColor resolves a cell's paint color: the leading glyph blends
// toward white, trailing glyphs dim with brightness
func (r *Renderer) cellColor(d *rain.Drop, c *rain.Cell, b float64) RGB {
	if c.Leading {
		return FromColorful(d.Color.BlendRgb(white, 0.65*b))
	}
	return FromColorful(d.Color).Scale(b)
}
