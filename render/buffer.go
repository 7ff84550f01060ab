package render

// cell is one compositor cell
type cell struct {
	Rune rune
	Fg   RGB
}

// Buffer is a persistent compositor grid. Between frames it either
// clears fully or fades toward black, which is what leaves the
// trailing glow behind moving drops
type Buffer struct {
	cells  []cell
	width  int
	height int
}

// NewBuffer creates a buffer with the given dimensions
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Resize adjusts dimensions, reallocating only when capacity is
// insufficient
func (b *Buffer) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	size := width * height
	if cap(b.cells) < size {
		b.cells = make([]cell, size)
	} else {
		b.cells = b.cells[:size]
	}
	b.width = width
	b.height = height
	b.Clear()
}

// Size returns the buffer dimensions
func (b *Buffer) Size() (int, int) {
	return b.width, b.height
}

// Clear resets every cell
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = cell{}
	}
}

// Fade scales every cell's color toward black, dropping the glyph
// once it is no longer visible. factor is the retained fraction
func (b *Buffer) Fade(factor float64) {
	for i := range b.cells {
		c := &b.cells[i]
		if c.Rune == 0 {
			continue
		}
		c.Fg = c.Fg.Scale(factor)
		if c.Fg.Dim() {
			*c = cell{}
		}
	}
}

// Set writes a glyph cell. Out-of-bounds writes are discarded
func (b *Buffer) Set(x, y int, r rune, fg RGB) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = cell{Rune: r, Fg: fg}
}

// At returns the cell contents at a position
func (b *Buffer) At(x, y int) (rune, RGB) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, RGBBlack
	}
	c := b.cells[y*b.width+x]
	return c.Rune, c.Fg
}

// Flush writes the full grid to the surface
func (b *Buffer) Flush(s Surface) {
	for y := 0; y < b.height; y++ {
		row := y * b.width
		for x := 0; x < b.width; x++ {
			c := b.cells[row+x]
			if c.Rune == 0 {
				s.SetContent(x, y, ' ', RGBBlack)
				continue
			}
			s.SetContent(x, y, c.Rune, c.Fg)
		}
	}
	s.Show()
}
