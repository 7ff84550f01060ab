package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Surface is the drawing target owned by the renderer. Nothing else
// writes to it
type Surface interface {
	Size() (width, height int)
	SetContent(x, y int, r rune, fg RGB)
	Show()
	Clear()
	Fini()
}

// TcellSurface adapts a tcell screen to the Surface interface
type TcellSurface struct {
	screen tcell.Screen
	bg     tcell.Style
}

// NewTcellSurface allocates and initializes a terminal screen
func NewTcellSurface() (*TcellSurface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("allocate screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableFocus()
	bg := tcell.StyleDefault.Background(tcell.ColorBlack)
	screen.SetStyle(bg)
	screen.Clear()
	return &TcellSurface{screen: screen, bg: bg}, nil
}

// Screen exposes the underlying screen for the host input loop
func (s *TcellSurface) Screen() tcell.Screen {
	return s.screen
}

// Size returns the terminal dimensions
func (s *TcellSurface) Size() (int, int) {
	return s.screen.Size()
}

// SetContent writes one cell
func (s *TcellSurface) SetContent(x, y int, r rune, fg RGB) {
	style := s.bg.Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B)))
	s.screen.SetContent(x, y, r, nil, style)
}

// Show flushes pending writes to the terminal
func (s *TcellSurface) Show() {
	s.screen.Show()
}

// Clear blanks the terminal
func (s *TcellSurface) Clear() {
	s.screen.Clear()
}

// Fini restores the terminal. Safe to call multiple times
func (s *TcellSurface) Fini() {
	s.screen.Fini()
}
