package render

import "github.com/gdamore/tcell/v2"

// Screen is the subset of tcell.Screen the renderer draws on
type Screen interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
	Clear()
	Show()
}

// MemoryScreen implements Screen over an in-memory glyph grid
// Used for headless frames and tests
type MemoryScreen struct {
	art   *Artifact
	shown int
}

// NewMemoryScreen creates a blank screen of the given size
func NewMemoryScreen(width, height int) *MemoryScreen {
	return &MemoryScreen{art: NewArtifact(width, height)}
}

// SetContent writes to the grid. Combining runes are ignored.
func (ms *MemoryScreen) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	ms.art.Set(x, y, Glyph{Rune: primary, Style: style})
}

// GetContent reads from the grid. Width is always 1, combining always nil.
func (ms *MemoryScreen) GetContent(x, y int) (primary rune, combining []rune, style tcell.Style, width int) {
	g, _ := ms.art.At(x, y)
	return g.Rune, nil, g.Style, 1
}

// Size returns grid dimensions
func (ms *MemoryScreen) Size() (int, int) {
	return ms.art.Width, ms.art.Height
}

// Clear resets every cell to an empty glyph
func (ms *MemoryScreen) Clear() {
	ms.art.fill(Glyph{})
}

// Show counts presented frames
func (ms *MemoryScreen) Show() {
	ms.shown++
}

// Frames returns how many times Show was called
func (ms *MemoryScreen) Frames() int {
	return ms.shown
}

// Row returns the runes of line y as a string, blanks for unset cells
func (ms *MemoryScreen) Row(y int) string {
	out := make([]rune, 0, ms.art.Width)
	for x := 0; x < ms.art.Width; x++ {
		g, _ := ms.art.At(x, y)
		if g.Rune == 0 {
			g.Rune = ' '
		}
		out = append(out, g.Rune)
	}
	return string(out)
}
