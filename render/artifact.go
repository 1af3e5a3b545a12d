package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tile-world/chunk"
)

// Glyph is one terminal cell
type Glyph struct {
	Rune  rune
	Style tcell.Style
}

// Artifact is the pre-drawn image of one chunk
// Each tile spans tileSize columns and one row, so the image is
// Size*tileSize wide and Size tall
type Artifact struct {
	Width  int
	Height int
	glyphs []Glyph
}

// NewArtifact allocates a blank image
func NewArtifact(width, height int) *Artifact {
	return &Artifact{
		Width:  width,
		Height: height,
		glyphs: make([]Glyph, width*height),
	}
}

func (a *Artifact) inBounds(x, y int) bool {
	return x >= 0 && x < a.Width && y >= 0 && y < a.Height
}

// Set writes a glyph, ignoring out-of-bounds positions
func (a *Artifact) Set(x, y int, g Glyph) {
	if a.inBounds(x, y) {
		a.glyphs[y*a.Width+x] = g
	}
}

// At returns the glyph at (x, y)
func (a *Artifact) At(x, y int) (Glyph, bool) {
	if !a.inBounds(x, y) {
		return Glyph{}, false
	}
	return a.glyphs[y*a.Width+x], true
}

// fill sets every glyph to g using exponential copy
func (a *Artifact) fill(g Glyph) {
	if len(a.glyphs) == 0 {
		return
	}
	a.glyphs[0] = g
	for filled := 1; filled < len(a.glyphs); filled *= 2 {
		copy(a.glyphs[filled:], a.glyphs[:filled])
	}
}

// Bake draws a chunk: background by horizon, then tiles
// The result depends only on the chunk's cell and tile set, never on insertion order.
// Debug adds a dotted border and the chunk coordinate.
func Bake(c *chunk.Chunk, tileSize int, debug bool) *Artifact {
	if tileSize < 1 {
		tileSize = 1
	}
	a := NewArtifact(c.Size*tileSize, c.Size)
	bg := backgroundStyle(c.Cell.Y)
	a.fill(Glyph{Rune: RuneFill, Style: bg})

	if debug {
		border := Glyph{Rune: RuneBorder, Style: bg.Foreground(ColorLabel)}
		for x := 0; x < a.Width; x++ {
			a.Set(x, 0, border)
			a.Set(x, a.Height-1, border)
		}
		for y := 0; y < a.Height; y++ {
			a.Set(0, y, border)
			a.Set(a.Width-1, y, border)
		}
		label := fmt.Sprintf("%d|%d", c.Cell.X, c.Cell.Y)
		for i, r := range label {
			a.Set(tileSize+i, a.Height/2, Glyph{Rune: r, Style: bg.Foreground(ColorLabel)})
		}
	}

	origin := c.Origin()
	for _, t := range c.Tiles() {
		col := tileColor(t.Kind)
		g := Glyph{Rune: RuneTile, Style: tcell.StyleDefault.Foreground(col).Background(col)}
		lx, ly := t.X-origin.X, t.Y-origin.Y
		for k := 0; k < tileSize; k++ {
			a.Set(lx*tileSize+k, ly, g)
		}
	}
	return a
}
