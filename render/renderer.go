package render

import (
	"math"

	"github.com/lixenwraith/tile-world/component"
	"github.com/lixenwraith/tile-world/core"
)

// Scene is the drawable state of a running world
type Scene interface {
	// ActiveCells lists the loaded chunk cells in drawing order
	ActiveCells() []core.Cell
	Artifact(cell core.Cell) (*Artifact, bool)
	ChunkSize() int
	Characters() []*component.Character
}

// Camera projects world positions onto screen cells around a focus point
type Camera struct {
	Focus    core.Point
	TileSize int
	Width    int
	Height   int
}

// Project returns the screen cell of world position p
// The focus lands in the middle of the screen, offset by half a tile so a
// focused 1x1 body is centered
func (c Camera) Project(p core.Point) (x, y int) {
	dx := (p.X - c.Focus.X) * float64(c.TileSize)
	dy := p.Y - c.Focus.Y
	x = int(math.Floor(dx+0.5)) + (c.Width-c.TileSize)/2
	y = int(math.Floor(dy+0.5)) + (c.Height-1)/2
	return x, y
}

// Renderer draws a Scene on a Screen
type Renderer struct {
	screen   Screen
	tileSize int
}

// NewRenderer creates a renderer drawing tiles tileSize columns wide
func NewRenderer(screen Screen, tileSize int) *Renderer {
	if tileSize < 1 {
		tileSize = 1
	}
	return &Renderer{screen: screen, tileSize: tileSize}
}

// Camera returns a camera for the current screen size
func (r *Renderer) Camera(focus core.Point) Camera {
	w, h := r.screen.Size()
	return Camera{Focus: focus, TileSize: r.tileSize, Width: w, Height: h}
}

// Frame draws chunks, characters and the status line, then presents
func (r *Renderer) Frame(scene Scene, focus core.Point, status string) {
	cam := r.Camera(focus)
	r.screen.Clear()

	size := scene.ChunkSize()
	for _, cell := range scene.ActiveCells() {
		art, ok := scene.Artifact(cell)
		if !ok {
			continue
		}
		x, y := cam.Project(core.Point{X: float64(cell.X * size), Y: float64(cell.Y * size)})
		r.blit(art, x, y, cam)
	}

	for _, c := range scene.Characters() {
		r.drawCharacter(c, cam)
	}

	r.drawStatus(status, cam.Width)
	r.screen.Show()
}

// blit copies the visible part of an artifact with its top-left at (ox, oy)
func (r *Renderer) blit(art *Artifact, ox, oy int, cam Camera) {
	x0, y0 := max(0, -ox), max(0, -oy)
	x1, y1 := min(art.Width, cam.Width-ox), min(art.Height, cam.Height-oy)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			g, _ := art.At(x, y)
			r.screen.SetContent(ox+x, oy+y, g.Rune, nil, g.Style)
		}
	}
}

func (r *Renderer) drawCharacter(c *component.Character, cam Camera) {
	x, y := cam.Project(c.Position)
	w := int(math.Ceil(c.Size.Width * float64(r.tileSize)))
	h := int(math.Ceil(c.Size.Height))
	for dy := 0; dy < h; dy++ {
		for dx := 0; dx < w; dx++ {
			px, py := x+dx, y+dy
			if px < 0 || py < 0 || px >= cam.Width || py >= cam.Height {
				continue
			}
			r.screen.SetContent(px, py, RunePlayer, nil, StylePlayer)
		}
	}
}

func (r *Renderer) drawStatus(status string, width int) {
	x := 0
	for _, ch := range status {
		if x >= width {
			return
		}
		r.screen.SetContent(x, 0, ch, nil, StyleStatus)
		x++
	}
}
