package core

import "math"

// Point is a real-valued world position in tile units
type Point struct {
	X, Y float64
}

// Add returns p translated by (dx, dy)
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Round returns the nearest lattice cell, halves rounded toward +inf
func (p Point) Round() Cell {
	return Cell{X: int(math.Floor(p.X + 0.5)), Y: int(math.Floor(p.Y + 0.5))}
}

// Floor returns the lattice cell containing p
func (p Point) Floor() Cell {
	return Cell{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// Cell is an integer grid coordinate, used for chunk cells and the tile lattice
type Cell struct {
	X, Y int
}

// Point converts the cell to a world position
func (c Cell) Point() Point {
	return Point{X: float64(c.X), Y: float64(c.Y)}
}

// Manhattan returns the orthogonal step distance between two cells
func (c Cell) Manhattan(o Cell) int {
	dx := c.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := c.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Size is a width/height pair, both expected positive
type Size struct {
	Width, Height float64
}

// Box is an axis-aligned rectangle anchored at its top-left corner
// Y grows downward, so Top < Bottom for positive heights
type Box struct {
	Position Point
	Size     Size
}

func (b Box) Left() float64   { return b.Position.X }
func (b Box) Right() float64  { return b.Position.X + b.Size.Width }
func (b Box) Top() float64    { return b.Position.Y }
func (b Box) Bottom() float64 { return b.Position.Y + b.Size.Height }

// Bounds lets a bare Box take part in collision tests
func (b Box) Bounds() Box { return b }

// Entity is anything with an axis-aligned footprint
// Non-positive sizes and NaN positions are undefined; callers must not construct them
type Entity interface {
	Bounds() Box
}
