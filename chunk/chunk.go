package chunk

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/tile-world/core"
)

var (
	// ErrOccupied is returned when a tile already sits at the requested position
	ErrOccupied = errors.New("chunk: position occupied")
	// ErrOutOfRange is returned when a tile lies outside the chunk's cell
	ErrOutOfRange = errors.New("chunk: position outside chunk")
)

// Kind selects the material of a tile
type Kind uint8

const (
	KindStone Kind = iota + 1
	KindDirt
	KindBrick
)

var kindNames = map[Kind]string{
	KindStone: "stone",
	KindDirt:  "dirt",
	KindBrick: "brick",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Tile is a solid 1x1 unit of world geometry on the integer lattice
type Tile struct {
	ID   string
	Kind Kind
	X, Y int
}

// Bounds implements core.Entity
func (t *Tile) Bounds() core.Box {
	return core.Box{
		Position: core.Point{X: float64(t.X), Y: float64(t.Y)},
		Size:     core.Size{Width: 1, Height: 1},
	}
}

// Cell returns the lattice position of the tile
func (t *Tile) Cell() core.Cell {
	return core.Cell{X: t.X, Y: t.Y}
}

// Chunk holds the tiles of one grid cell
// Tiles are append-only and unique per position
type Chunk struct {
	Cell core.Cell
	Size int

	tiles []*Tile
	index map[core.Cell]*Tile
}

// New creates an empty chunk for cell with the given edge length
func New(cell core.Cell, size int) *Chunk {
	return &Chunk{
		Cell:  cell,
		Size:  size,
		index: make(map[core.Cell]*Tile),
	}
}

// CellOf returns the chunk cell owning lattice position p
func CellOf(p core.Cell, size int) core.Cell {
	return core.Cell{X: floorDiv(p.X, size), Y: floorDiv(p.Y, size)}
}

// CellOfPoint returns the chunk cell containing world position p
func CellOfPoint(p core.Point, size int) core.Cell {
	return CellOf(p.Floor(), size)
}

// Origin returns the lattice position of the chunk's top-left tile
func (c *Chunk) Origin() core.Cell {
	return core.Cell{X: c.Cell.X * c.Size, Y: c.Cell.Y * c.Size}
}

// Contains reports whether lattice position p falls inside this chunk's range
func (c *Chunk) Contains(p core.Cell) bool {
	o := c.Origin()
	return p.X >= o.X && p.X < o.X+c.Size && p.Y >= o.Y && p.Y < o.Y+c.Size
}

// Add appends t, rejecting duplicates and out-of-range positions
func (c *Chunk) Add(t *Tile) error {
	p := t.Cell()
	if !c.Contains(p) {
		return fmt.Errorf("%w: tile (%d,%d) in chunk (%d,%d)", ErrOutOfRange, p.X, p.Y, c.Cell.X, c.Cell.Y)
	}
	if _, ok := c.index[p]; ok {
		return fmt.Errorf("%w: (%d,%d)", ErrOccupied, p.X, p.Y)
	}
	c.tiles = append(c.tiles, t)
	c.index[p] = t
	return nil
}

// At returns the tile at lattice position p
func (c *Chunk) At(p core.Cell) (*Tile, bool) {
	t, ok := c.index[p]
	return t, ok
}

// Tiles returns the tiles in insertion order
// The slice is shared; callers must not modify it
func (c *Chunk) Tiles() []*Tile {
	return c.tiles
}

// Len returns the number of tiles
func (c *Chunk) Len() int {
	return len(c.tiles)
}

// floorDiv divides rounding toward negative infinity
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
