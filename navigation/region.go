package navigation

import "github.com/lixenwraith/tile-world/core"

// Sibling offsets in expansion order: N, S, W, E
var siblingOffsets = [4]core.Cell{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// Neighbors returns the four orthogonal siblings of c
func Neighbors(c core.Cell) [4]core.Cell {
	var out [4]core.Cell
	for i, o := range siblingOffsets {
		out[i] = core.Cell{X: c.X + o.X, Y: c.Y + o.Y}
	}
	return out
}

// ActiveCells returns every cell within Manhattan distance renderDistance of anchor
// Expansion is breadth-first, one frontier per distance level, and a cell is
// marked visited before it is queued so no cell is expanded twice.
// A negative renderDistance is clamped to 0, yielding just the anchor.
func ActiveCells(anchor core.Cell, renderDistance int) core.CellSet {
	if renderDistance < 0 {
		renderDistance = 0
	}

	// Closed ball size: 2d^2 + 2d + 1
	visited := make(core.CellSet, 2*renderDistance*renderDistance+2*renderDistance+1)
	visited.Add(anchor)

	frontier := []core.Cell{anchor}
	next := make([]core.Cell, 0, 4)

	for level := 0; level < renderDistance && len(frontier) > 0; level++ {
		next = next[:0]
		for _, c := range frontier {
			for _, n := range Neighbors(c) {
				if visited.Add(n) {
					next = append(next, n)
				}
			}
		}
		frontier, next = next, frontier
	}

	return visited
}
