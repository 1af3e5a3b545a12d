package core

import (
	"cmp"
	"slices"
)

// CellSet is an unordered set of cells keyed by exact coordinate
type CellSet map[Cell]struct{}

// NewCellSet creates a set holding the given cells
func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

// Add inserts c, returns false if it was already present
func (s CellSet) Add(c Cell) bool {
	if _, ok := s[c]; ok {
		return false
	}
	s[c] = struct{}{}
	return true
}

// Has reports membership
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of cells
func (s CellSet) Len() int { return len(s) }

// Equal reports whether both sets hold exactly the same cells
func (s CellSet) Equal(o CellSet) bool {
	if len(s) != len(o) {
		return false
	}
	for c := range s {
		if _, ok := o[c]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the cells in row-major order (Y, then X)
// Output order is for deterministic iteration only, the set itself is unordered
func (s CellSet) Sorted() []Cell {
	out := make([]Cell, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b Cell) int {
		if a.Y != b.Y {
			return cmp.Compare(a.Y, b.Y)
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}
