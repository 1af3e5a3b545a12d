package vmath

import (
	"math"

	"github.com/lixenwraith/tile-world/core"
)

// Epsilon absorbs float drift when comparing against the tile lattice
const Epsilon = 1e-9

// SnapUp returns the smallest lattice line at or above v, tolerating drift just past a line
func SnapUp(v float64) float64 {
	return math.Ceil(v - Epsilon)
}

// SnapDown returns the largest lattice line at or below v, tolerating drift just short of a line
func SnapDown(v float64) float64 {
	return math.Floor(v + Epsilon)
}

// Side identifies which face of the first subject touches the second
type Side uint8

const (
	SideNone Side = iota
	SideTop
	SideBottom
	SideLeft
	SideRight
)

var sideNames = [...]string{
	SideNone:   "none",
	SideTop:    "top",
	SideBottom: "bottom",
	SideLeft:   "left",
	SideRight:  "right",
}

func (s Side) String() string {
	if int(s) < len(sideNames) {
		return sideNames[s]
	}
	return "unknown"
}

// Collision is an ephemeral overlap record, never persisted
type Collision struct {
	Subjects [2]core.Entity
	Side     Side
}

// Result is the outcome of Detect
// Colliding and Containing are independent: a box nested inside another also overlaps it
type Result struct {
	Colliding  bool
	Containing bool
	Collision  Collision
	Container  core.Entity
	Contained  core.Entity
}

// Detect classifies how a relates to b
// Overlap is inclusive on both axes, so touching edges collide with zero penetration.
// The side is taken from the axis of least penetration; equal penetration resolves
// vertically. Comparisons are strict and must stay that way for stable tie-breaks.
// Containment of a inside b is reported alongside, with b as container.
func Detect(a, b core.Entity) Result {
	ab, bb := a.Bounds(), b.Bounds()

	var r Result

	colliding := ab.Left() <= bb.Right() &&
		ab.Right() >= bb.Left() &&
		ab.Top() <= bb.Bottom() &&
		ab.Bottom() >= bb.Top()

	if colliding {
		overlapX, overlapY := Overlap(ab, bb)

		var side Side
		switch {
		case overlapX < overlapY && ab.Left() < bb.Left():
			side = SideRight
		case overlapX < overlapY:
			side = SideLeft
		case ab.Top() < bb.Top():
			side = SideBottom
		default:
			side = SideTop
		}

		r.Colliding = true
		r.Collision = Collision{Subjects: [2]core.Entity{a, b}, Side: side}
	}

	if Contains(bb, ab) {
		r.Containing = true
		r.Container = b
		r.Contained = a
	}

	return r
}

// Overlap returns the extent shared by a and b on each axis, negative when apart
func Overlap(a, b core.Box) (x, y float64) {
	x = math.Min(a.Right(), b.Right()) - math.Max(a.Left(), b.Left())
	y = math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Top(), b.Top())
	return x, y
}

// Penetrates reports overlap deeper than Epsilon on both axes
// Touching edges collide under Detect but do not penetrate
func Penetrates(a, b core.Box) bool {
	x, y := Overlap(a, b)
	return x > Epsilon && y > Epsilon
}

// Contains reports whether inner lies entirely within outer, edges inclusive
func Contains(outer, inner core.Box) bool {
	return inner.Left() >= outer.Left() &&
		inner.Top() >= outer.Top() &&
		inner.Right() <= outer.Right() &&
		inner.Bottom() <= outer.Bottom()
}

// HasSide reports whether any collision in the set faces the given side
func HasSide(collisions []Collision, side Side) bool {
	for i := range collisions {
		if collisions[i].Side == side {
			return true
		}
	}
	return false
}
