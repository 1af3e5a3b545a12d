package physics

import (
	"math"

	"github.com/lixenwraith/tile-world/chunk"
	"github.com/lixenwraith/tile-world/component"
	"github.com/lixenwraith/tile-world/core"
	"github.com/lixenwraith/tile-world/navigation"
	"github.com/lixenwraith/tile-world/parameter"
	"github.com/lixenwraith/tile-world/vmath"
)

// Terrain resolves solid tiles by lattice position
// Implementations answer only from currently loaded chunks
type Terrain interface {
	TileAt(p core.Cell) (*chunk.Tile, bool)
}

// Report summarizes one character step
type Report struct {
	Jumped     bool
	Landed     bool
	Collisions int
}

// Resolver advances characters one tick at a time
type Resolver struct {
	// Lookahead is the Manhattan radius of tiles tested around the character
	Lookahead int
}

// NewResolver creates a resolver with the default lookahead
func NewResolver() *Resolver {
	return &Resolver{Lookahead: parameter.CollisionLookahead}
}

// Step runs intent, gravity, integration and friction in that order
// Intent and gravity read the collision set left by the previous tick, so a
// character that just landed can jump one tick later, not on the landing tick
func (r *Resolver) Step(c *component.Character, terrain Terrain) Report {
	wasGrounded := c.Grounded()

	var rep Report
	rep.Jumped = r.applyIntent(c)
	r.applyGravity(c)
	r.integrate(c, terrain)
	r.applyFriction(c)

	rep.Landed = !wasGrounded && c.Grounded()
	rep.Collisions = len(c.Collisions)
	return rep
}

// applyIntent converts movement flags to velocity, returns true on jump
func (r *Resolver) applyIntent(c *component.Character) bool {
	jumped := false
	if c.Movement.Jump && c.Grounded() && !c.Blocked() {
		c.Position.Y -= parameter.JumpBias
		c.Velocity.Y = parameter.JumpImpulse
		jumped = true
	}

	switch {
	case c.Movement.Left && !c.Movement.Right:
		c.Velocity.X = math.Max(c.Velocity.X-parameter.WalkAcceleration, -parameter.WalkSpeed)
	case c.Movement.Right && !c.Movement.Left:
		c.Velocity.X = math.Min(c.Velocity.X+parameter.WalkAcceleration, parameter.WalkSpeed)
	}
	return jumped
}

// applyGravity accelerates airborne characters up to terminal velocity
func (r *Resolver) applyGravity(c *component.Character) {
	if c.Grounded() {
		return
	}
	if c.Velocity.Y <= parameter.TerminalVelocity {
		c.Velocity.Y += parameter.Gravity
	}
}

// integrate moves the character by its velocity, clamping each axis that would
// run into a tile back to the lattice line it started from
func (r *Resolver) integrate(c *component.Character, terrain Terrain) {
	origin := c.Position
	tiles := r.nearby(origin, terrain)

	next := origin.Add(c.Velocity.X, c.Velocity.Y)
	collisions := detectAll(core.Box{Position: next, Size: c.Size}, tiles)

	switch {
	case c.Velocity.X > 0 && vmath.HasSide(collisions, vmath.SideRight):
		next.X = vmath.SnapUp(origin.X)
		c.Velocity.X = 0
	case c.Velocity.X < 0 && vmath.HasSide(collisions, vmath.SideLeft):
		next.X = vmath.SnapDown(origin.X)
		c.Velocity.X = 0
	}

	switch {
	case c.Velocity.Y > 0 && vmath.HasSide(collisions, vmath.SideBottom):
		next.Y = vmath.SnapUp(origin.Y)
		c.Velocity.Y = 0
	case c.Velocity.Y < 0 && vmath.HasSide(collisions, vmath.SideTop):
		next.Y = vmath.SnapDown(origin.Y)
		c.Velocity.Y = 0
	}

	next = r.settle(c, origin, next, tiles)

	c.Position = next
	// Contacts at the committed position join the set, a body stopped against
	// a floor it never reached prospectively still reads as grounded
	c.Collisions = append(collisions, detectAll(c.Bounds(), tiles)...)
}

// settle separates the committed box from tiles the side test let through
// A fast body crossing a tile seam can be classified by its shallow axis and
// end up inside the tile. Offending axes snap back to the lattice line they
// left and lose their velocity
func (r *Resolver) settle(c *component.Character, origin, next core.Point, tiles []*chunk.Tile) core.Point {
	from := core.Box{Position: origin, Size: c.Size}

	for pass := 0; pass < settlePasses; pass++ {
		changed := false
		for _, tile := range tiles {
			body := core.Box{Position: next, Size: c.Size}
			res := vmath.Detect(body, tile)
			if !res.Colliding {
				continue
			}

			switch blockingAxis(c.Velocity, res.Collision.Side, body, from, tile.Bounds()) {
			case axisX:
				x := snapToward(origin.X, next.X)
				changed = changed || x != next.X || c.Velocity.X != 0
				next.X = x
				c.Velocity.X = 0
			case axisY:
				y := snapToward(origin.Y, next.Y)
				changed = changed || y != next.Y || c.Velocity.Y != 0
				next.Y = y
				c.Velocity.Y = 0
			}
		}
		if !changed {
			break
		}
	}
	return next
}

type axis uint8

const (
	axisNone axis = iota
	axisX
	axisY
)

const settlePasses = 4

// blockingAxis picks the axis to stop when body still meets tile after clamping
// A contact facing the residual velocity blocks that axis. A penetration blocks
// the axis on which the tile was clear before the move, vertical when both were
func blockingAxis(v component.Velocity, side vmath.Side, body, from, tile core.Box) axis {
	switch {
	case v.X > 0 && side == vmath.SideRight, v.X < 0 && side == vmath.SideLeft:
		return axisX
	case v.Y > 0 && side == vmath.SideBottom, v.Y < 0 && side == vmath.SideTop:
		return axisY
	}

	if !vmath.Penetrates(body, tile) {
		return axisNone
	}
	fx, fy := vmath.Overlap(from, tile)
	switch {
	case fx > vmath.Epsilon:
		return axisY
	case fy > vmath.Epsilon:
		return axisX
	}
	return axisY
}

// snapToward returns the lattice line next to from in the direction of to
func snapToward(from, to float64) float64 {
	switch {
	case to > from:
		return vmath.SnapUp(from)
	case to < from:
		return vmath.SnapDown(from)
	}
	return to
}

// applyFriction decays horizontal velocity toward zero without crossing it
func (r *Resolver) applyFriction(c *component.Character) {
	switch {
	case c.Velocity.X > 0:
		c.Velocity.X = math.Max(0, c.Velocity.X-parameter.Friction)
	case c.Velocity.X < 0:
		c.Velocity.X = math.Min(0, c.Velocity.X+parameter.Friction)
	}
}

// Collisions tests body against every tile within the lookahead of around
func (r *Resolver) Collisions(body core.Entity, around core.Point, terrain Terrain) []vmath.Collision {
	return detectAll(body, r.nearby(around, terrain))
}

// nearby gathers loaded tiles within the lookahead of around, in lattice order
func (r *Resolver) nearby(around core.Point, terrain Terrain) []*chunk.Tile {
	var tiles []*chunk.Tile
	for _, p := range navigation.ActiveCells(around.Round(), r.Lookahead).Sorted() {
		if tile, ok := terrain.TileAt(p); ok {
			tiles = append(tiles, tile)
		}
	}
	return tiles
}

func detectAll(body core.Entity, tiles []*chunk.Tile) []vmath.Collision {
	var out []vmath.Collision
	for _, tile := range tiles {
		if res := vmath.Detect(body, tile); res.Colliding {
			out = append(out, res.Collision)
		}
	}
	return out
}
