package physics

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/lixenwraith/tile-world/chunk"
	"github.com/lixenwraith/tile-world/component"
	"github.com/lixenwraith/tile-world/core"
	"github.com/lixenwraith/tile-world/vmath"
)

// grid is an in-memory terrain keyed by lattice position
type grid map[core.Cell]*chunk.Tile

func (g grid) TileAt(p core.Cell) (*chunk.Tile, bool) {
	t, ok := g[p]
	return t, ok
}

func (g grid) add(x, y int) {
	g[core.Cell{X: x, Y: y}] = &chunk.Tile{ID: fmt.Sprintf("t%d|%d", x, y), Kind: chunk.KindStone, X: x, Y: y}
}

// floor lays a row of tiles at y=0 spanning [from, to]
func floor(from, to int) grid {
	g := make(grid)
	for x := from; x <= to; x++ {
		g.add(x, 0)
	}
	return g
}

func character(x, y float64) *component.Character {
	c := component.NewCharacter()
	c.Position = core.Point{X: x, Y: y}
	return c
}

// standing puts a character at rest on the floor row
func standing(x float64) *component.Character {
	c := character(x, -1)
	c.Collisions = []vmath.Collision{{Side: vmath.SideBottom}}
	return c
}

func TestStep_FallAndLand(t *testing.T) {
	r := NewResolver()
	g := floor(-20, 20)
	c := character(0, -3)

	for tick := 1; tick <= 8; tick++ {
		rep := r.Step(c, g)
		if rep.Landed || c.Grounded() {
			t.Fatalf("Tick %d: expected airborne, got position %+v", tick, c.Position)
		}
	}

	rep := r.Step(c, g)
	if !rep.Landed {
		t.Fatalf("Expected landing on tick 9")
	}
	if c.Position.Y != -1 || c.Velocity.Y != 0 {
		t.Errorf("Expected rest at y=-1 with vy=0, got y=%v vy=%v", c.Position.Y, c.Velocity.Y)
	}
	if rep.Collisions == 0 {
		t.Errorf("Expected collisions reported on landing")
	}

	for tick := 10; tick < 20; tick++ {
		rep := r.Step(c, g)
		if rep.Landed {
			t.Errorf("Tick %d: landing reported twice", tick)
		}
		if c.Position.Y != -1 || !c.Grounded() {
			t.Errorf("Tick %d: expected to stay grounded at y=-1, got %v", tick, c.Position.Y)
		}
	}
}

func TestStep_JumpLag(t *testing.T) {
	r := NewResolver()
	g := floor(-20, 20)
	c := character(0, -3)
	c.Movement.Jump = true

	var landedAt, jumpedAt int
	for tick := 1; tick <= 12 && jumpedAt == 0; tick++ {
		rep := r.Step(c, g)
		if rep.Landed {
			landedAt = tick
		}
		if rep.Jumped {
			jumpedAt = tick
		}
	}

	if landedAt != 9 {
		t.Fatalf("Expected landing on tick 9, got %d", landedAt)
	}
	// The jump check reads the previous tick's contacts
	if jumpedAt != landedAt+1 {
		t.Errorf("Expected jump one tick after landing, got landing %d jump %d", landedAt, jumpedAt)
	}
	if c.Velocity.Y != -0.75 {
		t.Errorf("Expected jump impulse to survive the jump tick, got %v", c.Velocity.Y)
	}
}

func TestStep_JumpBlockedByCeiling(t *testing.T) {
	r := NewResolver()
	g := floor(-5, 5)
	g.add(0, -2)

	c := standing(0)
	c.Collisions = append(c.Collisions, vmath.Collision{Side: vmath.SideTop})
	c.Movement.Jump = true

	if rep := r.Step(c, g); rep.Jumped {
		t.Errorf("Expected no jump with a top contact")
	}
	if c.Position.Y != -1 {
		t.Errorf("Expected to stay at y=-1, got %v", c.Position.Y)
	}
}

func TestStep_CeilingBump(t *testing.T) {
	r := NewResolver()
	g := floor(-10, 10)
	for x := -3; x <= 3; x++ {
		g.add(x, -4)
	}

	c := standing(0)
	c.Movement.Jump = true

	rep := r.Step(c, g)
	if !rep.Jumped {
		t.Fatalf("Expected jump from rest")
	}
	c.Movement.Jump = false

	r.Step(c, g)
	r.Step(c, g)
	if c.Position.Y != -3 || c.Velocity.Y != 0 {
		t.Errorf("Expected head stopped under the ceiling at y=-3, got y=%v vy=%v", c.Position.Y, c.Velocity.Y)
	}
	if !c.Blocked() {
		t.Errorf("Expected top contact after bump")
	}

	for tick := 0; tick < 20; tick++ {
		r.Step(c, g)
	}
	if c.Position.Y != -1 || !c.Grounded() {
		t.Errorf("Expected to fall back to the floor, got y=%v", c.Position.Y)
	}
}

func TestStep_WallStop(t *testing.T) {
	r := NewResolver()
	g := floor(-10, 10)
	g.add(3, -1)

	c := standing(0)
	c.Movement.Right = true

	for tick := 1; tick <= 30; tick++ {
		r.Step(c, g)
		if c.Position.X > 2 {
			t.Fatalf("Tick %d: entered the wall at x=%v", tick, c.Position.X)
		}
	}
	if c.Position.X != 2 {
		t.Errorf("Expected to rest against the wall at x=2, got %v", c.Position.X)
	}
	if c.Position.Y != -1 {
		t.Errorf("Expected to stay on the floor, got y=%v", c.Position.Y)
	}
}

func TestStep_WalkAcceleration(t *testing.T) {
	r := NewResolver()
	g := floor(-40, 40)
	c := standing(0)
	c.Movement.Left = true

	for tick := 0; tick < 60; tick++ {
		r.applyIntent(c)
		if c.Velocity.X < -0.5 {
			t.Fatalf("Tick %d: walk speed overshot to %v", tick, c.Velocity.X)
		}
	}
	if c.Velocity.X != -0.5 {
		t.Errorf("Expected walk speed -0.5, got %v", c.Velocity.X)
	}

	// Opposing intents cancel out
	c = standing(0)
	c.Movement.Left, c.Movement.Right = true, true
	r.Step(c, g)
	if c.Velocity.X != 0 || c.Position.X != 0 {
		t.Errorf("Expected no motion with both directions held, got %+v", c.Velocity)
	}
}

func TestFriction_ReachesZero(t *testing.T) {
	r := NewResolver()

	for _, start := range []float64{2.0, -2.0} {
		c := character(0, 0)
		c.Velocity.X = start
		for tick := 1; tick <= 40; tick++ {
			r.applyFriction(c)
			if start > 0 && c.Velocity.X < 0 || start < 0 && c.Velocity.X > 0 {
				t.Fatalf("start %v tick %d: friction crossed zero to %v", start, tick, c.Velocity.X)
			}
			if tick == 39 && c.Velocity.X == 0 {
				t.Errorf("start %v: expected residual velocity after 39 ticks", start)
			}
		}
		if c.Velocity.X != 0 {
			t.Errorf("start %v: expected exactly 0 after 40 ticks, got %v", start, c.Velocity.X)
		}
	}
}

func TestGravity_TerminalVelocity(t *testing.T) {
	r := NewResolver()
	c := character(0, 0)
	for tick := 0; tick < 100; tick++ {
		r.applyGravity(c)
	}
	if c.Velocity.Y > 1.05+vmath.Epsilon {
		t.Errorf("Expected fall speed capped near terminal velocity, got %v", c.Velocity.Y)
	}
	if c.Velocity.Y < 1.0 {
		t.Errorf("Expected terminal velocity reached, got %v", c.Velocity.Y)
	}
}

func TestIntegrate_SeamDoesNotTunnel(t *testing.T) {
	r := NewResolver()
	g := floor(-20, 20)

	// A fast fall straddling two floor tiles overlaps each less horizontally
	// than vertically, so neither contact reads as bottom
	c := character(-7.6, -1.01)
	c.Velocity.Y = 0.8
	r.integrate(c, g)

	if c.Position.Y != -1 || c.Velocity.Y != 0 {
		t.Errorf("Expected rest on the floor at y=-1, got y=%v vy=%v", c.Position.Y, c.Velocity.Y)
	}
	if c.Position.X != -7.6 {
		t.Errorf("Expected x unchanged, got %v", c.Position.X)
	}
	if !c.Grounded() {
		t.Errorf("Expected committed contacts to include the floor")
	}
}

func TestIntegrate_LatticeDrift(t *testing.T) {
	r := NewResolver()
	g := floor(-20, 20)
	g.add(10, -1)

	// Drift just short of x=11 must not snap back into the wall tile
	c := character(10.999999999999998, -1.76)
	c.Velocity = component.Velocity{X: -0.075, Y: 0.8}
	r.integrate(c, g)

	for _, tile := range g {
		if vmath.Penetrates(c.Bounds(), tile.Bounds()) {
			t.Errorf("Committed position %+v penetrates tile %d|%d", c.Position, tile.X, tile.Y)
		}
	}
	if c.Position.X != 11 || c.Position.Y != -1 {
		t.Errorf("Expected (11, -1), got %+v", c.Position)
	}
}

// checkResolved verifies no contact faces the residual velocity and nothing is penetrated
func checkResolved(t *testing.T, tick int, c *component.Character, g grid) {
	t.Helper()
	for _, tile := range g {
		res := vmath.Detect(c, tile)
		if !res.Colliding {
			continue
		}
		side := res.Collision.Side
		facing := c.Velocity.X > 0 && side == vmath.SideRight ||
			c.Velocity.X < 0 && side == vmath.SideLeft ||
			c.Velocity.Y > 0 && side == vmath.SideBottom ||
			c.Velocity.Y < 0 && side == vmath.SideTop
		if facing {
			t.Fatalf("Tick %d: %s contact with tile %d|%d against velocity %+v at %+v",
				tick, side, tile.X, tile.Y, c.Velocity, c.Position)
		}
		if vmath.Penetrates(c.Bounds(), tile.Bounds()) {
			t.Fatalf("Tick %d: resting inside tile %d|%d at %+v", tick, tile.X, tile.Y, c.Position)
		}
	}
}

// terrain builds a floor with random pillars and floating ledges, keeping spawn clear
func terrain(rng *rand.Rand) grid {
	g := floor(-200, 200)
	for i := 0; i < 80; i++ {
		x := rng.IntN(301) - 150
		if x >= -2 && x <= 2 {
			continue
		}
		for h := 1; h <= 1+rng.IntN(3); h++ {
			g.add(x, -h)
		}
	}
	for i := 0; i < 30; i++ {
		x, y := rng.IntN(301)-150, -3-rng.IntN(5)
		for k := 0; k < 1+rng.IntN(4); k++ {
			g.add(x+k, y)
		}
	}
	return g
}

func TestIntegrate_NoTunnelling(t *testing.T) {
	r := NewResolver()

	for seed := uint64(1); seed <= 12; seed++ {
		rng := rand.New(rand.NewPCG(seed, 0))
		g := terrain(rng)
		c := character(0, -1)

		for tick := 0; tick < 1500; tick++ {
			if tick%30 == 0 {
				c.Movement = component.Movement{
					Left:  rng.Float64() < 0.4,
					Right: rng.Float64() < 0.5,
					Jump:  rng.Float64() < 0.5,
				}
			}

			// Same order as Step, with the check between integration and friction
			r.applyIntent(c)
			r.applyGravity(c)
			r.integrate(c, g)
			checkResolved(t, tick, c, g)
			r.applyFriction(c)

			if c.Position.Y > 1 {
				t.Fatalf("seed %d tick %d: fell through the floor at %+v", seed, tick, c.Position)
			}
		}
	}
}

func TestCollisions_UsesLookahead(t *testing.T) {
	g := make(grid)
	g.add(0, 0)
	g.add(9, 0)

	r := &Resolver{Lookahead: 2}
	body := core.Box{Position: core.Point{X: 0, Y: -1}, Size: core.Size{Width: 1, Height: 1}}
	got := r.Collisions(body, body.Position, g)
	if len(got) != 1 || got[0].Side != vmath.SideBottom {
		t.Errorf("Expected a single bottom contact, got %v", got)
	}

	// Tiles outside the lookahead are never tested
	far := core.Box{Position: core.Point{X: 9, Y: -1}, Size: core.Size{Width: 1, Height: 1}}
	if got := r.Collisions(far, core.Point{}, g); len(got) != 0 {
		t.Errorf("Expected no contacts outside the lookahead, got %v", got)
	}
}
