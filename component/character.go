package component

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/tile-world/core"
	"github.com/lixenwraith/tile-world/parameter"
	"github.com/lixenwraith/tile-world/vmath"
)

// Velocity is displacement per tick in tiles
type Velocity struct {
	X, Y float64
}

// Movement holds intent flags written by input and consumed by physics
type Movement struct {
	Left  bool `json:"left"`
	Right bool `json:"right"`
	Jump  bool `json:"jump"`
}

// Character is a moving body subject to physics
type Character struct {
	ID        string
	CreatedAt time.Time

	Position core.Point
	Size     core.Size
	Velocity Velocity
	Movement Movement

	// Collisions from the last integration step, replaced every tick
	Collisions []vmath.Collision
}

// NewCharacter creates a character at the default spawn with a fresh id
func NewCharacter() *Character {
	return &Character{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Position:  core.Point{X: parameter.SpawnX, Y: parameter.SpawnY},
		Size:      core.Size{Width: parameter.PlayerWidth, Height: parameter.PlayerHeight},
	}
}

// Bounds implements core.Entity
func (c *Character) Bounds() core.Box {
	return core.Box{Position: c.Position, Size: c.Size}
}

// Grounded reports a bottom contact in the last collision set
func (c *Character) Grounded() bool {
	return vmath.HasSide(c.Collisions, vmath.SideBottom)
}

// Blocked reports a top contact in the last collision set
func (c *Character) Blocked() bool {
	return vmath.HasSide(c.Collisions, vmath.SideTop)
}
