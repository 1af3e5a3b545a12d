package component

import (
	"time"

	"github.com/lixenwraith/tile-world/core"
)

// CharacterRecord is the persisted form of a character
// Collisions are derived every tick and never stored
type CharacterRecord struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Position  struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"position"`
	Size struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	} `json:"size"`
	Velocity struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"velocity"`
	Movement Movement `json:"movement"`
}

// ToRecord snapshots the persisted fields
func (c *Character) ToRecord() CharacterRecord {
	var r CharacterRecord
	r.ID = c.ID
	r.CreatedAt = c.CreatedAt
	r.Position.X, r.Position.Y = c.Position.X, c.Position.Y
	r.Size.Width, r.Size.Height = c.Size.Width, c.Size.Height
	r.Velocity.X, r.Velocity.Y = c.Velocity.X, c.Velocity.Y
	r.Movement = c.Movement
	return r
}

// FromRecord restores a character
// A zero size in an old record falls back to the default body
func FromRecord(r CharacterRecord) *Character {
	c := NewCharacter()
	if r.ID != "" {
		c.ID = r.ID
	}
	if !r.CreatedAt.IsZero() {
		c.CreatedAt = r.CreatedAt
	}
	c.Position = core.Point{X: r.Position.X, Y: r.Position.Y}
	if r.Size.Width > 0 && r.Size.Height > 0 {
		c.Size = core.Size{Width: r.Size.Width, Height: r.Size.Height}
	}
	c.Velocity = Velocity{X: r.Velocity.X, Y: r.Velocity.Y}
	c.Movement = r.Movement
	return c
}
