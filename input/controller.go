package input

import "github.com/lixenwraith/tile-world/component"

// Controller turns discrete key presses into held movement intents
// Terminals report presses and auto-repeats but no releases, so an intent
// stays held for a window of ticks after its last press
type Controller struct {
	hold     uint64
	jumpHold uint64

	// last press tick plus one, zero when never pressed or released
	pressed [actionCount]uint64
	facing  int
}

// NewController creates a controller with walk and jump hold windows in ticks
func NewController(hold, jumpHold int) *Controller {
	return &Controller{
		hold:     uint64(max(hold, 1)),
		jumpHold: uint64(max(jumpHold, 1)),
		facing:   1,
	}
}

// Press records an action at tick
// Pressing one direction releases the other and turns to face it
func (c *Controller) Press(a Action, tick uint64) {
	if a >= actionCount || !a.Held() {
		return
	}
	switch a {
	case ActionLeft:
		c.pressed[ActionRight] = 0
		c.facing = -1
	case ActionRight:
		c.pressed[ActionLeft] = 0
		c.facing = 1
	}
	c.pressed[a] = tick + 1
}

// Apply writes the intents still held at tick into m
func (c *Controller) Apply(m *component.Movement, tick uint64) {
	m.Left = c.held(ActionLeft, tick, c.hold)
	m.Right = c.held(ActionRight, tick, c.hold)
	m.Jump = c.held(ActionJump, tick, c.jumpHold)
}

// Release drops every held intent
func (c *Controller) Release() {
	c.pressed = [actionCount]uint64{}
}

// Facing returns -1 when the last direction was left, +1 otherwise
func (c *Controller) Facing() int {
	return c.facing
}

func (c *Controller) held(a Action, tick, window uint64) bool {
	p := c.pressed[a]
	if p == 0 || tick+1 < p {
		return false
	}
	return tick+1-p < window
}
