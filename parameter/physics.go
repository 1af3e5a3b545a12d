package parameter

// Character movement tuning, all values in tiles per tick
const (
	// JumpImpulse is the vertical velocity set when a grounded character jumps
	JumpImpulse = -0.75

	// JumpBias lifts the character off the ground before the impulse applies,
	// so the same bottom contact is not detected again within the jump tick
	JumpBias = 0.01

	// WalkAcceleration is added per tick toward the walk speed cap
	WalkAcceleration = 0.075

	// WalkSpeed caps horizontal speed reachable by walking
	WalkSpeed = 0.5

	// Friction is removed from horizontal speed per tick, never crossing zero
	Friction = 0.05
)

// Gravity tuning
const (
	// Gravity is added to vertical velocity per airborne tick
	Gravity = 0.05

	// TerminalVelocity stops gravity from accelerating a falling character further
	TerminalVelocity = 1.0
)

// CollisionLookahead is the Manhattan radius of tiles tested around a character
const CollisionLookahead = 5
