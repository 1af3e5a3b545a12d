package parameter

import "time"

// World layout defaults, overridable by settings
const (
	// ChunkSize is the edge length of a chunk in tiles
	ChunkSize = 24

	// RenderDistance is the Manhattan radius of active chunks around the player
	RenderDistance = 3

	// TileSize is the number of terminal columns one tile spans
	TileSize = 2

	// WorldDifficulty is stored on new world records
	WorldDifficulty = 1
)

// Player spawn for freshly created player records
const (
	SpawnX = 0.0
	SpawnY = -1.0

	PlayerWidth  = 1.0
	PlayerHeight = 1.0
)

// Frame pacing
const (
	// FrameRate is the default simulation and render rate
	FrameRate = 60

	// InputHoldTicks keeps an intent active after a key press
	// Terminals report presses only, so a missing repeat within this window means release
	InputHoldTicks = 30

	// JumpHoldTicks buffers a jump press so it survives until the next landing contact
	JumpHoldTicks = 8

	// InputQueueSize bounds buffered input events between frames
	InputQueueSize = 256

	// SaveInterval is how often the player record is flushed while running
	SaveInterval = 10 * time.Second
)
