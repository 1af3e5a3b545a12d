package engine

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/tile-world/chunk"
	"github.com/lixenwraith/tile-world/component"
	"github.com/lixenwraith/tile-world/core"
	"github.com/lixenwraith/tile-world/navigation"
	"github.com/lixenwraith/tile-world/parameter"
	"github.com/lixenwraith/tile-world/physics"
	"github.com/lixenwraith/tile-world/render"
	"github.com/lixenwraith/tile-world/store"
)

// Listener receives simulation events for side effects such as audio
type Listener interface {
	Jumped(c *component.Character)
	Landed(c *component.Character)
	Placed(t *chunk.Tile)
}

// Options configures a running world
type Options struct {
	ChunkSize      int
	RenderDistance int
	TileSize       int
	// Debug bakes chunk borders and coordinates into artifacts
	Debug  bool
	Logger logrus.FieldLogger
}

func (o Options) withDefaults() Options {
	if o.ChunkSize < 1 {
		o.ChunkSize = parameter.ChunkSize
	}
	if o.RenderDistance < 0 {
		o.RenderDistance = 0
	}
	if o.TileSize < 1 {
		o.TileSize = parameter.TileSize
	}
	if o.Logger == nil {
		o.Logger = logrus.StandardLogger()
	}
	return o
}

// entry is one active chunk and its memoized artifact
type entry struct {
	chunk    *chunk.Chunk
	artifact *render.Artifact
}

// World is a launched world: the active chunk set around the player plus physics
// All methods run on the frame loop goroutine
type World struct {
	id    string
	store store.Store
	opts  Options
	log   logrus.FieldLogger

	resolver *physics.Resolver
	player   *component.Character

	active map[core.Cell]*entry
	// broken holds cells whose record failed to decode, skipped until they leave the active set
	broken core.CellSet

	listeners []Listener
	tick      uint64
}

// NewWorld creates a world bound to its records in s
// Nothing is loaded until the first Sync or Step
func NewWorld(id string, s store.Store, player *component.Character, opts Options) *World {
	opts = opts.withDefaults()
	return &World{
		id:       id,
		store:    s,
		opts:     opts,
		log:      opts.Logger.WithField("world", id),
		resolver: physics.NewResolver(),
		player:   player,
		active:   make(map[core.Cell]*entry),
		broken:   make(core.CellSet),
	}
}

// ID returns the world id
func (w *World) ID() string { return w.id }

// Player returns the controlled character
func (w *World) Player() *component.Character { return w.player }

// Characters implements render.Scene
func (w *World) Characters() []*component.Character {
	return []*component.Character{w.player}
}

// ChunkSize implements render.Scene
func (w *World) ChunkSize() int { return w.opts.ChunkSize }

// Tick returns the number of completed steps
func (w *World) Tick() uint64 { return w.tick }

// AddListener registers l for jump, landing and placement events
func (w *World) AddListener(l Listener) {
	w.listeners = append(w.listeners, l)
}

// Locate returns the chunk cell containing the player
func (w *World) Locate() core.Cell {
	return chunk.CellOfPoint(w.player.Position, w.opts.ChunkSize)
}

// Step advances the world one tick: locate, sync, physics
// A sync error is returned after physics has still run on the chunks that loaded
func (w *World) Step() (physics.Report, error) {
	anchor := w.Locate()
	err := w.Sync(navigation.ActiveCells(anchor, w.opts.RenderDistance))

	rep := w.resolver.Step(w.player, w)
	w.tick++

	if rep.Jumped {
		for _, l := range w.listeners {
			l.Jumped(w.player)
		}
	}
	if rep.Landed {
		for _, l := range w.listeners {
			l.Landed(w.player)
		}
	}
	return rep, err
}

// Sync makes the active set equal to cells
// Cells leaving the set are dropped with their artifacts, cells staying keep
// their chunk, new cells are loaded or created. A cell whose record is
// malformed is skipped, logged and reported once; the remaining cells still load.
func (w *World) Sync(cells core.CellSet) error {
	for cell := range w.active {
		if !cells.Has(cell) {
			delete(w.active, cell)
		}
	}
	for cell := range w.broken {
		if !cells.Has(cell) {
			delete(w.broken, cell)
		}
	}

	var errs []error
	for _, cell := range cells.Sorted() {
		if _, ok := w.active[cell]; ok || w.broken.Has(cell) {
			continue
		}
		c, err := w.LoadOrCreate(cell)
		if err != nil {
			w.log.WithError(err).WithField("cell", cellLabel(cell)).Error("chunk skipped")
			if errors.Is(err, chunk.ErrMalformed) {
				w.broken.Add(cell)
			}
			errs = append(errs, err)
			continue
		}
		w.active[cell] = &entry{chunk: c}
	}
	return errors.Join(errs...)
}

// LoadOrCreate reads the chunk record of cell, creating and persisting an
// empty chunk when none exists
// The store is read once; a malformed record is returned as an error and left untouched
func (w *World) LoadOrCreate(cell core.Cell) (*chunk.Chunk, error) {
	data, err := w.store.Get(store.ChunkKey(w.id, cell))
	switch {
	case err == nil:
		return chunk.Decode(cell, w.opts.ChunkSize, data)
	case errors.Is(err, store.ErrNotFound):
		c := chunk.New(cell, w.opts.ChunkSize)
		if err := w.saveChunk(c); err != nil {
			return nil, err
		}
		w.log.WithField("cell", cellLabel(cell)).Debug("chunk created")
		return c, nil
	default:
		return nil, fmt.Errorf("engine: load chunk %s: %w", cellLabel(cell), err)
	}
}

// PlaceTile adds a tile of kind at lattice position pos
// Returns false without changes when the position is taken. The owning chunk
// is loaded if inactive, persisted after the append, and its artifact dropped.
func (w *World) PlaceTile(pos core.Cell, kind chunk.Kind) (bool, error) {
	cell := chunk.CellOf(pos, w.opts.ChunkSize)

	e, active := w.active[cell]
	var c *chunk.Chunk
	if active {
		c = e.chunk
	} else {
		var err error
		if c, err = w.LoadOrCreate(cell); err != nil {
			return false, err
		}
	}

	if _, taken := c.At(pos); taken {
		return false, nil
	}

	tile := &chunk.Tile{ID: uuid.NewString(), Kind: kind, X: pos.X, Y: pos.Y}
	if err := c.Add(tile); err != nil {
		return false, fmt.Errorf("engine: place tile: %w", err)
	}
	if active {
		e.artifact = nil
	}
	if err := w.saveChunk(c); err != nil {
		return true, err
	}

	for _, l := range w.listeners {
		l.Placed(tile)
	}
	return true, nil
}

// TileAt implements physics.Terrain over active chunks only
func (w *World) TileAt(p core.Cell) (*chunk.Tile, bool) {
	e, ok := w.active[chunk.CellOf(p, w.opts.ChunkSize)]
	if !ok {
		return nil, false
	}
	return e.chunk.At(p)
}

// Chunk returns the active chunk at cell
func (w *World) Chunk(cell core.Cell) (*chunk.Chunk, bool) {
	e, ok := w.active[cell]
	if !ok {
		return nil, false
	}
	return e.chunk, true
}

// ActiveCells implements render.Scene, in row-major order
func (w *World) ActiveCells() []core.Cell {
	set := make(core.CellSet, len(w.active))
	for cell := range w.active {
		set.Add(cell)
	}
	return set.Sorted()
}

// Artifact implements render.Scene, baking on first use after load or change
func (w *World) Artifact(cell core.Cell) (*render.Artifact, bool) {
	e, ok := w.active[cell]
	if !ok {
		return nil, false
	}
	if e.artifact == nil {
		e.artifact = render.Bake(e.chunk, w.opts.TileSize, w.opts.Debug)
	}
	return e.artifact, true
}

// SavePlayer writes the player record
func (w *World) SavePlayer() error {
	if err := store.SetJSON(w.store, store.PlayerKey(w.id, w.player.ID), w.player.ToRecord()); err != nil {
		return fmt.Errorf("engine: save player: %w", err)
	}
	return nil
}

func (w *World) saveChunk(c *chunk.Chunk) error {
	data, err := c.Encode()
	if err != nil {
		return fmt.Errorf("engine: encode chunk %s: %w", cellLabel(c.Cell), err)
	}
	if err := w.store.Set(store.ChunkKey(w.id, c.Cell), data); err != nil {
		return fmt.Errorf("engine: save chunk %s: %w", cellLabel(c.Cell), err)
	}
	return nil
}

func cellLabel(c core.Cell) string {
	return fmt.Sprintf("%d|%d", c.X, c.Y)
}
