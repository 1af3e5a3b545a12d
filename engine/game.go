package engine

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/tile-world/component"
	"github.com/lixenwraith/tile-world/parameter"
	"github.com/lixenwraith/tile-world/store"
)

// ErrUnknownWorld is returned when launching or deleting a world with no record
var ErrUnknownWorld = errors.New("engine: unknown world")

// Settings is the persisted game-wide settings record
type Settings struct {
	// TileSize is terminal columns per tile
	TileSize       int `json:"tileSize"`
	RenderDistance int `json:"renderDistance"`
}

// WorldRecord is the persisted world metadata
type WorldRecord struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"createdAt"`
	Creator    string    `json:"creator"`
	Difficulty int       `json:"difficulty"`
}

// Game manages worlds stored in one store on behalf of one player
type Game struct {
	store    store.Store
	playerID string
	log      logrus.FieldLogger
}

// NewGame creates a game for playerID
// An empty playerID resolves to the stored local identity, created on first use
func NewGame(s store.Store, playerID string, log logrus.FieldLogger) (*Game, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	g := &Game{store: s, playerID: playerID, log: log}
	if g.playerID == "" {
		id, err := g.identity()
		if err != nil {
			return nil, err
		}
		g.playerID = id
	}
	return g, nil
}

// PlayerID returns the resolved player id
func (g *Game) PlayerID() string { return g.playerID }

func (g *Game) identity() (string, error) {
	data, err := g.store.Get(store.IdentityKey)
	switch {
	case err == nil && len(data) > 0:
		return string(data), nil
	case err == nil, errors.Is(err, store.ErrNotFound):
		id := uuid.NewString()
		if err := g.store.Set(store.IdentityKey, []byte(id)); err != nil {
			return "", fmt.Errorf("engine: save identity: %w", err)
		}
		return id, nil
	default:
		return "", fmt.Errorf("engine: load identity: %w", err)
	}
}

// Settings returns the stored settings, writing seed first when none exist
// Once stored, the record wins over seed
func (g *Game) Settings(seed Settings) (Settings, error) {
	var s Settings
	err := store.GetJSON(g.store, store.SettingsKey, &s)
	switch {
	case err == nil:
		return s, nil
	case errors.Is(err, store.ErrNotFound):
		if err := store.SetJSON(g.store, store.SettingsKey, seed); err != nil {
			return Settings{}, fmt.Errorf("engine: create settings: %w", err)
		}
		g.log.WithField("tileSize", seed.TileSize).WithField("renderDistance", seed.RenderDistance).Info("settings created")
		return seed, nil
	default:
		return Settings{}, fmt.Errorf("engine: load settings: %w", err)
	}
}

// SaveSettings overwrites the settings record
func (g *Game) SaveSettings(s Settings) error {
	if err := store.SetJSON(g.store, store.SettingsKey, s); err != nil {
		return fmt.Errorf("engine: save settings: %w", err)
	}
	return nil
}

// Worlds lists stored world records, oldest first
func (g *Game) Worlds() ([]WorldRecord, error) {
	keys, err := g.store.Keys(store.WorldPrefix)
	if err != nil {
		return nil, fmt.Errorf("engine: list worlds: %w", err)
	}

	var worlds []WorldRecord
	for _, key := range keys {
		// Nested records (players, chunks) carry a second separator
		if strings.Contains(strings.TrimPrefix(key, store.WorldPrefix), "#") {
			continue
		}
		var w WorldRecord
		if err := store.GetJSON(g.store, key, &w); err != nil {
			g.log.WithError(err).WithField("key", key).Warn("world record skipped")
			continue
		}
		worlds = append(worlds, w)
	}
	slices.SortFunc(worlds, func(a, b WorldRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return worlds, nil
}

// CreateWorld stores a new world record owned by the player
func (g *Game) CreateWorld() (WorldRecord, error) {
	w := WorldRecord{
		ID:         uuid.NewString(),
		CreatedAt:  time.Now().UTC(),
		Creator:    g.playerID,
		Difficulty: parameter.WorldDifficulty,
	}
	if err := store.SetJSON(g.store, store.WorldKey(w.ID), w); err != nil {
		return WorldRecord{}, fmt.Errorf("engine: create world: %w", err)
	}
	g.log.WithField("world", w.ID).Info("world created")
	return w, nil
}

// DeleteWorld removes the world record and every record nested under it
func (g *Game) DeleteWorld(id string) error {
	key := store.WorldKey(id)
	if _, err := g.store.Get(key); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownWorld, id)
		}
		return fmt.Errorf("engine: delete world: %w", err)
	}

	// The '#' keeps world "a" from matching world "ab"
	nested, err := g.store.Keys(key + "#")
	if err != nil {
		return fmt.Errorf("engine: delete world: %w", err)
	}
	var errs []error
	for _, k := range append(nested, key) {
		if err := g.store.Delete(k); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("engine: delete world: %w", err)
	}
	g.log.WithField("world", id).WithField("records", len(nested)+1).Info("world deleted")
	return nil
}

// LaunchWorld opens world id with the player loaded, or created at spawn
func (g *Game) LaunchWorld(id string, opts Options) (*World, error) {
	var rec WorldRecord
	if err := store.GetJSON(g.store, store.WorldKey(id), &rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownWorld, id)
		}
		return nil, fmt.Errorf("engine: launch world: %w", err)
	}

	player, err := g.loadPlayer(id)
	if err != nil {
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = g.log
	}
	w := NewWorld(id, g.store, player, opts)
	if err := w.SavePlayer(); err != nil {
		return nil, err
	}
	g.log.WithField("world", id).WithField("player", player.ID).Info("world launched")
	return w, nil
}

func (g *Game) loadPlayer(worldID string) (*component.Character, error) {
	var rec component.CharacterRecord
	err := store.GetJSON(g.store, store.PlayerKey(worldID, g.playerID), &rec)
	switch {
	case err == nil:
		rec.ID = g.playerID
		return component.FromRecord(rec), nil
	case errors.Is(err, store.ErrNotFound):
		p := component.NewCharacter()
		p.ID = g.playerID
		return p, nil
	default:
		return nil, fmt.Errorf("engine: load player: %w", err)
	}
}
