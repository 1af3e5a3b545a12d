// Package store is the key-value persistence port for worlds, players, chunks and settings.
// Records are JSON values addressed by '#'-separated string keys.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lixenwraith/tile-world/core"
)

var (
	// ErrNotFound is returned by Get when no record exists at the key
	ErrNotFound = errors.New("store: record not found")
	// ErrMalformed wraps records that exist but fail to parse
	ErrMalformed = errors.New("store: malformed record")
)

// Store is a string-addressed record store
// Only single-key read-after-write consistency is assumed
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Keys lists keys starting with prefix in lexical order
	Keys(prefix string) ([]string, error)
	Close() error
}

// SettingsKey addresses the global game settings record
const SettingsKey = "game#settings"

// IdentityKey addresses the local player id used when none is configured
const IdentityKey = "game#identity"

// WorldPrefix starts every world-scoped key
const WorldPrefix = "world#"

// WorldKey addresses a world's metadata record
func WorldKey(worldID string) string {
	return WorldPrefix + worldID
}

// PlayerKey addresses a player's record within a world
func PlayerKey(worldID, playerID string) string {
	return WorldKey(worldID) + "#player#" + playerID
}

// ChunkKey addresses the chunk record of a grid cell within a world
func ChunkKey(worldID string, cell core.Cell) string {
	return fmt.Sprintf("%s#chunk#%d|%d", WorldKey(worldID), cell.X, cell.Y)
}

// GetJSON reads key into v
// A missing key yields ErrNotFound, an unparsable value ErrMalformed
func GetJSON(s Store, key string, v any) error {
	data, err := s.Get(key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, key, err)
	}
	return nil
}

// SetJSON writes v as JSON at key
func SetJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", key, err)
	}
	return s.Set(key, data)
}
