package chunk

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lixenwraith/tile-world/core"
)

// ErrMalformed marks a persisted chunk record that cannot be trusted
var ErrMalformed = errors.New("chunk: malformed record")

// Record is the persisted form of a chunk
type Record struct {
	Tiles []TileRecord `json:"tiles"`
}

// TileRecord is the persisted form of a tile
type TileRecord struct {
	ID       string      `json:"id"`
	Kind     Kind        `json:"kind"`
	Position pointRecord `json:"position"`
	Size     sizeRecord  `json:"size"`
}

type pointRecord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type sizeRecord struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToRecord converts a chunk to its persisted form
func (c *Chunk) ToRecord() Record {
	r := Record{Tiles: make([]TileRecord, 0, len(c.tiles))}
	for _, t := range c.tiles {
		r.Tiles = append(r.Tiles, TileRecord{
			ID:       t.ID,
			Kind:     t.Kind,
			Position: pointRecord{X: t.X, Y: t.Y},
			Size:     sizeRecord{Width: 1, Height: 1},
		})
	}
	return r
}

// Encode serializes the chunk's tile set
func (c *Chunk) Encode() ([]byte, error) {
	return json.Marshal(c.ToRecord())
}

// Decode builds a chunk for cell from a persisted record
// Any parse failure, duplicate position or out-of-range tile is reported as ErrMalformed
func Decode(cell core.Cell, size int, data []byte) (*Chunk, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: chunk (%d,%d): %v", ErrMalformed, cell.X, cell.Y, err)
	}

	c := New(cell, size)
	for i, tr := range r.Tiles {
		if tr.ID == "" {
			return nil, fmt.Errorf("%w: chunk (%d,%d): tile %d has no id", ErrMalformed, cell.X, cell.Y, i)
		}
		if tr.Size.Width > 1 || tr.Size.Height > 1 {
			return nil, fmt.Errorf("%w: chunk (%d,%d): tile %s has size %dx%d", ErrMalformed, cell.X, cell.Y, tr.ID, tr.Size.Width, tr.Size.Height)
		}
		t := &Tile{ID: tr.ID, Kind: tr.Kind, X: tr.Position.X, Y: tr.Position.Y}
		if err := c.Add(t); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	}
	return c, nil
}
