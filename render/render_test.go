package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tile-world/chunk"
	"github.com/lixenwraith/tile-world/component"
	"github.com/lixenwraith/tile-world/core"
)

func testChunk(t *testing.T, cell core.Cell, size int, tiles ...core.Cell) *chunk.Chunk {
	t.Helper()
	c := chunk.New(cell, size)
	for i, p := range tiles {
		if err := c.Add(&chunk.Tile{ID: string(rune('a' + i)), Kind: chunk.KindStone, X: p.X, Y: p.Y}); err != nil {
			t.Fatalf("add tile %v: %v", p, err)
		}
	}
	return c
}

func background(t *testing.T, g Glyph) tcell.Color {
	t.Helper()
	_, bg, _ := g.Style.Decompose()
	return bg
}

func TestBake_Dimensions(t *testing.T) {
	a := Bake(testChunk(t, core.Cell{}, 4), 2, false)
	if a.Width != 8 || a.Height != 4 {
		t.Errorf("Expected 8x4 artifact, got %dx%d", a.Width, a.Height)
	}
	if _, ok := a.At(8, 0); ok {
		t.Errorf("Expected out-of-bounds lookup to fail")
	}
}

func TestBake_Horizon(t *testing.T) {
	earth := Bake(testChunk(t, core.Cell{X: 3, Y: 0}, 4), 2, false)
	sky := Bake(testChunk(t, core.Cell{X: 3, Y: -1}, 4), 2, false)

	g, _ := earth.At(1, 1)
	if background(t, g) != ColorEarth {
		t.Errorf("Expected earth background at y >= 0")
	}
	g, _ = sky.At(1, 1)
	if background(t, g) != ColorSky {
		t.Errorf("Expected sky background at y < 0")
	}
}

func TestBake_Tiles(t *testing.T) {
	// Chunk (-1, 0) spans lattice x in [-4, -1]
	a := Bake(testChunk(t, core.Cell{X: -1, Y: 0}, 4, core.Cell{X: -3, Y: 2}), 2, false)

	for _, x := range []int{2, 3} {
		g, _ := a.At(x, 2)
		if g.Rune != RuneTile || background(t, g) != ColorTile {
			t.Errorf("Expected tile glyph at (%d, 2), got %q", x, g.Rune)
		}
	}
	if g, _ := a.At(4, 2); g.Rune == RuneTile {
		t.Errorf("Tile overflowed its columns")
	}
}

func TestBake_OrderIndependent(t *testing.T) {
	tiles := []core.Cell{{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 3}}
	a := Bake(testChunk(t, core.Cell{}, 4, tiles...), 2, true)
	b := Bake(testChunk(t, core.Cell{}, 4, tiles[2], tiles[0], tiles[1]), 2, true)

	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			ga, _ := a.At(x, y)
			gb, _ := b.At(x, y)
			if ga != gb {
				t.Fatalf("Artifacts differ at (%d, %d)", x, y)
			}
		}
	}
}

func TestBake_DebugLabel(t *testing.T) {
	a := Bake(testChunk(t, core.Cell{X: 5, Y: -2}, 8), 2, true)

	var row strings.Builder
	for x := 0; x < a.Width; x++ {
		g, _ := a.At(x, a.Height/2)
		row.WriteRune(g.Rune)
	}
	if !strings.Contains(row.String(), "5|-2") {
		t.Errorf("Expected chunk label in debug artifact, got %q", row.String())
	}
	if g, _ := a.At(0, 0); g.Rune != RuneBorder {
		t.Errorf("Expected debug border, got %q", g.Rune)
	}
}

func TestCamera_Project(t *testing.T) {
	cam := Camera{Focus: core.Point{X: 0, Y: -1}, TileSize: 2, Width: 20, Height: 9}

	x, y := cam.Project(cam.Focus)
	if x != 9 || y != 4 {
		t.Errorf("Expected focus at (9, 4), got (%d, %d)", x, y)
	}
	x, y = cam.Project(core.Point{X: 3, Y: 1})
	if x != 15 || y != 6 {
		t.Errorf("Expected (15, 6), got (%d, %d)", x, y)
	}
}

// fakeScene serves pre-baked artifacts
type fakeScene struct {
	size       int
	artifacts  map[core.Cell]*Artifact
	order      []core.Cell
	characters []*component.Character
}

func (s *fakeScene) ActiveCells() []core.Cell { return s.order }
func (s *fakeScene) ChunkSize() int           { return s.size }

func (s *fakeScene) Artifact(cell core.Cell) (*Artifact, bool) {
	a, ok := s.artifacts[cell]
	return a, ok
}

func (s *fakeScene) Characters() []*component.Character { return s.characters }

func TestRenderer_Frame(t *testing.T) {
	screen := NewMemoryScreen(20, 9)
	r := NewRenderer(screen, 2)

	player := component.NewCharacter()
	player.Position = core.Point{X: 0, Y: -1}

	home := core.Cell{}
	scene := &fakeScene{
		size:       4,
		artifacts:  map[core.Cell]*Artifact{home: Bake(testChunk(t, home, 4, core.Cell{X: 1, Y: 0}), 2, false)},
		order:      []core.Cell{home, {X: 1, Y: 0}},
		characters: []*component.Character{player},
	}

	r.Frame(scene, player.Position, "tick 1")

	if screen.Frames() != 1 {
		t.Errorf("Expected one presented frame, got %d", screen.Frames())
	}
	if !strings.HasPrefix(screen.Row(0), "tick 1") {
		t.Errorf("Expected status line, got %q", screen.Row(0))
	}

	// Player is centered
	for _, x := range []int{9, 10} {
		if r, _, st, _ := screen.GetContent(x, 4); r != RunePlayer || st != StylePlayer {
			t.Errorf("Expected player glyph at (%d, 4)", x)
		}
	}

	// Chunk (0, 0) lands one row below the player, tile at lattice (1, 0)
	for _, x := range []int{11, 12} {
		if r, _, _, _ := screen.GetContent(x, 5); r != RuneTile {
			t.Errorf("Expected tile glyph at (%d, 5), got %q", x, r)
		}
	}
	_, _, st, _ := screen.GetContent(9, 6)
	if _, bg, _ := st.Decompose(); bg != ColorEarth {
		t.Errorf("Expected earth fill under the player")
	}

	// Cells with no artifact are skipped, the sky above stays empty
	if r, _, _, _ := screen.GetContent(9, 2); r != 0 {
		t.Errorf("Expected nothing drawn above the ground, got %q", r)
	}
}

func TestRenderer_ClipsOffscreen(t *testing.T) {
	screen := NewMemoryScreen(6, 3)
	r := NewRenderer(screen, 2)

	home := core.Cell{}
	scene := &fakeScene{
		size:      24,
		artifacts: map[core.Cell]*Artifact{home: Bake(testChunk(t, home, 24), 2, false)},
		order:     []core.Cell{home},
	}

	// Must not panic with the artifact far larger than the screen
	r.Frame(scene, core.Point{X: 10, Y: 10}, "")
	if screen.Frames() != 1 {
		t.Errorf("Expected a presented frame")
	}
}
