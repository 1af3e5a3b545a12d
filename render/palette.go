package render

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/tile-world/chunk"
)

// Palette colors
var (
	ColorEarth  = tcell.NewHexColor(0x784212)
	ColorSky    = tcell.NewHexColor(0x85C1E9)
	ColorTile   = tcell.NewHexColor(0xC0392B)
	ColorBrick  = tcell.NewHexColor(0x922B21)
	ColorDirt   = tcell.NewHexColor(0xA04000)
	ColorPlayer = tcell.NewHexColor(0x27AE60)
	ColorLabel  = tcell.ColorBlack
	ColorStatus = tcell.NewHexColor(0xECF0F1)
	ColorVoid   = tcell.NewHexColor(0x1A1B26)
)

// Glyph runes
const (
	RuneFill   = ' '
	RuneTile   = '█'
	RunePlayer = '█'
	RuneBorder = '·'
)

var (
	StyleVoid   = tcell.StyleDefault.Background(ColorVoid)
	StylePlayer = tcell.StyleDefault.Foreground(ColorPlayer).Background(ColorPlayer)
	StyleStatus = tcell.StyleDefault.Foreground(ColorStatus).Background(ColorVoid).Bold(true)
)

// backgroundStyle returns the chunk fill, earth at and below the horizon row
func backgroundStyle(cellY int) tcell.Style {
	if cellY >= 0 {
		return tcell.StyleDefault.Background(ColorEarth)
	}
	return tcell.StyleDefault.Background(ColorSky)
}

// tileColor maps a tile kind to its fill color
func tileColor(kind chunk.Kind) tcell.Color {
	switch kind {
	case chunk.KindDirt:
		return ColorDirt
	case chunk.KindBrick:
		return ColorBrick
	}
	return ColorTile
}
