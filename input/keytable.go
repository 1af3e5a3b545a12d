package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// KeyTable maps key events to actions
type KeyTable struct {
	// Special keys (arrows, Ctrl+*)
	Keys map[tcell.Key]Action

	// Printable runes, matched case-insensitively
	Runes map[rune]Action
}

// DefaultKeyTable returns the default bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[tcell.Key]Action{
			tcell.KeyUp:     ActionJump,
			tcell.KeyLeft:   ActionLeft,
			tcell.KeyRight:  ActionRight,
			tcell.KeyCtrlC:  ActionQuit,
			tcell.KeyEscape: ActionQuit,
		},
		Runes: map[rune]Action{
			'w': ActionJump,
			' ': ActionJump,
			'a': ActionLeft,
			'd': ActionRight,
			'e': ActionPlace,
			'q': ActionQuit,
		},
	}
}

// Lookup decodes a key event, ActionNone when unbound
func (kt *KeyTable) Lookup(ev *tcell.EventKey) Action {
	if ev.Key() == tcell.KeyRune {
		return kt.Runes[unicode.ToLower(ev.Rune())]
	}
	return kt.Keys[ev.Key()]
}
