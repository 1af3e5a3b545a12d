package input

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Rune aliases for keys that can't be bare single-char config keys
var runeAliases = map[string]rune{
	"space": ' ',
}

// keyByName resolves tcell key names case-insensitively ("up", "ctrl-c")
var keyByName = func() map[string]tcell.Key {
	m := make(map[string]tcell.Key, len(tcell.KeyNames))
	for k, name := range tcell.KeyNames {
		m[strings.ToLower(name)] = k
	}
	return m
}()

// ApplyBindings overrides kt with key name → action name pairs
// Single characters and rune aliases bind runes, anything else must be a tcell key name.
// Binding to "none" removes the key.
func ApplyBindings(kt *KeyTable, bindings map[string]string) error {
	for keyStr, actionName := range bindings {
		action, ok := ParseAction(strings.ToLower(actionName))
		if !ok {
			return fmt.Errorf("keymap: key %q: unknown action %q", keyStr, actionName)
		}

		name := strings.ToLower(keyStr)
		if r, ok := runeAliases[name]; ok {
			bindRune(kt, r, action)
			continue
		}
		if utf8.RuneCountInString(name) == 1 {
			r, _ := utf8.DecodeRuneInString(name)
			bindRune(kt, r, action)
			continue
		}

		k, ok := keyByName[name]
		if !ok {
			return fmt.Errorf("keymap: unknown key name %q", keyStr)
		}
		if action == ActionNone {
			delete(kt.Keys, k)
		} else {
			kt.Keys[k] = action
		}
	}
	return nil
}

func bindRune(kt *KeyTable, r rune, action Action) {
	if action == ActionNone {
		delete(kt.Runes, r)
		return
	}
	kt.Runes[r] = action
}
