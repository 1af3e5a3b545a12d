package input

// Action is a semantic input decoded from a key press
type Action uint8

const (
	ActionNone Action = iota
	ActionLeft
	ActionRight
	ActionJump
	ActionPlace
	ActionQuit

	actionCount
)

// actionRegistry maps canonical action names used by keymap config
var actionRegistry = map[string]Action{
	"none":  ActionNone,
	"left":  ActionLeft,
	"right": ActionRight,
	"jump":  ActionJump,
	"place": ActionPlace,
	"quit":  ActionQuit,
}

var actionNames = [...]string{
	ActionNone:  "none",
	ActionLeft:  "left",
	ActionRight: "right",
	ActionJump:  "jump",
	ActionPlace: "place",
	ActionQuit:  "quit",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction resolves a canonical action name
func ParseAction(name string) (Action, bool) {
	a, ok := actionRegistry[name]
	return a, ok
}

// Held reports whether the action is a continuous intent rather than a one-shot command
func (a Action) Held() bool {
	return a == ActionLeft || a == ActionRight || a == ActionJump
}
