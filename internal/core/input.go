package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionConfirm        // Enter
	ActionBack           // Escape
	ActionRestart        // R
	ActionQuit           // Q, Ctrl+C
	ActionPause          // P, Space
	ActionSave           // F5
	ActionLoad           // F9
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
	ActionSave:    "Save",
	ActionLoad:    "Load",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is everything the player did between two ticks.
//
// Presses keeps key presses in arrival order so games that queue direction
// changes see every press, not only the last one. Held carries the
// directions currently held down for games that steer continuously.
type InputFrame struct {
	Presses []Action
	Held    map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Held: make(map[Action]bool)}
}

// Press records an action in arrival order.
func (f *InputFrame) Press(a Action) {
	f.Presses = append(f.Presses, a)
}

// Hold marks an action as held for this frame.
func (f *InputFrame) Hold(a Action) {
	if f.Held == nil {
		f.Held = make(map[Action]bool)
	}
	f.Held[a] = true
}

// Has reports whether the action was pressed or held this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Held[a] {
		return true
	}
	for _, p := range f.Presses {
		if p == a {
			return true
		}
	}
	return false
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	f.Presses = f.Presses[:0]
	for k := range f.Held {
		delete(f.Held, k)
	}
}
