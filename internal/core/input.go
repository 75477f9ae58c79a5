package core

// Action represents a semantic shell action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionLeft              // Left arrow, A - blow from the left
	ActionRight             // Right arrow, D - blow from the right
	ActionBlow              // Space - blow
	ActionConfirm           // Enter - start, retry, play again
	ActionToggleHard        // H - switch difficulty in the menu
	ActionBack              // B, Escape - back to the menu
	ActionQuit              // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionBlow:
		return "Blow"
	case ActionConfirm:
		return "Confirm"
	case ActionToggleHard:
		return "ToggleHard"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame collects the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}
