package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/egg-balance/internal/core"
)

// DefaultHoldTicks is how long a key counts as held after its last press.
// It must cover the gap between terminal key repeats (30-50ms).
const DefaultHoldTicks = 8

// KeyMapper translates Bubble Tea key messages to shell actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "left", "a":
		return core.ActionLeft, false
	case "right", "d":
		return core.ActionRight, false
	case " ", "w", "up":
		return core.ActionBlow, false
	case "enter":
		return core.ActionConfirm, false
	case "h":
		return core.ActionToggleHard, false
	case "b", "esc":
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// HoldTracker turns key presses into held-key state. Terminals report
// presses and repeats but no releases, so a key stays held for a fixed
// number of ticks after its last press.
type HoldTracker struct {
	ticks     int
	remaining map[core.Action]int
}

// NewHoldTracker creates a tracker that holds keys for ticks ticks.
func NewHoldTracker(ticks int) *HoldTracker {
	if ticks < 1 {
		ticks = DefaultHoldTicks
	}
	return &HoldTracker{
		ticks:     ticks,
		remaining: make(map[core.Action]int),
	}
}

// Press marks the action as held for the full hold window.
func (h *HoldTracker) Press(a core.Action) {
	h.remaining[a] = h.ticks
}

// Held reports whether the action is currently held.
func (h *HoldTracker) Held(a core.Action) bool {
	return h.remaining[a] > 0
}

// Frame returns the held actions as an input frame.
func (h *HoldTracker) Frame() core.InputFrame {
	f := core.NewInputFrame()
	for a, n := range h.remaining {
		if n > 0 {
			f.Set(a)
		}
	}
	return f
}

// Advance ages every held key by one tick.
func (h *HoldTracker) Advance() {
	for a, n := range h.remaining {
		if n <= 1 {
			delete(h.remaining, a)
			continue
		}
		h.remaining[a] = n - 1
	}
}

// Drop releases a single action.
func (h *HoldTracker) Drop(a core.Action) {
	delete(h.remaining, a)
}

// Release drops every held key.
func (h *HoldTracker) Release() {
	clear(h.remaining)
}
