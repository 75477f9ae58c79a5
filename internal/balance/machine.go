package balance

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned for a command the current phase does not accept.
var ErrInvalidTransition = errors.New("balance: invalid phase transition")

// Machine is the shell-side phase authority. The simulator only reports
// outcomes; Machine turns them into phase changes:
//
//	MENU -> PLAYING             Start
//	PLAYING -> GAME_OVER        Apply(loss)
//	PLAYING -> VICTORY          Apply(win)
//	GAME_OVER|VICTORY -> PLAYING Retry
//	any -> MENU                 Back
type Machine struct {
	phase   Phase
	mode    Mode
	outcome *Event
	session int // incremented on every transition into PLAYING
}

// NewMachine creates a machine in MENU with normal difficulty.
func NewMachine() *Machine {
	return &Machine{phase: PhaseMenu}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Mode returns the selected difficulty.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Session returns the number of sessions started so far. A shell compares
// it between frames to notice that a new session must be reset.
func (m *Machine) Session() int {
	return m.session
}

// Outcome returns the event that ended the last session, if any.
func (m *Machine) Outcome() *Event {
	return m.outcome
}

// SetMode selects the difficulty. It is fixed while a session is running.
func (m *Machine) SetMode(mode Mode) error {
	if m.phase == PhasePlaying {
		return fmt.Errorf("%w: cannot change mode while %s", ErrInvalidTransition, m.phase)
	}
	m.mode = mode
	return nil
}

// Start begins a session from the menu.
func (m *Machine) Start() error {
	if m.phase != PhaseMenu {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, m.phase)
	}
	m.play()
	return nil
}

// Retry begins a new session after a game over or victory.
func (m *Machine) Retry() error {
	if m.phase != PhaseGameOver && m.phase != PhaseVictory {
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, m.phase)
	}
	m.play()
	return nil
}

// Back returns to the menu from any phase.
func (m *Machine) Back() {
	m.phase = PhaseMenu
}

// Apply consumes a simulator event. A nil event is a no-op.
func (m *Machine) Apply(ev *Event) error {
	if ev == nil {
		return nil
	}
	if m.phase != PhasePlaying {
		return fmt.Errorf("%w: %s event while %s", ErrInvalidTransition, ev.Kind, m.phase)
	}

	e := *ev
	m.outcome = &e
	if ev.Kind == EventWin {
		m.phase = PhaseVictory
	} else {
		m.phase = PhaseGameOver
	}
	return nil
}

func (m *Machine) play() {
	m.phase = PhasePlaying
	m.outcome = nil
	m.session++
}
