// Package balance implements the egg balancing simulator: a fixed-tick
// integrator of a single tilt angle under a destabilizing pseudo-gravity and
// player blow impulses, plus the timer, fall and outcome logic that decides
// whether a session is won or lost.
//
// The package is pure. Rendering, audio and input devices belong to the
// platform layer, which feeds Controls in and reads Scene values out.
package balance

import (
	"fmt"
	"strings"
)

// Mode selects a difficulty profile.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHard
)

// String returns the lowercase mode name used in configs and storage.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeHard:
		return "hard"
	default:
		return "unknown"
	}
}

// ParseMode converts a mode name to a Mode. The empty string means normal.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return ModeNormal, nil
	case "hard":
		return ModeHard, nil
	default:
		return ModeNormal, fmt.Errorf("balance: unknown mode %q", s)
	}
}

// Side is the side the player blows from. The zero value is SideLeft.
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Sign returns the direction a blow from this side pushes the tilt:
// +1 from the left, -1 from the right.
func (s Side) Sign() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// SideFor returns the side whose blow pushes the tilt towards sign(dir).
func SideFor(dir float64) Side {
	if dir < 0 {
		return SideRight
	}
	return SideLeft
}

// Phase is the externally visible game state owned by the shell.
type Phase int

const (
	PhaseMenu Phase = iota
	PhasePlaying
	PhaseGameOver
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseMenu:
		return "MENU"
	case PhasePlaying:
		return "PLAYING"
	case PhaseGameOver:
		return "GAME_OVER"
	case PhaseVictory:
		return "VICTORY"
	default:
		return "UNKNOWN"
	}
}

// EventKind distinguishes terminal outcomes.
type EventKind int

const (
	EventWin EventKind = iota
	EventLoss
)

func (k EventKind) String() string {
	if k == EventLoss {
		return "loss"
	}
	return "win"
}

// Event is a terminal outcome. At most one is emitted per session.
type Event struct {
	Kind          EventKind
	TimeRemaining float64 // seconds left on the clock when the outcome was decided
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%.1f)", e.Kind, e.TimeRemaining)
}
