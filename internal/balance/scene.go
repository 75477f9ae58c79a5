package balance

import (
	"fmt"
	"math"

	"github.com/vovakirdan/egg-balance/internal/core"
)

// Scene describes what the shell should draw for one frame.
type Scene struct {
	Resting bool // neutral pose outside PLAYING

	Tilt  float64
	Fall  float64
	Drift float64

	Side     Side
	Blowing  bool
	LeftLip  float64
	RightLip float64
	Gust     Gust

	TimerText     string
	TimeRemaining float64
	OverlayAlpha  float64 // red pulse, 0..255
	ShakeX        float64
	ShakeY        float64
	Cracked       bool
}

// Frame is the output of one Step.
type Frame struct {
	Scene Scene
	Event *Event
}

// RestingScene is the pose drawn while no session is running.
func RestingScene(side Side) Scene {
	return Scene{Resting: true, Side: side}
}

// TimerText returns the timer string. In hard mode the countdown is replaced
// by the survive label once the flash threshold has passed.
func TimerText(mode Mode, elapsed, remaining float64, fx Effects) string {
	if mode == ModeHard && elapsed > fx.FlashAfter {
		return fx.SurviveLabel
	}
	return fmt.Sprintf("%.1f", remaining)
}

// FlashSpeed returns how far the flash phase advances on a tick at elapsed.
// The pulse quickens the longer the player survives.
func FlashSpeed(elapsed float64, fx Effects) float64 {
	over := math.Max(0, elapsed-fx.FlashAfter)
	return fx.FlashBaseSpeed + over*fx.FlashSpeedRate
}

// OverlayAlpha maps a flash phase onto the overlay alpha range.
func OverlayAlpha(phase float64, fx Effects) float64 {
	return core.MapRange(math.Sin(phase*0.5), -1, 1, 0, fx.FlashMaxAlpha)
}

// ShakeMagnitude returns the bound of the random scene offset at elapsed.
func ShakeMagnitude(mode Mode, elapsed float64, fx Effects) float64 {
	if mode != ModeHard || elapsed <= fx.ShakeAfter {
		return 0
	}
	return core.ClampF((elapsed-fx.ShakeAfter)*fx.ShakeRate, 0, fx.ShakeMax)
}
