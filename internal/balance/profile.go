package balance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProfile is wrapped by every Profile validation failure.
var ErrInvalidProfile = errors.New("balance: invalid difficulty profile")

// Profile bundles the physics and timing constants of one difficulty.
// All physics terms are applied once per tick and are tuned for 60 Hz.
type Profile struct {
	Mode              Mode
	Gravity           float64 // destabilizing coefficient, velocity += tilt*Gravity
	BlowImpulse       float64 // velocity added per blowing tick
	TimeLimit         float64 // seconds to survive
	TiltFailThreshold float64 // |tilt| beyond which the egg starts to fall
	FallFailThreshold float64 // fall offset beyond which the session is lost
	FallAcceleration  float64 // extra growth factor of the fall offset per tick
	InitialPush       float64 // initial velocity kick in multiples of Gravity
}

// NormalProfile returns the reference normal difficulty.
func NormalProfile() Profile {
	return Profile{
		Mode:              ModeNormal,
		Gravity:           0.0001,
		BlowImpulse:       0.00015,
		TimeLimit:         20,
		TiltFailThreshold: 1.4,
		FallFailThreshold: 340,
		FallAcceleration:  0.13,
		InitialPush:       2,
	}
}

// HardProfile returns the reference hard difficulty. Its time limit normally
// follows the length of the hard-mode track.
func HardProfile() Profile {
	return Profile{
		Mode:              ModeHard,
		Gravity:           0.0002,
		BlowImpulse:       0.00023,
		TimeLimit:         140,
		TiltFailThreshold: 1.4,
		FallFailThreshold: 340,
		FallAcceleration:  0.13,
		InitialPush:       2,
	}
}

// ProfileFor returns the reference profile for a mode.
func ProfileFor(m Mode) Profile {
	if m == ModeHard {
		return HardProfile()
	}
	return NormalProfile()
}

// Validate reports whether the profile can drive a terminating session.
func (p Profile) Validate() error {
	fields := []struct {
		name     string
		value    float64
		positive bool // strictly positive, otherwise non-negative
	}{
		{"gravity", p.Gravity, false},
		{"blow impulse", p.BlowImpulse, false},
		{"time limit", p.TimeLimit, true},
		{"tilt fail threshold", p.TiltFailThreshold, true},
		{"fall fail threshold", p.FallFailThreshold, true},
		{"fall acceleration", p.FallAcceleration, true},
		{"initial push", p.InitialPush, false},
	}

	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidProfile, f.name, f.value)
		}
		if f.positive && f.value <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidProfile, f.name, f.value)
		}
		if !f.positive && f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative, got %v", ErrInvalidProfile, f.name, f.value)
		}
	}
	return nil
}

// Effects holds the presentation constants derived from elapsed time.
// None of them feed back into the physics.
type Effects struct {
	FlashAfter     float64 // hard mode: seconds before the survive label and red flash
	FlashBaseSpeed float64 // flash phase advance per tick at the threshold
	FlashSpeedRate float64 // additional advance per second past the threshold
	FlashMaxAlpha  float64 // overlay alpha at the crest of the pulse (0..255)
	ShakeAfter     float64 // hard mode: seconds before the scene starts to shake
	ShakeRate      float64 // shake magnitude gained per second past the threshold
	ShakeMax       float64 // shake magnitude cap
	WindCooldown   float64 // seconds between wind gusts
	WindFade       float64 // gust alpha lost per tick
	WindDrift      float64 // gust travel per tick
	LipLerp        float64 // fraction the lips move towards their target per tick
	CrackBelow     float64 // hard mode: remaining seconds at which the egg cracks
	SurviveLabel   string
}

// DefaultEffects returns the reference presentation constants.
func DefaultEffects() Effects {
	return Effects{
		FlashAfter:     7.8,
		FlashBaseSpeed: 0.01,
		FlashSpeedRate: 0.002,
		FlashMaxAlpha:  80,
		ShakeAfter:     90,
		ShakeRate:      0.05,
		ShakeMax:       15,
		WindCooldown:   1.3,
		WindFade:       8,
		WindDrift:      5,
		LipLerp:        0.6,
		CrackBelow:     20,
		SurviveLabel:   "SURVIVE",
	}
}
