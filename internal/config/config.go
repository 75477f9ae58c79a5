// Package config provides YAML-based configuration loading for the egg
// balance simulator and maps it onto balance profiles.
package config

import (
	"fmt"

	"github.com/vovakirdan/egg-balance/internal/balance"
)

// EggConfig contains all tunables of the simulator.
type EggConfig struct {
	Profiles ProfilesConfig `yaml:"profiles"`
	Input    InputConfig    `yaml:"input"`
	Effects  EffectsConfig  `yaml:"effects"`
}

// ProfilesConfig holds one physics block per difficulty.
type ProfilesConfig struct {
	Normal ProfileConfig `yaml:"normal"`
	Hard   ProfileConfig `yaml:"hard"`
}

// ProfileConfig defines the physics and timing of a difficulty.
type ProfileConfig struct {
	Gravity           float64 `yaml:"gravity"`
	BlowImpulse       float64 `yaml:"blow_impulse"`
	TimeLimit         float64 `yaml:"time_limit"`
	TiltFailThreshold float64 `yaml:"tilt_fail_threshold"`
	FallFailThreshold float64 `yaml:"fall_fail_threshold"`
	FallAcceleration  float64 `yaml:"fall_acceleration"`
	InitialPush       float64 `yaml:"initial_push"`
	TrackDuration     float64 `yaml:"track_duration"` // 0 = use time_limit
	TrackOutro        float64 `yaml:"track_outro"`    // seconds of track after the session ends
}

// InputConfig defines how raw controls become blows.
type InputConfig struct {
	MicThreshold float64 `yaml:"mic_threshold"`
	KeyHoldTicks int     `yaml:"key_hold_ticks"` // ticks a key counts as held after its last press
}

// EffectsConfig defines presentation timings.
type EffectsConfig struct {
	FlashAfter     float64 `yaml:"flash_after"`
	FlashBaseSpeed float64 `yaml:"flash_base_speed"`
	FlashSpeedRate float64 `yaml:"flash_speed_rate"`
	FlashMaxAlpha  float64 `yaml:"flash_max_alpha"`
	ShakeAfter     float64 `yaml:"shake_after"`
	ShakeRate      float64 `yaml:"shake_rate"`
	ShakeMax       float64 `yaml:"shake_max"`
	WindCooldown   float64 `yaml:"wind_cooldown"`
	WindFade       float64 `yaml:"wind_fade"`
	WindDrift      float64 `yaml:"wind_drift"`
	LipLerp        float64 `yaml:"lip_lerp"`
	CrackBelow     float64 `yaml:"crack_below"`
	SurviveLabel   string  `yaml:"survive_label"`
}

// Profile builds the validated balance profile for a mode.
func (c EggConfig) Profile(mode balance.Mode) (balance.Profile, error) {
	pc := c.Profiles.Normal
	if mode == balance.ModeHard {
		pc = c.Profiles.Hard
	}

	p := balance.Profile{
		Mode:              mode,
		Gravity:           pc.Gravity,
		BlowImpulse:       pc.BlowImpulse,
		TimeLimit:         pc.TimeLimit,
		TiltFailThreshold: pc.TiltFailThreshold,
		FallFailThreshold: pc.FallFailThreshold,
		FallAcceleration:  pc.FallAcceleration,
		InitialPush:       pc.InitialPush,
	}
	if pc.TrackDuration > 0 {
		p.TimeLimit = pc.TrackDuration - pc.TrackOutro
	}

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: %s profile: %w", mode, err)
	}
	return p, nil
}

// ProfileSource adapts the config for balance.NewDriver.
func (c EggConfig) ProfileSource() balance.ProfileSource {
	return c.Profile
}

// BalanceEffects converts the effects block.
func (c EggConfig) BalanceEffects() balance.Effects {
	e := c.Effects
	return balance.Effects{
		FlashAfter:     e.FlashAfter,
		FlashBaseSpeed: e.FlashBaseSpeed,
		FlashSpeedRate: e.FlashSpeedRate,
		FlashMaxAlpha:  e.FlashMaxAlpha,
		ShakeAfter:     e.ShakeAfter,
		ShakeRate:      e.ShakeRate,
		ShakeMax:       e.ShakeMax,
		WindCooldown:   e.WindCooldown,
		WindFade:       e.WindFade,
		WindDrift:      e.WindDrift,
		LipLerp:        e.LipLerp,
		CrackBelow:     e.CrackBelow,
		SurviveLabel:   e.SurviveLabel,
	}
}

// Validate checks every profile, the input block and the effect rates.
func (c EggConfig) Validate() error {
	for _, m := range []balance.Mode{balance.ModeNormal, balance.ModeHard} {
		if _, err := c.Profile(m); err != nil {
			return err
		}
	}
	if c.Input.MicThreshold < 0 {
		return fmt.Errorf("config: mic_threshold must not be negative, got %v", c.Input.MicThreshold)
	}
	if c.Input.KeyHoldTicks < 1 {
		return fmt.Errorf("config: key_hold_ticks must be at least 1, got %d", c.Input.KeyHoldTicks)
	}
	// A gust that never fades never re-arms; lips outside (0, 1] overshoot.
	if c.Effects.WindFade <= 0 {
		return fmt.Errorf("config: wind_fade must be positive, got %v", c.Effects.WindFade)
	}
	if c.Effects.LipLerp <= 0 || c.Effects.LipLerp > 1 {
		return fmt.Errorf("config: lip_lerp must be in (0, 1], got %v", c.Effects.LipLerp)
	}
	return nil
}

// MicThreshold returns the amplitude above which the microphone counts as a blow.
func (c EggConfig) MicThreshold() float64 {
	return c.Input.MicThreshold
}

// ApplyTrackDuration ties the hard session to a track of the given length.
// The session ends track_outro seconds before the track does.
func (c *EggConfig) ApplyTrackDuration(seconds float64) {
	c.Profiles.Hard.TrackDuration = seconds
}
