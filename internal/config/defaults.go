package config

import (
	_ "embed"

	"github.com/vovakirdan/egg-balance/internal/balance"
)

//go:embed defaults/egg.yaml
var defaultEggYAML []byte

// DefaultEggConfig returns the hardcoded reference configuration. It mirrors
// defaults/egg.yaml and is used when the embedded file cannot be parsed.
func DefaultEggConfig() EggConfig {
	fx := balance.DefaultEffects()
	return EggConfig{
		Profiles: ProfilesConfig{
			Normal: profileConfig(balance.NormalProfile()),
			Hard: func() ProfileConfig {
				pc := profileConfig(balance.HardProfile())
				pc.TrackOutro = 12
				return pc
			}(),
		},
		Input: InputConfig{
			MicThreshold: balance.DefaultMicThreshold,
			KeyHoldTicks: 8,
		},
		Effects: EffectsConfig{
			FlashAfter:     fx.FlashAfter,
			FlashBaseSpeed: fx.FlashBaseSpeed,
			FlashSpeedRate: fx.FlashSpeedRate,
			FlashMaxAlpha:  fx.FlashMaxAlpha,
			ShakeAfter:     fx.ShakeAfter,
			ShakeRate:      fx.ShakeRate,
			ShakeMax:       fx.ShakeMax,
			WindCooldown:   fx.WindCooldown,
			WindFade:       fx.WindFade,
			WindDrift:      fx.WindDrift,
			LipLerp:        fx.LipLerp,
			CrackBelow:     fx.CrackBelow,
			SurviveLabel:   fx.SurviveLabel,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultEggYAML
}

func profileConfig(p balance.Profile) ProfileConfig {
	return ProfileConfig{
		Gravity:           p.Gravity,
		BlowImpulse:       p.BlowImpulse,
		TimeLimit:         p.TimeLimit,
		TiltFailThreshold: p.TiltFailThreshold,
		FallFailThreshold: p.FallFailThreshold,
		FallAcceleration:  p.FallAcceleration,
		InitialPush:       p.InitialPush,
	}
}
