package balance

import (
	"math"
	"math/rand"
)

// DefaultDt is the nominal tick length. Physics terms are per tick and only
// the session clock uses the real dt.
const DefaultDt = 1.0 / 60.0

// Rand is the random source used for the start push and the hard-mode shake.
// *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Simulator steps sessions. It owns only the random source and the effect
// constants; all session data lives in State.
type Simulator struct {
	rng Rand
	fx  Effects
}

// NewSimulator creates a simulator with a seeded random source.
func NewSimulator(seed int64, fx Effects) *Simulator {
	return NewSimulatorWithRand(rand.New(rand.NewSource(seed)), fx)
}

// NewSimulatorWithRand creates a simulator with a caller-supplied random source.
func NewSimulatorWithRand(rng Rand, fx Effects) *Simulator {
	return &Simulator{rng: rng, fx: fx}
}

// Rest ends any running session and returns the neutral pose.
func (s *Simulator) Rest(st State) (State, Frame) {
	st.Active = false
	return st, Frame{Scene: RestingScene(st.Side)}
}

// Step advances the state by one tick.
//
// Outside PLAYING it only rests. The first PLAYING tick starts a new session
// with p, which must validate; later ticks use the profile bound at start and
// ignore p. Once a terminal event has been emitted the state is frozen and
// every further tick returns the final scene without an event.
func (s *Simulator) Step(st State, p Profile, in Input, dt float64) (State, Frame, error) {
	if in.Phase != PhasePlaying {
		st, f := s.Rest(st)
		return st, f, nil
	}

	if !st.Active {
		if err := p.Validate(); err != nil {
			st, f := s.Rest(st)
			return st, f, err
		}
		st = s.begin(st, p)
	}

	if st.Finished {
		return st, Frame{Scene: s.scene(st, false)}, nil
	}

	if !(dt > 0) || math.IsInf(dt, 0) {
		dt = DefaultDt
	}
	prof := st.Profile

	st.Frames++
	st.Elapsed += dt
	remaining := math.Max(0, prof.TimeLimit-st.Elapsed)

	if st.Tilt != 0 {
		st.Velocity += st.Tilt * prof.Gravity
	}

	if in.Side != nil {
		st.Side = *in.Side
	}
	if in.Blowing {
		st.Velocity += prof.BlowImpulse * st.Side.Sign()
	}

	st.Tilt += st.Velocity

	s.animate(&st, in.Blowing)

	var ev *Event

	// Win is checked first: a clock that runs out while the egg is still
	// falling counts as survived.
	if remaining == 0 {
		ev = &Event{Kind: EventWin, TimeRemaining: remaining}
		st.Finished = true
	}

	if !st.Finished {
		if math.Abs(st.Tilt) > prof.TiltFailThreshold {
			st.Falling = true
		}
		if st.Falling {
			st.Velocity = 0
			st.Fall += st.Fall*(prof.Gravity+prof.FallAcceleration) + 1
			st.Drift += st.Tilt
			if st.Fall > prof.FallFailThreshold {
				ev = &Event{Kind: EventLoss, TimeRemaining: remaining}
				st.Finished = true
			}
		}
	}

	return st, Frame{Scene: s.scene(st, in.Blowing), Event: ev}, nil
}

// begin resets the state for a new session bound to p. The blow side and lip
// positions carry over; everything else starts from zero.
func (s *Simulator) begin(prev State, p Profile) State {
	sign := 1.0
	if s.rng.Float64() < 0.5 {
		sign = -1
	}

	return State{
		Active:   true,
		Profile:  p,
		Side:     prev.Side,
		LeftLip:  prev.LeftLip,
		RightLip: prev.RightLip,
		Velocity: sign*p.InitialPush*p.Gravity + p.Gravity,
		LastGust: -s.fx.WindCooldown,
	}
}

// animate advances the cosmetic per-tick values.
func (s *Simulator) animate(st *State, blowing bool) {
	targetL, targetR := 0.0, 0.0
	if st.Side == SideLeft {
		targetL = 1
	} else {
		targetR = 1
	}
	st.LeftLip += (targetL - st.LeftLip) * s.fx.LipLerp
	st.RightLip += (targetR - st.RightLip) * s.fx.LipLerp

	if blowing && st.Elapsed-st.LastGust > s.fx.WindCooldown {
		st.LastGust = st.Elapsed
		st.Gust = Gust{Active: true, Side: st.Side, Alpha: 255}
	}
	if st.Gust.Active {
		st.Gust.X += s.fx.WindDrift * st.Gust.Side.Sign()
		st.Gust.Alpha -= s.fx.WindFade
		if st.Gust.Alpha <= 0 {
			st.Gust = Gust{}
		}
	}

	if st.Profile.Mode == ModeHard && st.Elapsed > s.fx.FlashAfter {
		st.FlashPhase += FlashSpeed(st.Elapsed, s.fx)
	}
}

// scene builds the descriptor for st. The shake offset is the only random
// part and is redrawn every call.
func (s *Simulator) scene(st State, blowing bool) Scene {
	remaining := st.TimeRemaining()
	mode := st.Profile.Mode

	sc := Scene{
		Tilt:          st.Tilt,
		Fall:          st.Fall,
		Drift:         st.Drift,
		Side:          st.Side,
		Blowing:       blowing,
		LeftLip:       st.LeftLip,
		RightLip:      st.RightLip,
		Gust:          st.Gust,
		TimerText:     TimerText(mode, st.Elapsed, remaining, s.fx),
		TimeRemaining: remaining,
		Cracked:       mode == ModeHard && remaining <= s.fx.CrackBelow,
	}

	if mode == ModeHard && st.Elapsed > s.fx.FlashAfter {
		sc.OverlayAlpha = OverlayAlpha(st.FlashPhase, s.fx)
	}
	if mag := ShakeMagnitude(mode, st.Elapsed, s.fx); mag > 0 {
		sc.ShakeX = (s.rng.Float64()*2 - 1) * mag
		sc.ShakeY = (s.rng.Float64()*2 - 1) * mag
	}
	return sc
}
