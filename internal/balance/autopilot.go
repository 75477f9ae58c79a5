package balance

import "math"

// Policy produces controls from the current state. Policies drive headless
// runs and tests.
type Policy func(State) Controls

// Idle never touches the controls.
func Idle(State) Controls {
	return Controls{}
}

// Corrective blows against the lean whenever |tilt| exceeds deadband.
func Corrective(deadband float64) Policy {
	return func(st State) Controls {
		if math.Abs(st.Tilt) <= deadband {
			return Controls{}
		}
		side := SideFor(-st.Tilt)
		return Controls{
			Left:  side == SideLeft,
			Right: side == SideRight,
			Blow:  true,
		}
	}
}

// MicBreath simulates a microphone-only player: it blows through the mic at
// level whenever |tilt| exceeds deadband and taps the side to blow from.
func MicBreath(deadband, level float64) Policy {
	return func(st State) Controls {
		if math.Abs(st.Tilt) <= deadband {
			return Controls{}
		}
		side := SideFor(-st.Tilt)
		return Controls{Mic: level, Touch: &side}
	}
}

// RunResult summarizes a headless session.
type RunResult struct {
	Event    Event
	Frames   int
	MaxTilt  float64
	Final    State
	Timeline []float64 // tilt after every frame
}

// Run starts a session on d and drives it with policy until the terminal
// event or maxFrames. The bool is false when no outcome was reached.
func Run(d *Driver, policy Policy, maxFrames int) (RunResult, bool, error) {
	var res RunResult

	m := d.Machine()
	switch m.Phase() {
	case PhaseMenu:
		if err := m.Start(); err != nil {
			return res, false, err
		}
	case PhaseGameOver, PhaseVictory:
		if err := m.Retry(); err != nil {
			return res, false, err
		}
	}

	for i := 0; i < maxFrames; i++ {
		f, err := d.Tick(policy(d.State()))
		if err != nil {
			return res, false, err
		}
		st := d.State()
		res.Frames = st.Frames
		res.Final = st
		res.Timeline = append(res.Timeline, st.Tilt)
		if a := math.Abs(st.Tilt); a > res.MaxTilt {
			res.MaxTilt = a
		}
		if f.Event != nil {
			res.Event = *f.Event
			return res, true, nil
		}
	}
	return res, false, nil
}
