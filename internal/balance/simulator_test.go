package balance

import (
	"errors"
	"math"
	"testing"
)

// fixedRand returns the same value on every call.
type fixedRand float64

func (r fixedRand) Float64() float64 { return float64(r) }

const (
	pushNegative = fixedRand(0.1) // start push sign -1
	pushPositive = fixedRand(0.9) // start push sign +1
)

func newTestDriver(rng Rand, p Profile) *Driver {
	sim := NewSimulatorWithRand(rng, DefaultEffects())
	profiles := func(Mode) (Profile, error) { return p, nil }
	return NewDriver(sim, NewAggregator(DefaultMicThreshold), profiles, DefaultDt)
}

func playing(blowing bool) Input {
	return Input{Phase: PhasePlaying, Blowing: blowing}
}

func TestStepStartsSession(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()

	st, f, err := sim.Step(State{}, p, playing(false), DefaultDt)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if !st.Active {
		t.Fatal("first PLAYING step should activate the session")
	}
	if f.Event != nil {
		t.Errorf("unexpected event on first step: %v", f.Event)
	}

	// velocity = +2g + g, tilt was zero so no gravity term yet
	wantV := 3 * p.Gravity
	if math.Abs(st.Velocity-wantV) > 1e-15 {
		t.Errorf("initial velocity = %g, expected %g", st.Velocity, wantV)
	}
	if st.Tilt != st.Velocity {
		t.Errorf("tilt = %g, expected one integration of %g", st.Tilt, st.Velocity)
	}
	if math.Abs(st.Elapsed-DefaultDt) > 1e-15 {
		t.Errorf("elapsed = %g, expected %g", st.Elapsed, DefaultDt)
	}
}

func TestStepNegativePush(t *testing.T) {
	sim := NewSimulatorWithRand(pushNegative, DefaultEffects())
	p := NormalProfile()

	st, _, err := sim.Step(State{}, p, playing(false), DefaultDt)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if want := -p.Gravity; math.Abs(st.Velocity-want) > 1e-15 {
		t.Errorf("initial velocity = %g, expected %g", st.Velocity, want)
	}
}

func TestStepOutsidePlayingRests(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	st := State{Active: true, Tilt: 0.7, Velocity: 0.01, Fall: 12, Profile: NormalProfile()}

	for _, phase := range []Phase{PhaseMenu, PhaseGameOver, PhaseVictory} {
		next, f, err := sim.Step(st, NormalProfile(), Input{Phase: phase, Blowing: true}, DefaultDt)
		if err != nil {
			t.Fatalf("%s: Step() error: %v", phase, err)
		}
		if next.Active {
			t.Errorf("%s: session should be inactive", phase)
		}
		if next.Tilt != st.Tilt || next.Elapsed != st.Elapsed {
			t.Errorf("%s: no physics should run outside PLAYING", phase)
		}
		if !f.Scene.Resting || f.Scene.Tilt != 0 {
			t.Errorf("%s: expected resting scene, got %+v", phase, f.Scene)
		}
		if f.Event != nil {
			t.Errorf("%s: unexpected event %v", phase, f.Event)
		}
	}
}

func TestStepRejectsInvalidProfile(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()
	p.TimeLimit = 0

	st, f, err := sim.Step(State{}, p, playing(false), DefaultDt)
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("Step() error = %v, expected ErrInvalidProfile", err)
	}
	if st.Active {
		t.Error("session must not start with an invalid profile")
	}
	if !f.Scene.Resting {
		t.Error("invalid profile should leave the resting scene")
	}
}

func TestStepBlowImpulseSides(t *testing.T) {
	p := NormalProfile()
	p.InitialPush = 0
	p.Gravity = 0
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())

	left, right := SideLeft, SideRight
	st, _, _ := sim.Step(State{}, p, Input{Phase: PhasePlaying, Blowing: true, Side: &left}, DefaultDt)
	if st.Velocity != p.BlowImpulse {
		t.Errorf("left blow velocity = %g, expected %g", st.Velocity, p.BlowImpulse)
	}

	st, _, _ = sim.Step(st, p, Input{Phase: PhasePlaying, Blowing: true, Side: &right}, DefaultDt)
	if st.Velocity != 0 {
		t.Errorf("right blow should cancel the left one, velocity = %g", st.Velocity)
	}
	if st.Side != SideRight {
		t.Error("side should persist as right")
	}

	// Side persists when the input does not name one
	st, _, _ = sim.Step(st, p, playing(true), DefaultDt)
	if st.Velocity != -p.BlowImpulse {
		t.Errorf("persisted right blow velocity = %g, expected %g", st.Velocity, -p.BlowImpulse)
	}
}

func TestKeyAndMicBlowOnce(t *testing.T) {
	p := NormalProfile()
	p.InitialPush = 0
	p.Gravity = 0

	run := func(c Controls) float64 {
		d := newTestDriver(pushPositive, p)
		if err := d.Machine().Start(); err != nil {
			t.Fatalf("Start() error: %v", err)
		}
		if _, err := d.Tick(c); err != nil {
			t.Fatalf("Tick() error: %v", err)
		}
		return d.State().Velocity
	}

	keyOnly := run(Controls{Blow: true})
	both := run(Controls{Blow: true, Mic: 0.9})
	if keyOnly != both {
		t.Errorf("key+mic velocity = %g, key only = %g; impulse must not stack", both, keyOnly)
	}
	if keyOnly != p.BlowImpulse {
		t.Errorf("velocity = %g, expected one impulse %g", keyOnly, p.BlowImpulse)
	}
}

func TestScenarioIdleLoses(t *testing.T) {
	for _, rng := range []fixedRand{pushNegative, pushPositive} {
		d := newTestDriver(rng, NormalProfile())
		res, done, err := Run(d, Idle, 1300)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if !done {
			t.Fatalf("push %v: no outcome after %d frames", float64(rng), res.Frames)
		}
		if res.Event.Kind != EventLoss {
			t.Fatalf("push %v: outcome = %v, expected loss", float64(rng), res.Event)
		}
		if res.Event.TimeRemaining <= 0 {
			t.Errorf("push %v: loss should come before the clock runs out", float64(rng))
		}
		if d.Phase() != PhaseGameOver {
			t.Errorf("phase = %s, expected GAME_OVER", d.Phase())
		}

		for i := 1; i < len(res.Timeline); i++ {
			if math.Abs(res.Timeline[i]) <= math.Abs(res.Timeline[i-1]) {
				t.Fatalf("push %v: |tilt| not increasing at frame %d", float64(rng), i)
			}
		}
	}
}

func TestScenarioCorrectiveWins(t *testing.T) {
	for _, rng := range []fixedRand{pushNegative, pushPositive} {
		d := newTestDriver(rng, NormalProfile())
		res, done, err := Run(d, Corrective(0.05), 1300)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if !done {
			t.Fatalf("push %v: no outcome", float64(rng))
		}
		if res.Event.Kind != EventWin {
			t.Fatalf("push %v: outcome = %v, expected win", float64(rng), res.Event)
		}
		if res.Event.TimeRemaining != 0 {
			t.Errorf("win time remaining = %g, expected 0", res.Event.TimeRemaining)
		}
		if res.MaxTilt >= NormalProfile().TiltFailThreshold {
			t.Errorf("max tilt %g reached the fail threshold", res.MaxTilt)
		}
		if res.Frames < 1200 || res.Frames > 1201 {
			t.Errorf("win after %d frames, expected ~1200", res.Frames)
		}
		if d.Phase() != PhaseVictory {
			t.Errorf("phase = %s, expected VICTORY", d.Phase())
		}
	}
}

func TestMicOnlyPlayerWins(t *testing.T) {
	d := newTestDriver(pushPositive, NormalProfile())
	res, done, err := Run(d, MicBreath(0.05, 0.3), 1300)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !done || res.Event.Kind != EventWin {
		t.Fatalf("outcome = %v (done=%v), expected win", res.Event, done)
	}
}

func TestQuietMicDoesNotBlow(t *testing.T) {
	d := newTestDriver(pushPositive, NormalProfile())
	res, done, err := Run(d, MicBreath(0.05, DefaultMicThreshold), 1300)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if !done || res.Event.Kind != EventLoss {
		t.Fatalf("outcome = %v, a level at the threshold should not count as blowing", res.Event)
	}
}

func TestDeterminism(t *testing.T) {
	policy := func(st State) Controls {
		c := Controls{Blow: st.Frames%7 == 0}
		if st.Frames%90 < 45 {
			c.Right = true
		} else {
			c.Left = true
		}
		return c
	}

	run := func() []float64 {
		sim := NewSimulator(42, DefaultEffects())
		d := NewDriver(sim, NewAggregator(DefaultMicThreshold), nil, DefaultDt)
		res, _, err := Run(d, policy, 1300)
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		return res.Timeline
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("timeline lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tilt differs at frame %d: %g vs %g", i, a[i], b[i])
		}
	}
}

func TestFallStrictlyIncreases(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()
	st := State{Active: true, Profile: p, Tilt: p.TiltFailThreshold + 0.01}

	prev := st.Fall
	for i := 0; i < 200; i++ {
		var f Frame
		var err error
		st, f, err = sim.Step(st, p, playing(false), DefaultDt)
		if err != nil {
			t.Fatalf("Step() error: %v", err)
		}
		if !st.Falling {
			t.Fatal("tilt over threshold should latch falling")
		}
		if st.Velocity != 0 {
			t.Errorf("velocity should be frozen while falling, got %g", st.Velocity)
		}
		if f.Event != nil {
			if f.Event.Kind != EventLoss {
				t.Fatalf("event = %v, expected loss", f.Event)
			}
			if st.Fall <= p.FallFailThreshold {
				t.Errorf("loss at fall %g, threshold %g", st.Fall, p.FallFailThreshold)
			}
			return
		}
		if st.Fall <= prev {
			t.Fatalf("fall not increasing at tick %d: %g -> %g", i, prev, st.Fall)
		}
		prev = st.Fall
	}
	t.Fatal("no loss within 200 ticks of falling")
}

func TestFallingLatchesAgainstCorrection(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()
	right := SideRight
	st := State{Active: true, Profile: p, Tilt: p.TiltFailThreshold + 1e-6}

	st, _, _ = sim.Step(st, p, playing(false), DefaultDt)
	fall := st.Fall
	for i := 0; i < 5; i++ {
		st, _, _ = sim.Step(st, p, Input{Phase: PhasePlaying, Blowing: true, Side: &right}, DefaultDt)
		if st.Fall <= fall {
			t.Fatalf("fall stopped growing after a correcting blow: %g -> %g", fall, st.Fall)
		}
		fall = st.Fall
	}
}

func TestWinBeforeLoss(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()
	st := State{
		Active:  true,
		Profile: p,
		Tilt:    p.TiltFailThreshold + 0.1,
		Falling: true,
		Fall:    p.FallFailThreshold, // next tick pushes it over
		Elapsed: p.TimeLimit - DefaultDt/2,
	}

	st, f, err := sim.Step(st, p, playing(false), DefaultDt)
	if err != nil {
		t.Fatalf("Step() error: %v", err)
	}
	if f.Event == nil || f.Event.Kind != EventWin {
		t.Fatalf("event = %v, expected win", f.Event)
	}
	if f.Event.TimeRemaining != 0 {
		t.Errorf("win time remaining = %g, expected 0", f.Event.TimeRemaining)
	}
	if !st.Finished {
		t.Error("state should be finished after the win")
	}

	for i := 0; i < 10; i++ {
		next, f, _ := sim.Step(st, p, playing(true), DefaultDt)
		if f.Event != nil {
			t.Fatalf("second event emitted: %v", f.Event)
		}
		if next.Tilt != st.Tilt || next.Fall != st.Fall || next.Elapsed != st.Elapsed {
			t.Fatal("physics must stop after the terminal event")
		}
	}
}

func TestSingleEventAfterLoss(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()
	st := State{}

	events := 0
	for i := 0; i < 3000; i++ {
		var f Frame
		st, f, _ = sim.Step(st, p, playing(false), DefaultDt)
		if f.Event != nil {
			events++
		}
	}
	if events != 1 {
		t.Errorf("emitted %d events, expected exactly 1", events)
	}
}

func TestNonPositiveDtFallsBack(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()

	st, _, _ := sim.Step(State{}, p, playing(false), 0)
	st, _, _ = sim.Step(st, p, playing(false), math.NaN())
	if math.Abs(st.Elapsed-2*DefaultDt) > 1e-12 {
		t.Errorf("elapsed = %g, expected two default ticks", st.Elapsed)
	}
}

func TestScenarioMidFallRestart(t *testing.T) {
	d := newTestDriver(pushPositive, NormalProfile())
	m := d.Machine()
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}

	for !d.State().Falling {
		if _, err := d.Tick(Controls{}); err != nil {
			t.Fatalf("Tick() error: %v", err)
		}
	}
	if d.State().Fall == 0 {
		t.Fatal("expected a non-zero fall offset")
	}

	// Back to the menu and straight into a new session, no menu frame between
	m.Back()
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	f, err := d.Tick(Controls{})
	if err != nil {
		t.Fatalf("Tick() error: %v", err)
	}

	st := d.State()
	if st.Fall != 0 || st.Falling || st.Drift != 0 {
		t.Errorf("fall state not reset: fall=%g falling=%v drift=%g", st.Fall, st.Falling, st.Drift)
	}
	if st.Frames != 1 {
		t.Errorf("frames = %d, expected 1", st.Frames)
	}
	if want := 3 * NormalProfile().Gravity; math.Abs(st.Tilt-want) > 1e-15 {
		t.Errorf("tilt = %g, expected one tick from upright (%g)", st.Tilt, want)
	}
	if f.Event != nil {
		t.Errorf("unexpected event %v", f.Event)
	}
}

func TestRetryAfterVictoryResets(t *testing.T) {
	p := NormalProfile()
	p.TimeLimit = 0.5
	d := newTestDriver(pushPositive, p)

	res, done, err := Run(d, Idle, 100)
	if err != nil || !done || res.Event.Kind != EventWin {
		t.Fatalf("first run: event=%v done=%v err=%v", res.Event, done, err)
	}

	res, done, err = Run(d, Idle, 100)
	if err != nil || !done {
		t.Fatalf("second run: done=%v err=%v", done, err)
	}
	if res.Event.Kind != EventWin {
		t.Errorf("second run outcome = %v, expected a fresh win", res.Event)
	}
	if res.Frames < 29 || res.Frames > 31 {
		t.Errorf("second run took %d frames, expected a fresh 0.5s session", res.Frames)
	}
}

func TestDriverInvalidProfileBacksOff(t *testing.T) {
	p := NormalProfile()
	p.FallFailThreshold = -1
	d := newTestDriver(pushPositive, p)
	if err := d.Machine().Start(); err != nil {
		t.Fatal(err)
	}

	_, err := d.Tick(Controls{})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Fatalf("Tick() error = %v, expected ErrInvalidProfile", err)
	}
	if d.Phase() != PhaseMenu {
		t.Errorf("phase = %s, expected MENU after a configuration error", d.Phase())
	}
}
