package balance

import (
	"math"
	"strconv"
	"testing"
)

func TestTimerText(t *testing.T) {
	fx := DefaultEffects()

	tests := []struct {
		name      string
		mode      Mode
		elapsed   float64
		remaining float64
		want      string
	}{
		{"normal countdown", ModeNormal, 3.0, 17.0, "17.0"},
		{"normal past flash threshold", ModeNormal, 12.0, 8.04, "8.0"},
		{"hard before threshold", ModeHard, 7.0, 133.0, "133.0"},
		{"hard at threshold", ModeHard, 7.8, 132.2, "132.2"},
		{"hard past threshold", ModeHard, 7.81, 132.19, "SURVIVE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := TimerText(tc.mode, tc.elapsed, tc.remaining, fx); got != tc.want {
				t.Errorf("TimerText() = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestScenarioHardTimerSwitchesOnce(t *testing.T) {
	fx := DefaultEffects()
	d := newTestDriver(pushPositive, HardProfile())
	if err := d.Machine().SetMode(ModeHard); err != nil {
		t.Fatal(err)
	}
	if err := d.Machine().Start(); err != nil {
		t.Fatal(err)
	}

	policy := Corrective(0.05)
	switched := false
	for i := 0; i < 600; i++ {
		f, err := d.Tick(policy(d.State()))
		if err != nil {
			t.Fatalf("Tick() error: %v", err)
		}
		if f.Event != nil {
			t.Fatalf("unexpected outcome %v at frame %d", f.Event, i)
		}

		st := d.State()
		text := f.Scene.TimerText
		if st.Elapsed > fx.FlashAfter {
			switched = true
			if text != fx.SurviveLabel {
				t.Fatalf("frame %d (%.3fs): timer %q, expected %q", i, st.Elapsed, text, fx.SurviveLabel)
			}
			if f.Scene.OverlayAlpha < 0 || f.Scene.OverlayAlpha > fx.FlashMaxAlpha {
				t.Fatalf("overlay alpha %g out of range", f.Scene.OverlayAlpha)
			}
			continue
		}
		if switched {
			t.Fatalf("frame %d: timer went back to numeric", i)
		}
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			t.Fatalf("frame %d: timer %q is not numeric", i, text)
		}
		if f.Scene.OverlayAlpha != 0 {
			t.Fatalf("frame %d: overlay before the flash threshold", i)
		}
	}
	if !switched {
		t.Fatal("timer never switched to the survive label")
	}
}

func TestFlashQuickens(t *testing.T) {
	fx := DefaultEffects()
	early := FlashSpeed(fx.FlashAfter+1, fx)
	late := FlashSpeed(fx.FlashAfter+60, fx)
	if late <= early {
		t.Errorf("flash speed should grow with time: %g -> %g", early, late)
	}
	if got := FlashSpeed(0, fx); got != fx.FlashBaseSpeed {
		t.Errorf("FlashSpeed before threshold = %g, expected base %g", got, fx.FlashBaseSpeed)
	}
}

func TestOverlayAlphaRange(t *testing.T) {
	fx := DefaultEffects()
	for phase := 0.0; phase < 20; phase += 0.37 {
		a := OverlayAlpha(phase, fx)
		if a < 0 || a > fx.FlashMaxAlpha {
			t.Fatalf("OverlayAlpha(%g) = %g out of [0, %g]", phase, a, fx.FlashMaxAlpha)
		}
	}
	// sin(pi/2) crest
	if a := OverlayAlpha(math.Pi, fx); math.Abs(a-fx.FlashMaxAlpha) > 1e-9 {
		t.Errorf("crest alpha = %g, expected %g", a, fx.FlashMaxAlpha)
	}
}

func TestShakeMagnitude(t *testing.T) {
	fx := DefaultEffects()

	tests := []struct {
		name    string
		mode    Mode
		elapsed float64
		want    float64
	}{
		{"normal never shakes", ModeNormal, 200, 0},
		{"hard before threshold", ModeHard, 89, 0},
		{"hard at threshold", ModeHard, 90, 0},
		{"hard ramp", ModeHard, 100, 0.5},
		{"hard capped", ModeHard, 1000, 15},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShakeMagnitude(tc.mode, tc.elapsed, fx); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("ShakeMagnitude() = %g, expected %g", got, tc.want)
			}
		})
	}
}

func TestSceneShakeBounded(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := HardProfile()
	st := State{Active: true, Profile: p, Elapsed: 100}

	_, f, err := sim.Step(st, p, playing(false), DefaultDt)
	if err != nil {
		t.Fatal(err)
	}
	mag := ShakeMagnitude(ModeHard, 100+DefaultDt, DefaultEffects())
	if want := 0.8 * mag; math.Abs(f.Scene.ShakeX-want) > 1e-9 {
		t.Errorf("ShakeX = %g, expected %g", f.Scene.ShakeX, want)
	}
	if math.Abs(f.Scene.ShakeY) > mag {
		t.Errorf("ShakeY = %g exceeds %g", f.Scene.ShakeY, mag)
	}
}

func TestSceneCracked(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())

	hard := HardProfile()
	_, f, _ := sim.Step(State{Active: true, Profile: hard, Elapsed: hard.TimeLimit - 30}, hard, playing(false), DefaultDt)
	if f.Scene.Cracked {
		t.Error("egg should not crack with 30s left")
	}
	_, f, _ = sim.Step(State{Active: true, Profile: hard, Elapsed: hard.TimeLimit - 19}, hard, playing(false), DefaultDt)
	if !f.Scene.Cracked {
		t.Error("hard egg should crack in the last 20s")
	}

	normal := NormalProfile()
	_, f, _ = sim.Step(State{Active: true, Profile: normal, Elapsed: 5}, normal, playing(false), DefaultDt)
	if f.Scene.Cracked {
		t.Error("normal egg never cracks")
	}
}

func TestGustCooldown(t *testing.T) {
	fx := DefaultEffects()
	sim := NewSimulatorWithRand(pushPositive, fx)
	p := NormalProfile()
	p.Gravity = 0
	p.BlowImpulse = 0
	p.InitialPush = 0

	var st State
	var f Frame
	spawns := 0
	last := math.Inf(-1)
	for i := 0; i < 180; i++ {
		st, f, _ = sim.Step(st, p, playing(true), DefaultDt)
		if st.LastGust != last {
			spawns++
			if spawns > 1 && st.LastGust-last <= fx.WindCooldown {
				t.Fatalf("gust respawned after %gs", st.LastGust-last)
			}
			last = st.LastGust
			if f.Scene.Gust.Alpha != 255-fx.WindFade || f.Scene.Gust.X != fx.WindDrift {
				t.Fatalf("fresh gust = %+v", f.Scene.Gust)
			}
		}
	}
	if spawns != 3 {
		t.Errorf("spawned %d gusts in 3s of blowing, expected 3", spawns)
	}
}

func TestGustFades(t *testing.T) {
	fx := DefaultEffects()
	sim := NewSimulatorWithRand(pushPositive, fx)
	p := NormalProfile()

	st, f, _ := sim.Step(State{}, p, playing(true), DefaultDt)
	if !f.Scene.Gust.Active {
		t.Fatal("first blow should spawn a gust")
	}
	for i := 0; i < 40; i++ {
		st, f, _ = sim.Step(st, p, playing(false), DefaultDt)
	}
	if f.Scene.Gust.Active {
		t.Errorf("gust should have faded, got %+v", f.Scene.Gust)
	}
}

func TestLipsFollowSide(t *testing.T) {
	sim := NewSimulatorWithRand(pushPositive, DefaultEffects())
	p := NormalProfile()
	right := SideRight

	st, f, _ := sim.Step(State{}, p, playing(false), DefaultDt)
	if math.Abs(f.Scene.LeftLip-0.6) > 1e-12 || f.Scene.RightLip != 0 {
		t.Errorf("lips after one left frame = %g/%g", f.Scene.LeftLip, f.Scene.RightLip)
	}

	_, f, _ = sim.Step(st, p, Input{Phase: PhasePlaying, Side: &right}, DefaultDt)
	if math.Abs(f.Scene.LeftLip-0.24) > 1e-12 || math.Abs(f.Scene.RightLip-0.6) > 1e-12 {
		t.Errorf("lips after switching right = %g/%g", f.Scene.LeftLip, f.Scene.RightLip)
	}
}
