package balance

import (
	"math"
	"testing"
)

func sidePtr(s Side) *Side { return &s }

func TestAggregateSide(t *testing.T) {
	agg := NewAggregator(DefaultMicThreshold)

	tests := []struct {
		name     string
		controls Controls
		want     *Side
	}{
		{"no source keeps side", Controls{}, nil},
		{"touch only", Controls{Touch: sidePtr(SideRight)}, sidePtr(SideRight)},
		{"left key", Controls{Left: true}, sidePtr(SideLeft)},
		{"left key overrides touch", Controls{Left: true, Touch: sidePtr(SideRight)}, sidePtr(SideLeft)},
		{"right key overrides left key", Controls{Left: true, Right: true}, sidePtr(SideRight)},
		{"right key overrides touch", Controls{Right: true, Touch: sidePtr(SideLeft)}, sidePtr(SideRight)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := agg.Aggregate(PhasePlaying, tc.controls)
			switch {
			case tc.want == nil && in.Side != nil:
				t.Errorf("side = %s, expected none", *in.Side)
			case tc.want != nil && in.Side == nil:
				t.Errorf("side = none, expected %s", *tc.want)
			case tc.want != nil && *in.Side != *tc.want:
				t.Errorf("side = %s, expected %s", *in.Side, *tc.want)
			}
		})
	}
}

func TestAggregateBlowing(t *testing.T) {
	agg := NewAggregator(0.2)

	tests := []struct {
		name     string
		controls Controls
		want     bool
	}{
		{"nothing", Controls{}, false},
		{"blow key", Controls{Blow: true}, true},
		{"loud mic", Controls{Mic: 0.35}, true},
		{"mic at threshold", Controls{Mic: 0.2}, false},
		{"quiet mic", Controls{Mic: 0.05}, false},
		{"key and mic", Controls{Blow: true, Mic: 0.9}, true},
		{"broken mic level", Controls{Mic: math.NaN()}, false},
		{"direction keys alone", Controls{Left: true, Right: true}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := agg.Aggregate(PhasePlaying, tc.controls).Blowing; got != tc.want {
				t.Errorf("Blowing = %v, expected %v", got, tc.want)
			}
		})
	}
}

func TestAggregateCopiesTouch(t *testing.T) {
	agg := NewAggregator(DefaultMicThreshold)
	touch := SideRight
	in := agg.Aggregate(PhaseMenu, Controls{Touch: &touch})

	touch = SideLeft
	if *in.Side != SideRight {
		t.Error("aggregated input must not alias the shell's touch value")
	}
	if in.Phase != PhaseMenu {
		t.Errorf("phase = %s, expected MENU", in.Phase)
	}
}
