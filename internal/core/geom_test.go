package core

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, got, tc.expected)
		}
	}
}

func TestLerp(t *testing.T) {
	if got := Lerp(0, 1, 0.6); math.Abs(got-0.6) > 1e-12 {
		t.Errorf("Lerp(0, 1, 0.6) = %f, expected 0.6", got)
	}
	if got := Lerp(1, 0, 1); got != 0 {
		t.Errorf("Lerp(1, 0, 1) = %f, expected 0", got)
	}
}

func TestMapRange(t *testing.T) {
	tests := []struct {
		name                      string
		val, inMin, inMax, lo, hi float64
		expected                  float64
	}{
		{"lower bound", -1, -1, 1, 0, 80, 0},
		{"upper bound", 1, -1, 1, 0, 80, 80},
		{"midpoint", 0, -1, 1, 0, 80, 40},
		{"degenerate input", 3, 2, 2, 5, 10, 5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := MapRange(tc.val, tc.inMin, tc.inMax, tc.lo, tc.hi); got != tc.expected {
				t.Errorf("MapRange() = %f, expected %f", got, tc.expected)
			}
		})
	}
}

func TestTickInterval(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Dt(); math.Abs(got-1.0/60) > 1e-6 {
		t.Errorf("Dt() = %f, expected ~1/60", got)
	}

	cfg.TickRate = 0
	if cfg.TickInterval() != DefaultConfig().TickInterval() {
		t.Error("zero tick rate should fall back to 60 Hz")
	}
}
