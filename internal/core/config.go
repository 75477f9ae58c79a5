package core

import "time"

// RuntimeConfig contains settings handed to the shell at start-up.
// Seed drives every random choice of a session so runs can be replayed.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed, 0 means derive from the clock
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// TickInterval returns the wall-clock duration of one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}

// Dt returns the tick length in seconds.
func (c RuntimeConfig) Dt() float64 {
	return c.TickInterval().Seconds()
}
