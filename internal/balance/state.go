package balance

// Gust is the cosmetic wind puff shown when the player starts blowing.
type Gust struct {
	Active bool
	Side   Side
	X      float64 // travel from the spawn point, signed by side
	Alpha  float64 // 0..255
}

// State is the simulation state of one session. It is a plain value: Step
// takes a State and returns the next one, so callers can snapshot or replay it.
type State struct {
	Tilt     float64 // signed displacement from upright, radians
	Velocity float64 // tilt change per tick
	Fall     float64 // drop distance once the egg has tipped over
	Drift    float64 // horizontal slide accumulated while falling
	Elapsed  float64 // seconds since the session started
	Frames   int

	Active   bool // session initialized for the current PLAYING activation
	Falling  bool // tilt crossed the fail threshold, latched for the session
	Finished bool // terminal event emitted, physics frozen

	Profile Profile // bound at session start, immutable afterwards

	// Side persists across frames and sessions until the player changes it.
	Side Side

	LastGust   float64 // Elapsed at the last gust spawn
	Gust       Gust
	LeftLip    float64 // 0 hidden .. 1 fully in view
	RightLip   float64
	FlashPhase float64
}

// TimeRemaining returns the seconds left on the session clock.
func (s State) TimeRemaining() float64 {
	r := s.Profile.TimeLimit - s.Elapsed
	if r < 0 {
		return 0
	}
	return r
}
