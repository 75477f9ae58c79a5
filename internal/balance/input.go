package balance

// DefaultMicThreshold is the normalized microphone level counted as blowing.
const DefaultMicThreshold = 0.1

// Controls are the raw signals the shell samples once per frame. A missing
// source is reported as its zero value.
type Controls struct {
	Left  bool    // left key held
	Right bool    // right key held
	Blow  bool    // blow key held
	Mic   float64 // normalized microphone amplitude, 0 when unavailable
	Touch *Side   // side tapped this frame, nil when none
}

// Input is the aggregated per-frame control signal consumed by Step.
type Input struct {
	Phase   Phase
	Blowing bool
	Side    *Side // nil keeps the current side
}

// Aggregator folds Controls into an Input.
type Aggregator struct {
	MicThreshold float64
}

// NewAggregator creates an aggregator with the given microphone threshold.
func NewAggregator(micThreshold float64) Aggregator {
	return Aggregator{MicThreshold: micThreshold}
}

// Aggregate merges the sources of one frame. Side selection is last write
// wins in the order touch, left key, right key. Blowing is the blow key OR a
// microphone level above the threshold; both at once still count as one blow.
func (a Aggregator) Aggregate(phase Phase, c Controls) Input {
	in := Input{Phase: phase}

	var side *Side
	if c.Touch != nil {
		t := *c.Touch
		side = &t
	}
	if c.Left {
		l := SideLeft
		side = &l
	}
	if c.Right {
		r := SideRight
		side = &r
	}
	in.Side = side

	// NaN compares false, so a broken level reads as silence.
	in.Blowing = c.Blow || c.Mic > a.MicThreshold
	return in
}
