package balance

// ProfileSource returns the profile for a mode.
type ProfileSource func(Mode) (Profile, error)

// Driver wires a Simulator, an Aggregator and a Machine into the per-frame
// loop a shell runs: sample controls, step, apply the outcome.
type Driver struct {
	sim      *Simulator
	agg      Aggregator
	machine  *Machine
	profiles ProfileSource
	dt       float64
	state    State
	session  int // machine session the state belongs to
}

// NewDriver creates a driver. dt is the tick length handed to Step.
func NewDriver(sim *Simulator, agg Aggregator, profiles ProfileSource, dt float64) *Driver {
	if profiles == nil {
		profiles = func(m Mode) (Profile, error) { return ProfileFor(m), nil }
	}
	return &Driver{
		sim:      sim,
		agg:      agg,
		machine:  NewMachine(),
		profiles: profiles,
		dt:       dt,
	}
}

// Machine exposes the phase machine for shell commands.
func (d *Driver) Machine() *Machine {
	return d.machine
}

// Phase returns the current phase.
func (d *Driver) Phase() Phase {
	return d.machine.Phase()
}

// State returns a copy of the simulation state.
func (d *Driver) State() State {
	return d.state
}

// Tick runs one frame. An error means the selected profile is invalid; the
// shell is sent back to the menu so it cannot spin on a broken session.
func (d *Driver) Tick(c Controls) (Frame, error) {
	in := d.agg.Aggregate(d.machine.Phase(), c)

	// A new session that started without an intermediate non-PLAYING frame
	// still has to begin from a clean state.
	if s := d.machine.Session(); s != d.session {
		d.session = s
		d.state, _ = d.sim.Rest(d.state)
	}

	var p Profile
	if in.Phase == PhasePlaying && !d.state.Active {
		var err error
		if p, err = d.profiles(d.machine.Mode()); err != nil {
			d.machine.Back()
			return Frame{Scene: RestingScene(d.state.Side)}, err
		}
	}

	st, f, err := d.sim.Step(d.state, p, in, d.dt)
	d.state = st
	if err != nil {
		d.machine.Back()
		return f, err
	}
	if err := d.machine.Apply(f.Event); err != nil {
		return f, err
	}
	return f, nil
}
