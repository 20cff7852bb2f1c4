package gyro

// State represents the fill state of a pipeline's delay line
type State string

const (
	// StateIdle means no sample has been ingested yet.
	StateIdle State = "idle"
	// StateFilling means the delay line is still below capacity and nothing
	// has been integrated.
	StateFilling State = "filling"
	// StateSteady means the delay line is full and every ingested sample
	// releases exactly one delayed sample to the integrator.
	StateSteady State = "steady"
)

// next returns the state after a push. released tells whether the push made
// the delay line hand back its oldest sample.
func (s State) next(released bool) State {
	if released || s == StateSteady {
		return StateSteady
	}
	return StateFilling
}
