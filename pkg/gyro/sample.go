package gyro

import "fmt"

// Sample is one gyroscope reading. Timestamp is in nanoseconds on a monotonic
// clock; X and Y are angular velocities in rad/s.
type Sample struct {
	Timestamp int64
	X, Y      float64
}

// Orientation is the integrated rotation around the X and Y axes, in radians.
type Orientation struct {
	X, Y float64
}

func (o Orientation) String() string {
	return fmt.Sprintf("(%.4f, %.4f) rad", o.X, o.Y)
}

// Listener receives the delayed orientation, once per integrated sample.
type Listener interface {
	UpdateOrientation(Orientation)
}

// ListenerFunc is a proxy type for Listener
type ListenerFunc func(Orientation)

func (f ListenerFunc) UpdateOrientation(o Orientation) {
	f(o)
}

// Source delivers samples from a sensor. Subscribe starts delivery to fn and
// returns a function that stops it.
type Source interface {
	Subscribe(fn func(Sample)) (unsubscribe func(), err error)
}
