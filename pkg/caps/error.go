package caps

import (
	"errors"
)

var (
	// ErrNoCapabilities is returned by New when the capability table has no
	// entry in a recognized format. The returned Selector is degraded but usable.
	ErrNoCapabilities = newError("no usable stream capabilities")
	// ErrMissingStream means a query needs a stream type the device did not report.
	ErrMissingStream = newError("required stream is not available")
	// ErrInvalidPolicy is returned when a policy table fails validation.
	ErrInvalidPolicy = newError("invalid device policy")
)

type errorString struct {
	s string
}

func newError(text string) error {
	return &errorString{text}
}

// IsError reports whether err originates from this package.
func IsError(err error) bool {
	var target *errorString
	return errors.As(err, &target)
}

func (e *errorString) Error() string {
	return e.s
}
