package gyro

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvariantViolation matches every *InvariantViolation.
	ErrInvariantViolation = errors.New("gyro sample timestamp is not increasing")
	errAlreadyStarted     = errors.New("pipeline is already listening to a source")
)

// InvariantViolation is returned by Ingest for a sample whose timestamp does
// not advance past the previous one. The sample is dropped.
type InvariantViolation struct {
	Timestamp int64
	Previous  int64
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("%v: got %d after %d", ErrInvariantViolation, e.Timestamp, e.Previous)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrInvariantViolation
}

// StallEvent reports that two consecutive integrated samples were further
// apart than the stall threshold. Integration still uses the full interval.
type StallEvent struct {
	Timestamp int64
	Interval  time.Duration
}

// EventHandler observes non-fatal pipeline events. Calls happen inside Ingest.
type EventHandler interface {
	OnStall(StallEvent)
	OnInvariantViolation(InvariantViolation)
}

// EventHandlerFuncs adapts plain functions to EventHandler. Nil fields are
// ignored.
type EventHandlerFuncs struct {
	Stall              func(StallEvent)
	InvariantViolation func(InvariantViolation)
}

func (h EventHandlerFuncs) OnStall(e StallEvent) {
	if h.Stall != nil {
		h.Stall(e)
	}
}

func (h EventHandlerFuncs) OnInvariantViolation(e InvariantViolation) {
	if h.InvariantViolation != nil {
		h.InvariantViolation(e)
	}
}
