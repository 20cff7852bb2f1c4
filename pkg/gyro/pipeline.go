// Package gyro turns gyroscope angular velocity into an orientation estimate
// that lags the sensor by a fixed number of samples, so overlays drawn from it
// agree with the frame the camera captured rather than with the present.
//
// Samples pass through a DelayLine. Once the line is full each new sample
// releases the oldest one, which is integrated with a rectangular rule:
//
//	dt    = (t - tPrev) / 1000            // whole microseconds
//	angle = angle + velocity * dt * 1e-6
//
// The first released sample only sets the time base.
package gyro

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pion/logging"
	plogging "github.com/pion/previewsense/internal/logging"
)

// DefaultStallThreshold is the longest integration step before the sensor is
// considered stalled, i.e. a rate under 100 Hz.
const DefaultStallThreshold = 10 * time.Millisecond

var logger = plogging.NewLogger("previewsense/gyro")

// Options configures a Pipeline.
type Options struct {
	Capacity       int
	StallThreshold time.Duration
	EventHandler   EventHandler
	Logger         logging.LeveledLogger
}

// Option is a type of Pipeline functional option.
type Option func(*Options)

// WithCapacity sets the delay line depth.
func WithCapacity(n int) Option {
	return func(o *Options) {
		o.Capacity = n
	}
}

// WithStallThreshold overrides DefaultStallThreshold. Steps are measured in
// whole microseconds, so d is truncated to microseconds; a positive d below
// one microsecond counts as one microsecond.
func WithStallThreshold(d time.Duration) Option {
	return func(o *Options) {
		o.StallThreshold = d
	}
}

// WithEventHandler receives stall and invariant events in addition to the log.
func WithEventHandler(h EventHandler) Option {
	return func(o *Options) {
		o.EventHandler = h
	}
}

// WithLogger replaces the package logger.
func WithLogger(l logging.LeveledLogger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// Pipeline fuses gyro samples into a delayed orientation. All state belongs to
// the instance, so independent pipelines can run side by side.
//
// Ingest may be called from several goroutines. The listener is called while
// the pipeline lock is held and must not call back into the pipeline.
type Pipeline struct {
	id       string
	listener Listener
	handler  EventHandler
	log      logging.LeveledLogger
	stallUs  int64

	mu          sync.Mutex
	line        *DelayLine
	state       State
	haveLast    bool
	lastIngest  int64
	baselineSet bool
	prev        int64
	angle       Orientation
	stats       Stats
	intervals   intervals
	unsubscribe func()
}

// NewPipeline creates a pipeline delivering estimates to listener.
func NewPipeline(listener Listener, opts ...Option) *Pipeline {
	o := Options{
		Capacity:       DefaultCapacity,
		StallThreshold: DefaultStallThreshold,
		Logger:         logger,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if listener == nil {
		listener = ListenerFunc(func(Orientation) {})
	}
	if o.EventHandler == nil {
		o.EventHandler = EventHandlerFuncs{}
	}

	return &Pipeline{
		id:       uuid.NewString(),
		listener: listener,
		handler:  o.EventHandler,
		log:      o.Logger,
		stallUs:  stallMicros(o.StallThreshold),
		line:     NewDelayLine(o.Capacity),
		state:    StateIdle,
	}
}

func stallMicros(d time.Duration) int64 {
	us := d.Microseconds()
	if us == 0 && d > 0 {
		return 1
	}
	return us
}

// Ingest pushes s into the delay line and, once the line is full, integrates
// the sample it releases. A sample that does not advance the timestamp is
// dropped and reported as an *InvariantViolation.
func (p *Pipeline) Ingest(s Sample) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.haveLast && s.Timestamp <= p.lastIngest {
		v := InvariantViolation{Timestamp: s.Timestamp, Previous: p.lastIngest}
		p.stats.Dropped++
		p.log.Warnf("pipeline %s: dropping sample: %v", p.id, &v)
		p.handler.OnInvariantViolation(v)
		return &v
	}
	p.haveLast = true
	p.lastIngest = s.Timestamp
	p.stats.Ingested++

	delayed, ok := p.line.Push(s)
	p.state = p.state.next(ok)
	if !ok {
		return nil
	}

	p.integrate(delayed)
	return nil
}

func (p *Pipeline) integrate(s Sample) {
	p.stats.Integrated++
	if !p.baselineSet {
		p.baselineSet = true
		p.prev = s.Timestamp
		p.listener.UpdateOrientation(p.angle)
		return
	}

	dt := (s.Timestamp - p.prev) / 1000
	if dt > p.stallUs {
		e := StallEvent{Timestamp: s.Timestamp, Interval: time.Duration(dt) * time.Microsecond}
		p.stats.Stalls++
		p.log.Debugf("pipeline %s: gyro stall, %v between samples", p.id, e.Interval)
		p.handler.OnStall(e)
	}

	p.angle.X += s.X * float64(dt) * 1e-6
	p.angle.Y += s.Y * float64(dt) * 1e-6
	p.prev = s.Timestamp
	p.intervals.add(dt)

	p.listener.UpdateOrientation(p.angle)
}

// Start subscribes the pipeline to src. Errors from Ingest are already
// reported through the logger and event handler, so they are not surfaced here.
func (p *Pipeline) Start(src Source) error {
	p.mu.Lock()
	if p.unsubscribe != nil {
		p.mu.Unlock()
		return errAlreadyStarted
	}
	p.mu.Unlock()

	unsubscribe, err := src.Subscribe(func(s Sample) {
		_ = p.Ingest(s)
	})
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		unsubscribe()
		return errAlreadyStarted
	}
	p.unsubscribe = unsubscribe
	p.log.Infof("pipeline %s: listening, delay %d samples", p.id, p.line.Cap())
	return nil
}

// Stop ends the subscription made by Start. Samples still in the delay line
// stay there; the estimate is kept.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	unsubscribe := p.unsubscribe
	p.unsubscribe = nil
	p.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// ID is a random identifier used to tell pipelines apart in logs.
func (p *Pipeline) ID() string {
	return p.id
}

// State reports how far the delay line has filled.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Orientation returns the latest estimate, the one last handed to the listener.
func (p *Pipeline) Orientation() Orientation {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.angle
}

// Len returns the number of samples waiting in the delay line.
func (p *Pipeline) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line.Len()
}

// Capacity returns the delay line depth in samples.
func (p *Pipeline) Capacity() int {
	return p.line.Cap()
}

// Stats returns a snapshot of the counters and recent interval statistics.
func (p *Pipeline) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.stats
	s.MeanInterval, s.IntervalStdDev = p.intervals.summary()
	return s
}
