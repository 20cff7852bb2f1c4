package gyro

// DefaultCapacity delays samples by roughly the viewfinder latency at typical
// gyro rates (about 10 samples at 100-250 Hz).
const DefaultCapacity = 10

// DelayLine is a fixed capacity FIFO. It never holds more than its capacity:
// the push that fills it hands back the oldest sample instead.
type DelayLine struct {
	buf  []Sample
	head int
	n    int
}

// NewDelayLine creates a delay line of the given capacity. Capacities below 1
// are raised to 1, which passes every sample straight through.
func NewDelayLine(capacity int) *DelayLine {
	if capacity < 1 {
		capacity = 1
	}
	return &DelayLine{buf: make([]Sample, capacity)}
}

// Push appends s. When that brings the line to capacity, the oldest sample is
// removed and returned with ok set.
func (d *DelayLine) Push(s Sample) (out Sample, ok bool) {
	d.buf[(d.head+d.n)%len(d.buf)] = s
	d.n++
	if d.n < len(d.buf) {
		return Sample{}, false
	}

	out = d.buf[d.head]
	d.buf[d.head] = Sample{}
	d.head = (d.head + 1) % len(d.buf)
	d.n--
	return out, true
}

// Len returns the number of samples held, always below Cap.
func (d *DelayLine) Len() int {
	return d.n
}

// Cap returns the capacity the line was created with.
func (d *DelayLine) Cap() int {
	return len(d.buf)
}
