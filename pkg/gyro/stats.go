package gyro

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

const intervalWindow = 64

// Stats summarizes what a pipeline has processed so far.
type Stats struct {
	Ingested   uint64
	Integrated uint64
	Stalls     uint64
	Dropped    uint64
	// MeanInterval and IntervalStdDev describe the spacing of the most recent
	// integrated samples.
	MeanInterval   time.Duration
	IntervalStdDev time.Duration
}

// intervals keeps the last intervalWindow integration steps in microseconds.
type intervals struct {
	buf  [intervalWindow]float64
	next int
	full bool
}

func (iv *intervals) add(micros int64) {
	iv.buf[iv.next] = float64(micros)
	iv.next = (iv.next + 1) % intervalWindow
	if iv.next == 0 {
		iv.full = true
	}
}

func (iv *intervals) summary() (mean, stddev time.Duration) {
	values := iv.buf[:iv.next]
	if iv.full {
		values = iv.buf[:]
	}

	switch len(values) {
	case 0:
		return 0, 0
	case 1:
		return time.Duration(values[0]) * time.Microsecond, 0
	}

	m, s := stat.MeanStdDev(values, nil)
	return time.Duration(m * float64(time.Microsecond)), time.Duration(s * float64(time.Microsecond))
}
