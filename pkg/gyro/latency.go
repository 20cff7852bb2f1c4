package gyro

import (
	"math"
	"time"
)

// DelayForLatency returns the delay line capacity that holds samples of a
// rateHz stream back by roughly latency. 230 Hz against 70 ms gives 16.
func DelayForLatency(rateHz float64, latency time.Duration) int {
	n := int(math.Round(rateHz * latency.Seconds()))
	if n < 1 {
		return 1
	}
	return n
}
