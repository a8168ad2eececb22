package registry

import "time"

// Clock supplies the monotonic tick counter used as the decay reference.
// One tick is the time-unit of the pricing formula.
type Clock interface {
	Now() uint64
}

// SystemClock ticks once per second (unix time).
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}
