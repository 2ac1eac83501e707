package clock

import "time"

// Clock is the wall-clock source sampled by the frame driver.
// Frame durations are always computed as differences between two Now()
// readings, so implementations only need to be monotonic.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the duration elapsed since t.
	Since(t time.Time) time.Duration
	// After returns a channel that receives the current time after duration d.
	After(d time.Duration) <-chan time.Time
}

// RealClock reads the host clock. time.Now carries a monotonic reading,
// so frame deltas are unaffected by wall-clock adjustments.
type RealClock struct{}

var _ Clock = (*RealClock)(nil)

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
