package clock

import "time"

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// AfterFunc schedules f to run once after d has elapsed.
	// Scheduled tasks are fire-and-forget; callers re-check state
	// when the task eventually runs.
	AfterFunc(d time.Duration, f func())
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f on a one-shot system timer
func (c *RealClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}
