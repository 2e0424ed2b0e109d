package mocks

import (
	"sync"
	"time"

	"github.com/mverkerk/rpsbattle/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Scheduled tasks fire synchronously when Advance passes their deadline.
// Safe for concurrent use so tests can advance time while handlers run.
type MockClock struct {
	mu        sync.Mutex
	current   time.Time
	scheduled []scheduledTask
}

type scheduledTask struct {
	runAt time.Time
	fn    func()
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{current: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// AfterFunc records f to run when the clock is advanced past d
func (c *MockClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduled = append(c.scheduled, scheduledTask{
		runAt: c.current.Add(d),
		fn:    f,
	})
}

// Advance moves the clock forward and runs any tasks whose deadline
// passed. Tasks run outside the lock so they may reschedule.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)

	var remaining []scheduledTask
	var due []scheduledTask
	for _, task := range c.scheduled {
		if !task.runAt.After(c.current) {
			due = append(due, task)
		} else {
			remaining = append(remaining, task)
		}
	}
	c.scheduled = remaining
	c.mu.Unlock()

	for _, task := range due {
		task.fn()
	}
}

// Set sets the clock to the given time
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// PendingTasks returns the number of tasks not yet fired
func (c *MockClock) PendingTasks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.scheduled)
}
