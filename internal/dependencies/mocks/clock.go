package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/memoriagame/memoria/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Timers
// scheduled via AfterFunc fire synchronously when Advance moves the
// clock past their deadline.
type MockClock struct {
	mu      sync.Mutex
	current time.Time
	timers  []*MockTimer
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

// AfterFunc registers a timer that fires when the clock is advanced past
// its deadline
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTimer{clock: c, deadline: c.current.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by the given duration, firing due
// timers in deadline order. Callbacks run outside the clock lock so they
// may schedule further timers.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		c.mu.Lock()
		c.current = t.deadline
		c.mu.Unlock()
		t.fn()
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()
}

// Set sets the clock to the given time without firing timers
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = t
}

// PendingTimers returns the number of unfired, unstopped timers
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			count++
		}
	}
	return count
}

// nextDue pops the earliest pending timer due at or before target
func (c *MockClock) nextDue(target time.Time) *MockTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	sort.SliceStable(c.timers, func(i, j int) bool {
		return c.timers[i].deadline.Before(c.timers[j].deadline)
	})
	for _, t := range c.timers {
		if t.fired || t.stopped {
			continue
		}
		if t.deadline.After(target) {
			return nil
		}
		t.fired = true
		return t
	}
	return nil
}

// MockTimer is a timer scheduled on a MockClock
type MockTimer struct {
	clock    *MockClock
	deadline time.Time
	fn       func()
	fired    bool
	stopped  bool
}

// Stop cancels the timer, reporting whether it was still pending
func (t *MockTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}
