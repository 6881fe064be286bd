// Package types provides core clock abstractions for time mocking
package types

import (
	"time"
)

// Clock provides an abstraction over the time operations used by the
// polling loops of the worker pool
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// Since returns the time elapsed since t
	Since(t time.Time) time.Duration
	// Sleep blocks for the given duration
	Sleep(d time.Duration)
	// After returns a channel that delivers the current time after the duration
	After(d time.Duration) <-chan time.Time
}

// RealClock implements Clock using real time operations
type RealClock struct{}

// NewRealClock creates a new real clock
func NewRealClock() Clock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (c *RealClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// PollUntil evaluates cond every interval until it returns true or timeout
// has elapsed on clock. It returns the last value of cond. A zero timeout
// evaluates cond exactly once.
func PollUntil(clock Clock, timeout, interval time.Duration, cond func() bool) bool {
	if clock == nil {
		clock = NewRealClock()
	}
	start := clock.Now()
	for {
		if cond() {
			return true
		}
		if timeout <= 0 || clock.Since(start) >= timeout {
			return false
		}
		clock.Sleep(interval)
	}
}
