package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrInvalidArgument", ErrInvalidArgument},
		{"ErrAllocation", ErrAllocation},
		{"ErrThreadSpawn", ErrThreadSpawn},
		{"ErrBusy", ErrBusy},
		{"ErrQueueDestroyed", ErrQueueDestroyed},
		{"ErrUnsupportedPolicy", ErrUnsupportedPolicy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestTaskError(t *testing.T) {
	cause := errors.New("panic: boom")
	err := NewTaskError("execute", cause).WithContext("worker_id", 3)

	assert.Equal(t, "task error in execute: panic: boom", err.Error())
	assert.Equal(t, 3, err.Context["worker_id"])
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("worker: %w", err)
	var te *TaskError
	assert.ErrorAs(t, wrapped, &te)
	assert.Equal(t, "execute", te.Operation)
}

type countingClock struct {
	now    time.Time
	sleeps int
}

func (c *countingClock) Now() time.Time                  { return c.now }
func (c *countingClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
func (c *countingClock) After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	c.now = c.now.Add(d)
	ch <- c.now
	return ch
}
func (c *countingClock) Sleep(d time.Duration) {
	c.sleeps++
	c.now = c.now.Add(d)
}

func TestPollUntil(t *testing.T) {
	t.Run("condition already true", func(t *testing.T) {
		clock := &countingClock{now: time.Unix(0, 0)}
		assert.True(t, PollUntil(clock, time.Second, time.Millisecond, func() bool { return true }))
		assert.Equal(t, 0, clock.sleeps)
	})

	t.Run("zero timeout evaluates once", func(t *testing.T) {
		clock := &countingClock{now: time.Unix(0, 0)}
		calls := 0
		assert.False(t, PollUntil(clock, 0, time.Millisecond, func() bool { calls++; return false }))
		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, clock.sleeps)
	})

	t.Run("times out", func(t *testing.T) {
		clock := &countingClock{now: time.Unix(0, 0)}
		assert.False(t, PollUntil(clock, 10*time.Millisecond, time.Millisecond, func() bool { return false }))
		assert.Equal(t, 10, clock.sleeps)
	})

	t.Run("becomes true", func(t *testing.T) {
		clock := &countingClock{now: time.Unix(0, 0)}
		calls := 0
		ok := PollUntil(clock, time.Second, time.Millisecond, func() bool {
			calls++
			return calls == 5
		})
		assert.True(t, ok)
		assert.Equal(t, 4, clock.sleeps)
	})

	t.Run("nil clock uses real time", func(t *testing.T) {
		assert.True(t, PollUntil(nil, time.Millisecond, time.Microsecond, func() bool { return true }))
	})
}
