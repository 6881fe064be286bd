// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jzx17/qops/pkg/queue"
	"github.com/stretchr/testify/assert"
)

// DefaultTimeout bounds every wait performed by the helpers
const DefaultTimeout = 5 * time.Second

// Context returns a context cancelled at test cleanup or after timeout
func Context(t testing.TB, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// TaskCounter counts the callbacks invoked on tasks it creates
type TaskCounter struct {
	Executed atomic.Int64
	Errored  atomic.Int64
	Cleaned  atomic.Int64
}

// Task returns a task that runs fn (nil means success) and records every
// callback on the counter
func (c *TaskCounter) Task(data any, fn queue.ExecuteFunc) *queue.Task {
	return &queue.Task{
		Data: data,
		Execute: func(ctx context.Context, data any) int {
			c.Executed.Add(1)
			if fn == nil {
				return queue.StatusOK
			}
			return fn(ctx, data)
		},
		OnError: func(data any, status int) { c.Errored.Add(1) },
		Cleanup: func(data any) { c.Cleaned.Add(1) },
	}
}

// Gate is a task body that blocks until Open is called
type Gate struct {
	entered chan struct{}
	release chan struct{}
}

// NewGate creates a closed gate
func NewGate() *Gate {
	return &Gate{
		entered: make(chan struct{}, 1024),
		release: make(chan struct{}),
	}
}

// Execute blocks the calling worker until the gate opens
func (g *Gate) Execute(ctx context.Context, data any) int {
	g.entered <- struct{}{}
	<-g.release
	return queue.StatusOK
}

// WaitEntered waits until n workers are blocked in the gate
func (g *Gate) WaitEntered(t testing.TB, n int) {
	t.Helper()
	timer := time.NewTimer(DefaultTimeout)
	defer timer.Stop()
	for i := 0; i < n; i++ {
		select {
		case <-g.entered:
		case <-timer.C:
			t.Fatalf("timed out waiting for %d workers to enter the gate", n)
		}
	}
}

// Open releases every blocked and future caller
func (g *Gate) Open() {
	close(g.release)
}

// AssertEventually waits for condition to be true
func AssertEventually(t testing.TB, condition func() bool, msgAndArgs ...interface{}) bool {
	return assert.Eventually(t, condition, DefaultTimeout, time.Millisecond, msgAndArgs...)
}
