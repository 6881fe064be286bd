package queue

import (
	"context"
	"fmt"
	"runtime"

	"github.com/jzx17/qops/pkg/types"
)

// StatusOK is the status returned by a successful execute function
const StatusOK = 0

// StatusPanic is the status reported to OnError when Execute panicked
const StatusPanic = -1

// ExecuteFunc runs the task payload and returns a status; non-zero is a failure
type ExecuteFunc func(ctx context.Context, data any) int

// ErrorFunc receives the payload and the non-zero status returned by Execute
type ErrorFunc func(data any, status int)

// CleanupFunc releases the payload
type CleanupFunc func(data any)

// Task is a unit of work. The submitter owns Data until Cleanup runs.
// Every field besides Data is optional.
type Task struct {
	Data    any
	Execute ExecuteFunc
	OnError ErrorFunc
	Cleanup CleanupFunc
}

// NewTask creates a task without error or cleanup handlers
func NewTask(data any, execute ExecuteFunc) *Task {
	return &Task{Data: data, Execute: execute}
}

// WithErrorHandler sets the error handler and returns the task
func (t *Task) WithErrorHandler(fn ErrorFunc) *Task {
	t.OnError = fn
	return t
}

// WithCleanup sets the cleanup function and returns the task
func (t *Task) WithCleanup(fn CleanupFunc) *Task {
	t.Cleanup = fn
	return t
}

// Run executes the task, reports a non-zero status to OnError and always
// runs Cleanup last. Panics in any callback are recovered; the first one is
// returned as a *types.TaskError.
func (t *Task) Run(ctx context.Context) (status int, err error) {
	defer func() {
		if cerr := t.Discard(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if t.Execute != nil {
		err = protect("execute", func() {
			status = t.Execute(ctx, t.Data)
		})
		if err != nil {
			status = StatusPanic
		}
	}

	if status != StatusOK && t.OnError != nil {
		if herr := protect("on_error", func() { t.OnError(t.Data, status) }); herr != nil && err == nil {
			err = herr
		}
	}
	return status, err
}

// Discard runs only the cleanup function. It is used for tasks that are
// dropped without being executed.
func (t *Task) Discard() error {
	if t.Cleanup == nil {
		return nil
	}
	return protect("cleanup", func() { t.Cleanup(t.Data) })
}

// protect runs fn and converts a panic into a *types.TaskError
func protect(operation string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			var buf [4096]byte
			n := runtime.Stack(buf[:], false)

			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			err = types.NewTaskError(operation, cause).
				WithContext("stack_trace", string(buf[:n]))
		}
	}()

	fn()
	return nil
}
