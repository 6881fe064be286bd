// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrInvalidArgument indicates a nil queue, task or pool, or a
	// non-positive worker count
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrAllocation indicates the queue could not grow by another segment
	ErrAllocation = errors.New("segment allocation failed")

	// ErrThreadSpawn indicates a worker could not be started during pool
	// construction; the construction was rolled back
	ErrThreadSpawn = errors.New("worker spawn failed")

	// ErrBusy indicates the pool still had running workers when the shutdown
	// timeout elapsed; nothing was released and the call may be retried
	ErrBusy = errors.New("worker pool is busy")

	// ErrQueueDestroyed indicates the queue has been destroyed
	ErrQueueDestroyed = errors.New("task queue is destroyed")

	// ErrUnsupportedPolicy indicates the scheduling policy cannot be applied
	// on this platform
	ErrUnsupportedPolicy = errors.New("scheduling policy not supported")
)

// TaskError describes a failure that happened while a worker was running a
// task callback. It is only used for logging; the task itself learns about
// failures through its error handler.
type TaskError struct {
	// Operation is the callback that failed: "execute", "on_error" or "cleanup"
	Operation string

	// Cause is the underlying error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TaskError) Error() string {
	return fmt.Sprintf("task error in %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying error
func (e *TaskError) Unwrap() error {
	return e.Cause
}

// NewTaskError creates a new task error
func NewTaskError(operation string, cause error) *TaskError {
	return &TaskError{
		Operation: operation,
		Cause:     cause,
		Context:   make(map[string]interface{}),
	}
}

// WithContext adds error context
func (e *TaskError) WithContext(key string, value interface{}) *TaskError {
	e.Context[key] = value
	return e
}
