package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/jzx17/qops/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestTask_Run(t *testing.T) {
	tests := []struct {
		name           string
		execute        ExecuteFunc
		withOnError    bool
		expectStatus   int
		expectErrorCb  bool
		expectPanicErr bool
	}{
		{
			name:         "nil execute is a no-op",
			execute:      nil,
			withOnError:  true,
			expectStatus: StatusOK,
		},
		{
			name:         "success skips error handler",
			execute:      func(ctx context.Context, data any) int { return StatusOK },
			withOnError:  true,
			expectStatus: StatusOK,
		},
		{
			name:          "failure reports exact status",
			execute:       func(ctx context.Context, data any) int { return 42 },
			withOnError:   true,
			expectStatus:  42,
			expectErrorCb: true,
		},
		{
			name:         "failure without error handler",
			execute:      func(ctx context.Context, data any) int { return 7 },
			expectStatus: 7,
		},
		{
			name:           "panic is recovered",
			execute:        func(ctx context.Context, data any) int { panic("boom") },
			withOnError:    true,
			expectStatus:   StatusPanic,
			expectErrorCb:  true,
			expectPanicErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotStatus int
			var errorCalls, cleanupCalls int

			task := &Task{Data: "payload", Execute: tt.execute}
			task.WithCleanup(func(data any) {
				assert.Equal(t, "payload", data)
				cleanupCalls++
			})
			if tt.withOnError {
				task.WithErrorHandler(func(data any, status int) {
					gotStatus = status
					errorCalls++
				})
			}

			status, err := task.Run(context.Background())

			assert.Equal(t, tt.expectStatus, status)
			assert.Equal(t, 1, cleanupCalls)
			if tt.expectErrorCb {
				assert.Equal(t, 1, errorCalls)
				assert.Equal(t, tt.expectStatus, gotStatus)
			} else {
				assert.Equal(t, 0, errorCalls)
			}

			if tt.expectPanicErr {
				var te *types.TaskError
				assert.True(t, errors.As(err, &te))
				assert.Equal(t, "execute", te.Operation)
				assert.Contains(t, te.Error(), "boom")
				assert.NotEmpty(t, te.Context["stack_trace"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTask_RunCallbackPanics(t *testing.T) {
	cleaned := false
	task := &Task{
		Execute: func(ctx context.Context, data any) int { return 1 },
		OnError: func(data any, status int) { panic(errors.New("handler failed")) },
		Cleanup: func(data any) { cleaned = true },
	}

	status, err := task.Run(context.Background())
	assert.Equal(t, 1, status)
	assert.True(t, cleaned)

	var te *types.TaskError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, "on_error", te.Operation)
	assert.EqualError(t, te.Cause, "handler failed")

	task = &Task{Cleanup: func(data any) { panic("cleanup failed") }}
	status, err = task.Run(context.Background())
	assert.Equal(t, StatusOK, status)
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, "cleanup", te.Operation)
}

func TestTask_Discard(t *testing.T) {
	executed, cleaned := false, false
	task := NewTask(nil, func(ctx context.Context, data any) int {
		executed = true
		return StatusOK
	}).WithCleanup(func(data any) { cleaned = true })

	assert.NoError(t, task.Discard())
	assert.False(t, executed)
	assert.True(t, cleaned)

	assert.NoError(t, NewTask(nil, nil).Discard())
}
