package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerState(t *testing.T) {
	assert.Equal(t, "running", WorkerStateRunning.String())
	assert.Equal(t, "idle", WorkerStateIdle.String())
	assert.Equal(t, "exiting", WorkerStateExiting.String())
	assert.Equal(t, "unknown", WorkerState(999).String())
}

func TestSchedPolicy(t *testing.T) {
	tests := []struct {
		policy   SchedPolicy
		name     string
		realtime bool
		valid    bool
	}{
		{SchedTimeSharing, "time-sharing", false, true},
		{SchedRoundRobin, "round-robin", true, true},
		{SchedFIFO, "fifo", true, true},
		{SchedPolicy(-1), "unknown", false, false},
		{SchedPolicy(3), "unknown", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.policy.String())
			assert.Equal(t, tt.realtime, tt.policy.IsRealtime())
			assert.Equal(t, tt.valid, tt.policy.valid())
		})
	}
}

func TestClampPriority(t *testing.T) {
	tests := []struct {
		in, out int
	}{
		{-10, 0},
		{0, 0},
		{50, 50},
		{MaxPriority, MaxPriority},
		{MaxPriority + 1, MaxPriority},
		{1000, MaxPriority},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, clampPriority(tt.in), "clampPriority(%d)", tt.in)
	}

	assert.Equal(t, 8, clampWorkers(8))
	assert.Equal(t, MaxWorkers, clampWorkers(MaxWorkers*2))
}

func TestApplySchedule_TimeSharingIsNoop(t *testing.T) {
	assert.NoError(t, applySchedule(SchedTimeSharing, 0))
	assert.NoError(t, applySchedule(SchedTimeSharing, MaxPriority))
}
