//go:build linux

package worker

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"
)

func (p SchedPolicy) native() uint32 {
	switch p {
	case SchedRoundRobin:
		return unix.SCHED_RR
	case SchedFIFO:
		return unix.SCHED_FIFO
	default:
		return unix.SCHED_NORMAL
	}
}

// applySchedule pins the calling goroutine to its OS thread and moves that
// thread into the requested real-time class. The thread stays locked for the
// lifetime of the worker, so the runtime terminates it when the worker exits
// instead of handing it to other goroutines.
func applySchedule(policy SchedPolicy, priority int) error {
	if !policy.IsRealtime() {
		return nil
	}

	runtime.LockOSThread()
	attr := &unix.SchedAttr{
		Policy:   policy.native(),
		Priority: uint32(priority),
	}
	if err := unix.SchedSetAttr(0, attr, 0); err != nil {
		runtime.UnlockOSThread()
		return fmt.Errorf("sched_setattr(%s, %d): %w", policy, priority, err)
	}
	return nil
}
