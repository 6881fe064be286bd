/*
Package worker provides a fixed-size worker pool draining a queue.TaskQueue.

# Overview

A Pool starts a fixed number of worker goroutines that share one queue:
- Workers sleep on a condition variable while the queue is empty
- A notifying append wakes one worker; Broadcast wakes all of them
- Tasks run to completion; failures stay inside the task's own OnError
- IsIdle and Destroy observe the pool with bounded polling
- Real-time OS scheduling classes can be requested per pool

# Lifecycle

The queue is created first, then the pool, which installs itself as the
queue's notifier and picks up anything queued before it existed:

	q := queue.New(0)
	pool, err := worker.New(q, 16)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < n; i++ {
		_ = pool.Append(queue.NewTask(i, work))
	}

	for !pool.IsIdle(100 * time.Millisecond) {
	}

	for pool.Destroy(100*time.Millisecond) != nil {
		// workers still finishing their current task
	}
	q.Destroy()

Destroy stops workers from taking new tasks but never interrupts a running
one. When it times out it returns types.ErrBusy and releases nothing, so the
call can simply be repeated. Tasks left in the queue are cleaned up, not
executed, by queue.TaskQueue.Destroy.

# Worker identity

The context passed to a task's Execute carries the index of the worker
running it, and the pool's logger:

	func work(ctx context.Context, data any) int {
		scratch := buffers[worker.LocalIndex(ctx)]
		zerolog.Ctx(ctx).Debug().Msg("working")
		...
	}

# Scheduling

NewWithSchedule accepts SchedRoundRobin or SchedFIFO with a priority in
[0, MaxPriority]. Each worker then locks its OS thread and moves it into the
requested class. On Linux this needs CAP_SYS_NICE or a suitable
RLIMIT_RTPRIO; on other platforms the real-time classes are unsupported.
Either way the failure is reported as types.ErrThreadSpawn from the
constructor rather than silently falling back to time-sharing.
*/
package worker
