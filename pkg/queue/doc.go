/*
Package queue provides a thread-safe FIFO task queue built from linked,
fixed-capacity segments.

# Overview

A TaskQueue stores Task values in segments of SegmentCapacity slots. The
first segment is allocated lazily on the first enqueue; a new tail segment is
linked whenever the current tail is full, and a head segment is released as
soon as every slot in it has been written and consumed. Released segments are
recycled, so steady-state enqueue/dequeue costs one allocation per
SegmentCapacity tasks at most.

# Notification

The queue does not know who consumes it. A Notifier installed with
SetNotifier is called after Enqueue (when notify is requested) and on
Broadcast, always after the queue lock has been released:

	q := queue.New(0)
	q.SetNotifier(queue.NotifyFuncs{
		Append:    func() { cond.Signal() },
		Broadcast: func() { cond.Broadcast() },
	})

For batches, EnqueueQuiet skips the per-task notification and a single
Broadcast wakes every consumer:

	for _, t := range batch {
		_ = q.EnqueueQuiet(t)
	}
	q.Broadcast()

# Cleanup

Every task's Cleanup runs exactly once: after execution (see Task.Run), or
from Destroy for tasks that were still queued. Tasks discarded by Destroy are
never executed and their OnError is not called.
*/
package queue
