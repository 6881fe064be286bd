package queue

import (
	"fmt"
	"sync"

	"github.com/jzx17/qops/internal/syncx"
	"github.com/jzx17/qops/pkg/types"
)

// DefaultSegmentCapacity is the number of slots per segment when New is
// given a non-positive capacity
const DefaultSegmentCapacity = 64

// Option configures a TaskQueue
type Option func(*TaskQueue)

// WithMaxSegments bounds the number of live segments. An enqueue that would
// need another segment fails with types.ErrAllocation. Zero means unbounded.
func WithMaxSegments(n int) Option {
	return func(q *TaskQueue) {
		if n > 0 {
			q.maxSegments = n
		}
	}
}

// QueueStats contains queue statistics
type QueueStats struct {
	Len               int
	LiveSegments      int
	SegmentsAllocated uint64
	SegmentsReleased  uint64
	Enqueued          uint64
	Dequeued          uint64
	Discarded         uint64
}

// TaskQueue is a mutex-protected FIFO of tasks stored in a linked list of
// fixed-capacity segments. Tasks are appended at the tail segment and
// consumed from the head segment; a head segment is released as soon as it
// is fully drained.
type TaskQueue struct {
	mu          syncx.Mutex
	head        *segment
	tail        *segment
	capacity    int
	maxSegments int
	count       int
	live        int
	destroyed   bool
	notifier    Notifier

	recycled sync.Pool

	allocated uint64
	released  uint64
	enqueued  uint64
	dequeued  uint64
	discarded uint64
}

// New creates an empty queue whose segments hold segmentCapacity tasks
func New(segmentCapacity int, opts ...Option) *TaskQueue {
	if segmentCapacity <= 0 {
		segmentCapacity = DefaultSegmentCapacity
	}

	q := &TaskQueue{capacity: segmentCapacity}
	q.recycled.New = func() interface{} {
		return newSegment(q.capacity)
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// SegmentCapacity returns the number of slots per segment
func (q *TaskQueue) SegmentCapacity() int {
	return q.capacity
}

// SetNotifier installs the consumer woken by Enqueue and Broadcast
func (q *TaskQueue) SetNotifier(n Notifier) {
	if q == nil {
		return
	}
	q.mu.Lock()
	q.notifier = n
	q.mu.Unlock()
}

// ClearNotifier removes the installed notifier. Once it returns, no
// subsequently started Enqueue or Broadcast calls the old notifier.
func (q *TaskQueue) ClearNotifier() {
	q.SetNotifier(nil)
}

// ClearNotifierIf removes the installed notifier only if it is n, and reports
// whether it did. n must be of a comparable type.
func (q *TaskQueue) ClearNotifierIf(n Notifier) bool {
	if q == nil || n == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.notifier != n {
		return false
	}
	q.notifier = nil
	return true
}

// Enqueue appends a copy of task. If notify is set and a notifier is
// installed, its OnAppend is called after the queue lock is released.
func (q *TaskQueue) Enqueue(task *Task, notify bool) error {
	if q == nil || task == nil {
		return types.ErrInvalidArgument
	}

	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return types.ErrQueueDestroyed
	}

	if q.tail == nil || !q.tail.writable() {
		seg, err := q.acquireSegment()
		if err != nil {
			q.mu.Unlock()
			return err
		}
		if q.tail == nil {
			q.head = seg
		} else {
			q.tail.next = seg
		}
		q.tail = seg
	}

	q.tail.push(*task)
	q.count++
	q.enqueued++
	n := q.notifier
	q.mu.Unlock()

	if notify && n != nil {
		n.OnAppend()
	}
	return nil
}

// EnqueueQuiet appends a copy of task without notifying. It is meant for
// batches followed by a single Broadcast.
func (q *TaskQueue) EnqueueQuiet(task *Task) error {
	return q.Enqueue(task, false)
}

// Broadcast calls the installed notifier's OnBroadcast
func (q *TaskQueue) Broadcast() {
	if q == nil {
		return
	}
	q.mu.Lock()
	n := q.notifier
	q.mu.Unlock()

	if n != nil {
		n.OnBroadcast()
	}
}

// Dequeue removes the oldest task. It returns false when the queue is empty.
func (q *TaskQueue) Dequeue() (Task, bool) {
	if q == nil {
		return Task{}, false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Task{}, false
	}

	seg := q.head
	task := seg.pop()
	q.count--
	q.dequeued++

	if seg.drained() {
		q.head = seg.next
		if q.head == nil {
			q.tail = nil
		}
		q.releaseSegment(seg)
	}
	return task, true
}

// Size returns the number of queued tasks
func (q *TaskQueue) Size() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Stats returns a snapshot of queue statistics
func (q *TaskQueue) Stats() QueueStats {
	if q == nil {
		return QueueStats{}
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Len:               q.count,
		LiveSegments:      q.live,
		SegmentsAllocated: q.allocated,
		SegmentsReleased:  q.released,
		Enqueued:          q.enqueued,
		Dequeued:          q.dequeued,
		Discarded:         q.discarded,
	}
}

// Destroy drains the queue and runs the Cleanup of every task still queued.
// Those tasks are never executed and their OnError is not called. Later
// enqueues fail with types.ErrQueueDestroyed. Calling Destroy again is a no-op.
func (q *TaskQueue) Destroy() {
	if q == nil {
		return
	}

	q.mu.Lock()
	if q.destroyed {
		q.mu.Unlock()
		return
	}
	q.destroyed = true

	var pending []Task
	for seg := q.head; seg != nil; {
		next := seg.next
		pending = append(pending, seg.pending()...)
		q.releaseSegment(seg)
		seg = next
	}
	q.head, q.tail = nil, nil
	q.count = 0
	q.discarded += uint64(len(pending))
	q.notifier = nil
	q.mu.Unlock()

	// cleanups run outside the lock; the tasks are no longer reachable
	for i := range pending {
		_ = pending[i].Discard()
	}
}

// IsDestroyed reports whether Destroy has been called
func (q *TaskQueue) IsDestroyed() bool {
	if q == nil {
		return true
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.destroyed
}

// acquireSegment must be called with q.mu held
func (q *TaskQueue) acquireSegment() (*segment, error) {
	if q.maxSegments > 0 && q.live >= q.maxSegments {
		return nil, fmt.Errorf("%w: %d live segments of %d tasks", types.ErrAllocation, q.live, q.capacity)
	}
	seg, ok := q.recycled.Get().(*segment)
	if !ok || seg == nil || len(seg.slots) != q.capacity {
		seg = newSegment(q.capacity)
	}
	q.live++
	q.allocated++
	return seg, nil
}

// releaseSegment must be called with q.mu held
func (q *TaskQueue) releaseSegment(seg *segment) {
	seg.reset()
	q.live--
	q.released++
	q.recycled.Put(seg)
}
