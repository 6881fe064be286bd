package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jzx17/qops/internal/syncx"
	"github.com/jzx17/qops/pkg/queue"
	"github.com/jzx17/qops/pkg/types"
	"github.com/rs/zerolog"
)

// PoolStats contains worker pool statistics
type PoolStats struct {
	// Workers is the number of live worker goroutines
	Workers int
	// Idle is the number of workers blocked waiting for work
	Idle int
	// Started is the number of workers that ever started
	Started int
	// Executed counts tasks taken from the queue and run
	Executed uint64
	// Failed counts executed tasks with a non-zero status
	Failed uint64
	// Panicked counts executed tasks whose execute function panicked
	Panicked uint64
	// Done reports whether shutdown has been requested
	Done bool
}

// Pool is a fixed set of workers draining one TaskQueue.
//
// The pool installs itself as the queue's notifier. Workers that find the
// queue empty sleep on a condition variable; a notifying enqueue wakes one of
// them and a broadcast wakes all of them.
type Pool struct {
	queue  *queue.TaskQueue
	config PoolConfig
	clock  types.Clock
	log    zerolog.Logger

	mu   syncx.Mutex
	cond *sync.Cond

	workers atomic.Int64
	idle    atomic.Int64
	started atomic.Int64
	done    atomic.Bool
	ready   atomic.Bool
	closed  atomic.Bool

	executed atomic.Uint64
	failed   atomic.Uint64
	panicked atomic.Uint64
}

// New creates a pool of n time-sharing workers draining q
func New(q *queue.TaskQueue, n int) (*Pool, error) {
	return NewWithSchedule(q, n, SchedTimeSharing, 0)
}

// NewWithSchedule creates a pool of n workers running under policy with the
// given real-time priority. Real-time policies usually need elevated
// privileges; when the policy cannot be applied the construction fails with
// types.ErrThreadSpawn.
func NewWithSchedule(q *queue.TaskQueue, n int, policy SchedPolicy, priority int) (*Pool, error) {
	cfg := DefaultPoolConfig()
	cfg.Workers = n
	cfg.Policy = policy
	cfg.Priority = priority
	return NewPool(q, cfg)
}

// NewPool creates a pool from config. A nil config uses DefaultPoolConfig.
// No partially started pool is ever returned: if any worker fails to start,
// the started ones are stopped before the error is returned.
func NewPool(q *queue.TaskQueue, config *PoolConfig) (*Pool, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: queue cannot be nil", types.ErrInvalidArgument)
	}
	cfg, err := config.normalize()
	if err != nil {
		return nil, err
	}

	p := &Pool{
		queue:  q,
		config: cfg,
		clock:  cfg.Clock,
		log:    cfg.Logger.With().Str("component", "worker_pool").Logger(),
	}
	p.cond = sync.NewCond(&p.mu)

	startup := make(chan error, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		p.workers.Add(1)
		go p.start(startup)
	}

	var spawnErr error
	for i := 0; i < cfg.Workers; i++ {
		if err := <-startup; err != nil && spawnErr == nil {
			spawnErr = err
		}
	}
	if spawnErr != nil {
		p.rollback(spawnErr)
		return nil, fmt.Errorf("%w: %w", types.ErrThreadSpawn, spawnErr)
	}

	q.SetNotifier(poolNotifier{p})

	p.mu.Lock()
	p.ready.Store(true)
	p.mu.Unlock()
	// tasks queued before the pool existed are picked up here
	p.wakeAll()

	p.log.Debug().
		Int("workers", cfg.Workers).
		Stringer("policy", cfg.Policy).
		Int("priority", cfg.Priority).
		Msg("worker pool started")
	return p, nil
}

// rollback stops the workers of a pool whose construction failed
func (p *Pool) rollback(cause error) {
	p.requestShutdown()
	stopped := types.PollUntil(p.clock, p.config.StartupTimeout, p.config.ShutdownPollInterval, p.stopped)
	ev := p.log.Error().Err(cause)
	if !stopped {
		ev = ev.Int64("still_running", p.workers.Load())
	}
	ev.Msg("worker spawn failed, pool construction rolled back")
}

// Append enqueues task and wakes one idle worker
func (p *Pool) Append(task *queue.Task) error {
	if p == nil {
		return types.ErrInvalidArgument
	}
	return p.queue.Enqueue(task, true)
}

// AppendQuiet enqueues task without waking a worker. Follow a batch of
// quiet appends with Broadcast.
func (p *Pool) AppendQuiet(task *queue.Task) error {
	if p == nil {
		return types.ErrInvalidArgument
	}
	return p.queue.EnqueueQuiet(task)
}

// Broadcast wakes every idle worker through the queue's notifier
func (p *Pool) Broadcast() {
	if p == nil {
		return
	}
	p.queue.Broadcast()
}

// IsIdle reports whether every worker is waiting and the queue is empty. If
// that is not the case it keeps observing until timeout elapses and returns
// the last observation. The result is a snapshot: a task may be appended
// right after IsIdle returns true.
func (p *Pool) IsIdle(timeout time.Duration) bool {
	if p == nil {
		return true
	}
	return types.PollUntil(p.clock, timeout, p.config.IdlePollInterval, p.idleNow)
}

func (p *Pool) idleNow() bool {
	return p.workers.Load() == p.idle.Load() && p.queue.Size() == 0
}

// Destroy stops every worker. Tasks being executed run to completion; tasks
// still queued are left in the queue. If some workers are still running when
// timeout elapses, Destroy returns an error wrapping types.ErrBusy, keeps the
// pool intact, and may be called again. On success the pool is detached from
// the queue; later calls return nil.
func (p *Pool) Destroy(timeout time.Duration) error {
	return p.destroy(timeout, true)
}

// DestroyContext calls Destroy until it succeeds or ctx is done
func (p *Pool) DestroyContext(ctx context.Context) error {
	if p == nil {
		return nil
	}
	for {
		err := p.destroy(p.config.ShutdownPollInterval, false)
		if err == nil || !errors.Is(err, types.ErrBusy) {
			return err
		}
		select {
		case <-ctx.Done():
			p.log.Warn().Int64("still_running", p.workers.Load()).Msg("worker pool shutdown abandoned")
			return fmt.Errorf("%w: %w", types.ErrBusy, ctx.Err())
		default:
		}
	}
}

func (p *Pool) destroy(timeout time.Duration, logBusy bool) error {
	if p == nil || p.closed.Load() {
		return nil
	}

	p.requestShutdown()
	stopped := types.PollUntil(p.clock, timeout, p.config.ShutdownPollInterval, func() bool {
		if p.stopped() {
			return true
		}
		p.wakeAll()
		return false
	})
	if !stopped {
		running := p.workers.Load()
		if logBusy {
			p.log.Warn().Int64("still_running", running).Dur("timeout", timeout).Msg("worker pool shutdown timed out")
		}
		return fmt.Errorf("%w: %d workers still running after %v", types.ErrBusy, running, timeout)
	}

	if p.closed.CompareAndSwap(false, true) {
		// a pool created on the same queue later keeps its notifier
		p.queue.ClearNotifierIf(poolNotifier{p})
		p.log.Debug().
			Uint64("executed", p.executed.Load()).
			Int("pending", p.queue.Size()).
			Msg("worker pool destroyed")
	}
	return nil
}

// requestShutdown sets done and wakes every worker
func (p *Pool) requestShutdown() {
	p.mu.Lock()
	p.done.Store(true)
	p.ready.Store(true)
	p.mu.Unlock()
	p.wakeAll()
}

func (p *Pool) stopped() bool {
	return p.workers.Load() == 0
}

// Size returns the configured number of workers
func (p *Pool) Size() int {
	if p == nil {
		return 0
	}
	return p.config.Workers
}

// Queue returns the queue drained by the pool
func (p *Pool) Queue() *queue.TaskQueue {
	if p == nil {
		return nil
	}
	return p.queue
}

// Stats gets worker pool statistics. Each field is loaded independently, so
// a snapshot taken while workers start or exit can be inconsistent, for
// example Idle briefly exceeding Workers.
func (p *Pool) Stats() PoolStats {
	if p == nil {
		return PoolStats{}
	}
	return PoolStats{
		Workers:  int(p.workers.Load()),
		Idle:     int(p.idle.Load()),
		Started:  int(p.started.Load()),
		Executed: p.executed.Load(),
		Failed:   p.failed.Load(),
		Panicked: p.panicked.Load(),
		Done:     p.done.Load(),
	}
}

// waitReady blocks a freshly started worker until construction finished or
// was rolled back
func (p *Pool) waitReady() {
	p.mu.Lock()
	p.idle.Add(1)
	for !p.ready.Load() && !p.done.Load() {
		p.cond.Wait()
	}
	p.idle.Add(-1)
	p.mu.Unlock()
}

// waitForWork parks an idle worker. The queue is re-checked under p.mu: an
// append that lands after the failed dequeue signals under the same lock, so
// it cannot slip in between the check and the wait.
func (p *Pool) waitForWork() {
	p.mu.Lock()
	p.idle.Add(1)
	if !p.done.Load() && p.queue.Size() == 0 {
		p.cond.Wait()
	}
	p.idle.Add(-1)
	p.mu.Unlock()
}

func (p *Pool) wakeOne() {
	p.mu.Lock()
	p.cond.Signal()
	p.mu.Unlock()
}

func (p *Pool) wakeAll() {
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
}

// poolNotifier is the queue.Notifier a pool installs into its queue
type poolNotifier struct {
	pool *Pool
}

func (n poolNotifier) OnAppend() {
	n.pool.wakeOne()
}

func (n poolNotifier) OnBroadcast() {
	n.pool.wakeAll()
}
