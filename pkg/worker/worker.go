package worker

import (
	"context"
	"errors"

	"github.com/jzx17/qops/pkg/queue"
	"github.com/jzx17/qops/pkg/types"
	"github.com/rs/zerolog"
)

// WorkerState defines the state of a worker
type WorkerState int32

const (
	// WorkerStateRunning represents a worker looking for or executing a task
	WorkerStateRunning WorkerState = iota
	// WorkerStateIdle represents a worker blocked waiting for work
	WorkerStateIdle
	// WorkerStateExiting represents a worker that observed shutdown
	WorkerStateExiting
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateRunning:
		return "running"
	case WorkerStateIdle:
		return "idle"
	case WorkerStateExiting:
		return "exiting"
	default:
		return "unknown"
	}
}

// worker is the per-goroutine state of one pool worker
type worker struct {
	pool  *Pool
	index int
	ctx   context.Context
	log   zerolog.Logger
}

func newWorker(p *Pool, index int) *worker {
	log := p.log.With().Int("worker", index).Logger()
	ctx := withWorker(context.Background(), p, index)
	ctx = log.WithContext(ctx)
	return &worker{
		pool:  p,
		index: index,
		ctx:   ctx,
		log:   log,
	}
}

// start is the goroutine body. It applies the scheduling policy, reports
// the outcome on startup and then runs the worker loop.
func (p *Pool) start(startup chan<- error) {
	defer p.workers.Add(-1)

	index := int(p.started.Add(1) - 1)
	w := newWorker(p, index)

	if err := setSchedule(p.config.Policy, p.config.Priority); err != nil {
		w.log.Error().Err(err).
			Stringer("policy", p.config.Policy).
			Int("priority", p.config.Priority).
			Msg("failed to apply scheduling policy")
		startup <- err
		return
	}
	startup <- nil

	w.run()
}

// run drives the Running/Idle/Exiting state machine until done is set
func (w *worker) run() {
	p := w.pool
	p.waitReady()

	for !p.done.Load() {
		task, ok := p.queue.Dequeue()
		if !ok {
			p.waitForWork()
			continue
		}
		w.execute(&task)
	}
	w.log.Debug().Stringer("state", WorkerStateExiting).Msg("worker exiting")
}

// execute runs a single task; failures stay inside the task
func (w *worker) execute(task *queue.Task) {
	status, err := task.Run(w.ctx)

	w.pool.executed.Add(1)
	if status != queue.StatusOK {
		w.pool.failed.Add(1)
	}
	if err == nil {
		return
	}

	var te *types.TaskError
	if errors.As(err, &te) {
		te.WithContext("worker_id", w.index)
		if te.Operation == "execute" {
			w.pool.panicked.Add(1)
		}
		stack, _ := te.Context["stack_trace"].(string)
		w.log.Error().Err(te.Cause).
			Str("callback", te.Operation).
			Str("stack", stack).
			Msg("task callback panicked")
		return
	}
	w.log.Error().Err(err).Msg("task callback failed")
}
