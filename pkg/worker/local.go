package worker

import "context"

type workerKey struct{}

type workerIdentity struct {
	pool  *Pool
	index int
}

func withWorker(ctx context.Context, p *Pool, index int) context.Context {
	return context.WithValue(ctx, workerKey{}, workerIdentity{pool: p, index: index})
}

// LocalIndex returns the index of the worker running the task that received
// ctx, or -1 when ctx does not come from a worker. Indexes are assigned in
// start order, from 0 to Size()-1, and never change for a given worker.
func LocalIndex(ctx context.Context) int {
	if ctx == nil {
		return -1
	}
	if id, ok := ctx.Value(workerKey{}).(workerIdentity); ok {
		return id.index
	}
	return -1
}

// LocalIndex is like the package-level LocalIndex but returns -1 for
// workers of other pools.
func (p *Pool) LocalIndex(ctx context.Context) int {
	if p == nil || ctx == nil {
		return -1
	}
	if id, ok := ctx.Value(workerKey{}).(workerIdentity); ok && id.pool == p {
		return id.index
	}
	return -1
}
