// Package syncx selects the mutex implementation used by the queue and the
// worker pool. Building with -tags deadlock swaps in go-deadlock, which
// reports lock-order inversions and locks held for too long.
package syncx

import "sync"

// Locker is satisfied by both mutex implementations and by sync.Cond's L.
type Locker = sync.Locker
