//go:build deadlock

package syncx

import (
	"time"

	"github.com/sasha-s/go-deadlock"
)

// Mutex reports potential deadlocks when built with -tags deadlock.
type Mutex = deadlock.Mutex

// Enabled reports whether deadlock detection is compiled in.
const Enabled = true

func init() {
	deadlock.Opts.DeadlockTimeout = 10 * time.Second
}
