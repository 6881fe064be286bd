//go:build !deadlock

package syncx

import "sync"

// Mutex is a plain sync.Mutex in regular builds.
type Mutex = sync.Mutex

// Enabled reports whether deadlock detection is compiled in.
const Enabled = false
