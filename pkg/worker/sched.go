package worker

// SchedPolicy selects the OS scheduling class of worker threads
type SchedPolicy int

const (
	// SchedTimeSharing is the default time-sharing class; workers are plain
	// goroutines and Priority is ignored
	SchedTimeSharing SchedPolicy = iota
	// SchedRoundRobin is the real-time round-robin class
	SchedRoundRobin
	// SchedFIFO is the real-time first-in first-out class
	SchedFIFO
)

const (
	// MaxWorkers is the largest worker count a pool accepts; larger
	// requests are clamped
	MaxWorkers = 0xffff

	// MaxPriority is the highest real-time priority; larger values are
	// clamped
	MaxPriority = 99
)

// String returns the string representation of SchedPolicy
func (p SchedPolicy) String() string {
	switch p {
	case SchedTimeSharing:
		return "time-sharing"
	case SchedRoundRobin:
		return "round-robin"
	case SchedFIFO:
		return "fifo"
	default:
		return "unknown"
	}
}

// IsRealtime reports whether the policy is one of the real-time classes
func (p SchedPolicy) IsRealtime() bool {
	return p == SchedRoundRobin || p == SchedFIFO
}

func (p SchedPolicy) valid() bool {
	return p >= SchedTimeSharing && p <= SchedFIFO
}

func clampPriority(priority int) int {
	if priority < 0 {
		return 0
	}
	if priority > MaxPriority {
		return MaxPriority
	}
	return priority
}

func clampWorkers(n int) int {
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}

// setSchedule applies the policy to the calling goroutine's thread. It is a
// variable so tests can simulate spawn failures.
var setSchedule = applySchedule
