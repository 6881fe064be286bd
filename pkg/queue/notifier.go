package queue

// Notifier is the consumer the queue wakes after an append or on an explicit
// broadcast. The queue calls it only after releasing its own lock, so an
// implementation may take its own locks freely; it must not assume it is the
// only goroutine calling it.
type Notifier interface {
	// OnAppend is called after a notifying enqueue succeeded
	OnAppend()
	// OnBroadcast is called by Broadcast
	OnBroadcast()
}

// NotifyFuncs adapts a pair of functions to Notifier. Nil fields are skipped.
type NotifyFuncs struct {
	Append    func()
	Broadcast func()
}

// OnAppend implements Notifier
func (n NotifyFuncs) OnAppend() {
	if n.Append != nil {
		n.Append()
	}
}

// OnBroadcast implements Notifier
func (n NotifyFuncs) OnBroadcast() {
	if n.Broadcast != nil {
		n.Broadcast()
	}
}
