package syncx

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutexWithCond(t *testing.T) {
	var mu Mutex
	cond := sync.NewCond(&mu)

	ready := false
	done := make(chan struct{})
	go func() {
		mu.Lock()
		for !ready {
			cond.Wait()
		}
		mu.Unlock()
		close(done)
	}()

	mu.Lock()
	ready = true
	cond.Broadcast()
	mu.Unlock()

	<-done
	var l Locker = &mu
	assert.NotNil(t, l)
}
