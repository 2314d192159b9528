package taskpool

import "sync"

// gate is the admission window of the pool. Every dispatch call enters the
// gate before it looks at its arguments and exits once its tasks are in the
// queue, so closing the gate and waiting for the entrants guarantees that no
// task can be enqueued after the shutdown sentinels.
type gate struct {
	mu     sync.RWMutex
	closed bool
	enqWG  sync.WaitGroup
}

func (g *gate) isClosed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.closed
}

// enter returns false once the gate is closed. A true result must be paired
// with exit.
func (g *gate) enter() bool {
	g.mu.RLock()
	if g.closed {
		g.mu.RUnlock()
		return false
	}
	g.enqWG.Add(1)
	g.mu.RUnlock()
	return true
}

func (g *gate) exit() {
	g.enqWG.Done()
}

// closeAndWait rejects new entrants and waits for the current ones to exit.
func (g *gate) closeAndWait() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.enqWG.Wait()
}
