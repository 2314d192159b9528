package taskpool

import "sync"

type onceState int

const (
	onceNotRun onceState = iota
	onceRunning
	onceDone
)

// OnceGate makes DispatchOnce run its task exactly once across every caller
// sharing the gate. The zero value is ready to use. A gate must not be copied
// after first use.
type OnceGate struct {
	mu    sync.Mutex
	cond  *sync.Cond
	state onceState
}

func NewOnceGate() *OnceGate {
	return &OnceGate{}
}

// lazyCond must be called with mu held.
func (g *OnceGate) lazyCond() *sync.Cond {
	if g.cond == nil {
		g.cond = sync.NewCond(&g.mu)
	}
	return g.cond
}

// Done reports whether the gated task has completed.
func (g *OnceGate) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == onceDone
}

// acquire waits until the gate is either done or free. It returns true when
// the caller became the runner.
func (g *OnceGate) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.state == onceRunning {
		g.lazyCond().Wait()
	}
	if g.state == onceDone {
		return false
	}
	g.state = onceRunning
	return true
}

func (g *OnceGate) finish(state onceState) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = state
	g.lazyCond().Broadcast()
}

func (g *OnceGate) wait() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for g.state != onceDone {
		g.lazyCond().Wait()
	}
}

// DispatchOnce runs task on the pool unless a call sharing gate already did,
// and blocks until that single execution has finished. Concurrent callers
// wait for the running one and return without running task again.
//
// If the pool refuses the task the gate is released, the error is returned
// to the caller that tried, and a waiting caller may take over. A panic in
// task is logged by the worker and still completes the gate.
func (p *TaskPool) DispatchOnce(gate *OnceGate, task Task) error {
	if p.Closed() {
		return ErrPoolClosed
	}
	if gate == nil || task == nil {
		return NewInvalidTaskError(0)
	}
	if !gate.acquire() {
		return nil
	}

	err := p.admit(func() error {
		p.put(variantOnce, func() {
			defer gate.finish(onceDone)
			task()
		})
		return nil
	})
	if err != nil {
		gate.finish(onceNotRun)
		return err
	}

	gate.wait()
	return nil
}
