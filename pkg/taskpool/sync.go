package taskpool

import "sync"

// barrier is a countdown released when every participant called done.
type barrier struct {
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

func newBarrier(count int) *barrier {
	b := &barrier{count: count}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *barrier) done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.count--
	if b.count == 0 {
		b.cond.Broadcast()
	}
}

func (b *barrier) wait() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.count > 0 {
		b.cond.Wait()
	}
}

// DispatchSync queues every task individually and blocks until all of them
// have run. The tasks may run concurrently and in any order.
//
// Calling DispatchSync from inside a task can deadlock a pool whose workers
// are all busy waiting.
func (p *TaskPool) DispatchSync(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	b := newBarrier(len(tasks))
	err := p.admit(func() error {
		if err := validateTasks(tasks); err != nil {
			return err
		}
		wrapped := make([]Task, len(tasks))
		for i, t := range tasks {
			wrapped[i] = func() {
				defer b.done()
				t()
			}
		}
		p.putBulk(variantSync, wrapped)
		return nil
	})
	if err != nil {
		return err
	}

	b.wait()
	return nil
}

// SubmitSync queues every value task and blocks until all of them have
// settled. Results are index-aligned with tasks whatever the execution order.
// If any task failed, the error of the lowest failing index is returned as a
// *TaskFailedError and the results are discarded.
func SubmitSync[T any](p *TaskPool, tasks []ValueTask[T]) ([]T, error) {
	if len(tasks) == 0 {
		return []T{}, nil
	}
	var futures []*Future[T]
	err := p.admit(func() error {
		if err := validateValueTasks(tasks); err != nil {
			return err
		}
		var bridged []Task
		bridged, futures = bridgeAll(tasks)
		p.putBulk(variantSync, bridged)
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]T, len(futures))
	var firstErr error
	for i, f := range futures {
		v, err := f.Get()
		if err != nil {
			if firstErr == nil {
				firstErr = NewTaskFailedError(i, err)
			}
			continue
		}
		results[i] = v
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
