package taskpool

// Dispatch queues a fire-and-forget task.
func (p *TaskPool) Dispatch(task Task) error {
	return p.admit(func() error {
		if task == nil {
			return NewInvalidTaskError(0)
		}
		p.put(variantDispatch, task)
		return nil
	})
}

// DispatchBatch queues tasks in one bulk operation. The tasks keep their
// relative order in the queue but may run concurrently on different workers.
func (p *TaskPool) DispatchBatch(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return p.admit(func() error {
		if err := validateTasks(tasks); err != nil {
			return err
		}
		batch := make([]Task, len(tasks))
		copy(batch, tasks)
		p.putBulk(variantBatch, batch)
		return nil
	})
}

// Submit queues a value task and returns the future it will settle.
func Submit[T any](p *TaskPool, task ValueTask[T]) (*Future[T], error) {
	var f *Future[T]
	err := p.admit(func() error {
		if task == nil {
			return NewInvalidTaskError(0)
		}
		pr := newPromise[T]()
		p.put(variantSubmit, bridge(task, pr))
		f = pr.future()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SubmitBatch queues value tasks in one bulk operation. The futures are
// index-aligned with tasks and settle independently.
func SubmitBatch[T any](p *TaskPool, tasks []ValueTask[T]) ([]*Future[T], error) {
	if len(tasks) == 0 {
		return []*Future[T]{}, nil
	}
	var futures []*Future[T]
	err := p.admit(func() error {
		if err := validateValueTasks(tasks); err != nil {
			return err
		}
		var bridged []Task
		bridged, futures = bridgeAll(tasks)
		p.putBulk(variantSubmit, bridged)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return futures, nil
}
