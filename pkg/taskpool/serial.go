package taskpool

import (
	"runtime/debug"
)

// DispatchSerial queues tasks as a single composite task, so they run one
// after the other on one worker in slice order. The slice is copied and may
// be reused by the caller as soon as DispatchSerial returns.
//
// A panicking entry is logged and the batch continues with the next one.
func (p *TaskPool) DispatchSerial(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return p.admit(func() error {
		if err := validateTasks(tasks); err != nil {
			return err
		}
		batch := make([]Task, len(tasks))
		copy(batch, tasks)
		p.put(variantSerial, p.serial(batch))
		return nil
	})
}

// SubmitSerial is DispatchSerial for value tasks. Each future settles as soon
// as its own task has run.
func SubmitSerial[T any](p *TaskPool, tasks []ValueTask[T]) ([]*Future[T], error) {
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
		p.put(variantSerial, p.serial(bridged))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return futures, nil
}

func (p *TaskPool) serial(batch []Task) Task {
	return func() {
		for i, t := range batch {
			p.runSerialEntry(i, t)
		}
	}
}

func (p *TaskPool) runSerialEntry(i int, t Task) {
	defer func() {
		if rec := recover(); rec != nil {
			p.panics.Add(1)
			p.metrics.panics.Inc()
			p.log.Errorw("serial task panicked", "index", i, "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	t()
}
