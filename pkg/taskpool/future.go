package taskpool

import (
	"runtime/debug"
)

// bridge turns a value task into a void task settling pr. Returned errors and
// panics both end up in the future, never in the worker.
func bridge[T any](task ValueTask[T], pr *promise[T]) Task {
	return func() {
		defer func() {
			if rec := recover(); rec != nil {
				pr.setError(NewPanicError(rec, debug.Stack()))
			}
		}()

		v, err := task()
		if err != nil {
			pr.setError(err)
			return
		}
		pr.setValue(v)
	}
}

// bridgeAll bridges every task and returns the void tasks with their futures,
// index-aligned with tasks.
func bridgeAll[T any](tasks []ValueTask[T]) ([]Task, []*Future[T]) {
	bridged := make([]Task, len(tasks))
	futures := make([]*Future[T], len(tasks))
	for i, t := range tasks {
		pr := newPromise[T]()
		bridged[i] = bridge(t, pr)
		futures[i] = pr.future()
	}
	return bridged, futures
}
