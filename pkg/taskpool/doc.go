// Package taskpool implements a fixed-size worker pool with several dispatch
// disciplines and futures for value-producing tasks.
//
// The pool owns N workers blocking on a shared FIFO queue. Callers hand it
// tasks through one of the dispatch variants; value tasks are wrapped by the
// future bridge so that their results and errors reach the caller through a
// Future instead of the worker.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────────┐
//	│                            TaskPool                                 │
//	│                                                                     │
//	│  Dispatch / DispatchBatch / DispatchSerial / DispatchSync /         │
//	│  DispatchOnce / Submit / SubmitBatch / SubmitSerial / SubmitSync    │
//	│                               │                                     │
//	│                        ┌──────┴──────┐                              │
//	│                        │    gate     │  closed flag + in-flight     │
//	│                        └──────┬──────┘  dispatch counter            │
//	│                               ▼                                     │
//	│  ┌─────────────────────────────────────────────────────────┐        │
//	│  │                 queue.Queue[Task]                       │        │
//	│  │  [task1] [task2] [serial batch] [bridge(task3)] ...     │        │
//	│  └─────────────────────────────────────────────────────────┘        │
//	│         │                     │                     │               │
//	│         ▼                     ▼                     ▼               │
//	│  ┌──────────────┐      ┌──────────────┐      ┌──────────────┐       │
//	│  │   Worker 1   │      │   Worker 2   │      │   Worker N   │       │
//	│  └──────────────┘      └──────────────┘      └──────────────┘       │
//	└─────────────────────────────────────────────────────────────────────┘
//
// # Dispatch Variants
//
//	┌────────────────┬──────────────────────┬──────────────────────────────────┐
//	│ Call           │ Returns              │ Ordering                         │
//	├────────────────┼──────────────────────┼──────────────────────────────────┤
//	│ Dispatch       │ error                │ none                             │
//	│ Submit         │ *Future[T]           │ none                             │
//	│ DispatchBatch  │ error                │ queued in order, run in parallel │
//	│ SubmitBatch    │ []*Future[T]         │ futures index-aligned            │
//	│ DispatchSerial │ error                │ strict slice order, one worker   │
//	│ SubmitSerial   │ []*Future[T]         │ strict slice order, one worker   │
//	│ DispatchSync   │ error (blocks)       │ none, returns after all ran      │
//	│ SubmitSync     │ []T (blocks)         │ results index-aligned            │
//	│ DispatchOnce   │ error (blocks)       │ one execution per OnceGate       │
//	└────────────────┴──────────────────────┴──────────────────────────────────┘
//
// Value-returning variants are package functions because Go methods cannot
// have type parameters:
//
//	f, err := taskpool.Submit(pool, func() (int, error) {
//	    return 42, nil
//	})
//	v, err := f.Get()
//
// Every variant checks, in this order: an empty slice is a no-op returning an
// empty result; a closed pool yields ErrPoolClosed; a nil task yields an
// *InvalidTaskError carrying its index. Nothing is queued when a check fails.
//
// # Future Bridge
//
// A ValueTask is never queued as is. It is wrapped into a void task that
// settles a promise:
//
//	bridge(task, promise):
//	    v, err := task()      ──► promise.setValue(v) / promise.setError(err)
//	    panic                 ──► promise.setError(*PanicError)
//
// A Future may be read by any number of goroutines; Get blocks until the
// promise is settled and Done exposes the settlement as a channel.
//
// # Void Task Panics
//
// Void tasks have no way to report a failure. A panic raised by one is
// recovered by the worker, logged with its stack and counted in the
// taskpool_task_panics_total metric. The worker goes on with the next task,
// so the pool never loses capacity.
//
// # Completion Combinators
//
// OnSuccess, OnFailure and OnComplete queue one task that blocks on the
// future and then calls the matching callback on the worker:
//
//	f, _ := taskpool.Submit(pool, fetch)
//	_ = taskpool.OnComplete(pool, f,
//	    func(v string) { ... },   // value path
//	    func(err error) { ... },  // error path
//	)
//
// Each pending combinator holds a worker for the whole wait. A pool with
// fewer workers than pending combinators plus the tasks they wait on starves.
//
// # Shutdown
//
// Close performs the shutdown in three steps:
//
//  1. The gate is closed: every later dispatch fails with ErrPoolClosed, and
//     Close waits for dispatch calls that were already admitted to finish
//     queueing their tasks. No task can be queued after step 2.
//     │
//     ▼
//  2. One sentinel (nil Task) per worker is queued in bulk.
//     │
//     ▼
//  3. Workers run whatever precedes their sentinel, then drain the queue
//     with non-blocking polls until all of them observe it empty at once.
//
// Worker Lifecycle:
//
//	┌───────────┐   sentinel    ┌───────────┐  all workers idle  ┌───────────┐
//	│  running  │ ────────────► │ draining  │ ─────────────────► │  stopped  │
//	│ (Get)     │               │ (TryGet)  │                    │           │
//	└───────────┘               └─────┬─────┘                    └───────────┘
//	                                  │  ▲
//	                      empty: vote │  │ task found: withdraw vote, run it
//	                                  └──┘
//
// Draining workers pause between empty polls with an exponential backoff.
// Close is idempotent. Tasks still queued when Close is called are run
// before it returns.
//
// # Blocking Hazards
//
// DispatchSync, SubmitSync, DispatchOnce and Future.Get block the caller. When
// the caller is itself a task, the pool needs spare workers to make progress.
// A pool created with WithWorkers(0) never runs anything.
//
// # Usage Example
//
//	pool := taskpool.New(taskpool.WithWorkers(8))
//	defer pool.Close()
//
//	var sum atomic.Int64
//	tasks := make([]taskpool.Task, 4000)
//	for i := range tasks {
//	    tasks[i] = func() { sum.Add(int64(i)) }
//	}
//	if err := pool.DispatchSync(tasks); err != nil {
//	    log.Fatal(err)
//	}
//	// sum.Load() == 7998000
package taskpool
