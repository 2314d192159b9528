package taskpool

import (
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
)

type workerState int

const (
	stateRunning workerState = iota
	stateDraining
	stateStopped
)

func (s workerState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateDraining:
		return "draining"
	default:
		return "stopped"
	}
}

type worker struct {
	id      int
	pool    *TaskPool
	state   workerState
	voted   bool
	backoff backoff.BackOff
	log     *zap.SugaredLogger
}

func (p *TaskPool) work(id int) {
	defer p.wg.Done()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.drainInitial
	b.MaxInterval = p.drainMax
	b.Reset()

	w := &worker{
		id:      id,
		pool:    p,
		state:   stateRunning,
		backoff: b,
		log:     p.log.With("worker", id),
	}
	w.loop()
}

func (w *worker) loop() {
	for w.state != stateStopped {
		var next workerState
		switch w.state {
		case stateRunning:
			next = w.run()
		case stateDraining:
			next = w.drain()
		}
		if next != w.state {
			w.log.Debugw("worker state changed", "from", w.state, "to", next)
		}
		w.state = next
	}
}

// run blocks on the queue. The sentinel switches the worker to draining.
func (w *worker) run() workerState {
	t := w.pool.tasks.Get()
	if t == nil {
		return stateDraining
	}
	w.pool.execute(t)
	return stateRunning
}

// drain polls the queue without blocking. A worker votes idle when it finds
// the queue empty and withdraws its vote when it finds work again; once every
// worker of the pool has voted, all of them stop.
func (w *worker) drain() workerState {
	t, ok := w.pool.tasks.TryGet()
	if ok && t == nil {
		// sentinel of a worker still running: hand it back
		w.pool.tasks.Put(nil)
		w.pause()
		return stateDraining
	}
	if ok {
		if w.voted {
			w.voted = false
			w.pool.idle.Add(-1)
		}
		w.backoff.Reset()
		w.pool.execute(t)
		return stateDraining
	}

	if !w.voted {
		w.voted = true
		w.pool.idle.Add(1)
	}
	if w.pool.idle.Load() >= int64(w.pool.workers) {
		return stateStopped
	}
	w.pause()
	return stateDraining
}

// pause sleeps for the next backoff interval, capped at the pool drain max.
func (w *worker) pause() {
	time.Sleep(w.backoff.NextBackOff())
}
