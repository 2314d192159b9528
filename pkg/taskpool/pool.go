package taskpool

import (
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/pkg/queue"
)

// TaskPool runs tasks on a fixed set of workers sharing one FIFO queue.
// A nil Task in the queue is the shutdown sentinel.
type TaskPool struct {
	id      string
	workers int
	tasks   *queue.Queue[Task]
	gate    gate

	wg   sync.WaitGroup
	idle atomic.Int64
	once sync.Once

	drainInitial time.Duration
	drainMax     time.Duration

	executed atomic.Int64
	panics   atomic.Int64

	log        *zap.SugaredLogger
	registerer prometheus.Registerer
	metrics    *metrics
}

func New(opts ...Option) *TaskPool {
	p := &TaskPool{
		id:           uuid.NewString(),
		workers:      runtime.NumCPU(),
		tasks:        queue.New[Task](),
		drainInitial: defaultDrainInitialInterval,
		drainMax:     defaultDrainMaxInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = zap.S().Named("taskpool")
	}
	p.log = p.log.With("pool_id", p.id)

	p.metrics = newMetrics(p)
	if p.registerer != nil {
		p.metrics.register(p.registerer, p.log)
	}

	p.wg.Add(p.workers)
	for i := range p.workers {
		go p.work(i + 1)
	}
	p.metrics.workers.Set(float64(p.workers))
	p.log.Infow("task pool started", "workers", p.workers)

	return p
}

// ID returns the identifier attached to the pool logs and metrics.
func (p *TaskPool) ID() string {
	return p.id
}

func (p *TaskPool) Workers() int {
	return p.workers
}

// Pending returns the number of queued tasks not yet picked up by a worker.
func (p *TaskPool) Pending() int {
	return p.tasks.Len()
}

// Closed reports whether Close has been called.
func (p *TaskPool) Closed() bool {
	return p.gate.isClosed()
}

// Close stops accepting tasks, runs every task accepted so far and waits for
// the workers to exit. It is safe to call more than once; later calls block
// until the first one returns.
func (p *TaskPool) Close() {
	p.once.Do(func() {
		p.log.Infow("closing task pool", "pending", p.tasks.Len())

		p.gate.closeAndWait()
		p.tasks.PutBulk(make([]Task, p.workers))
		p.wg.Wait()

		p.metrics.workers.Set(0)
		if p.registerer != nil {
			p.metrics.unregister(p.registerer)
		}
		p.log.Infow("task pool closed", "executed", p.executed.Load(), "panics", p.panics.Load())
	})
}

// admit runs fn inside the admission window.
func (p *TaskPool) admit(fn func() error) error {
	if !p.gate.enter() {
		return ErrPoolClosed
	}
	defer p.gate.exit()
	return fn()
}

func (p *TaskPool) put(variant string, t Task) {
	p.tasks.Put(t)
	p.metrics.dispatched.WithLabelValues(variant).Inc()
}

func (p *TaskPool) putBulk(variant string, ts []Task) {
	p.tasks.PutBulk(ts)
	p.metrics.dispatched.WithLabelValues(variant).Add(float64(len(ts)))
}

// execute runs t. A panic is logged and counted, and the worker carries on.
func (p *TaskPool) execute(t Task) {
	defer func() {
		if rec := recover(); rec != nil {
			p.panics.Add(1)
			p.metrics.panics.Inc()
			p.log.Errorw("task panicked", "panic", rec, "stack", string(debug.Stack()))
		}
		p.executed.Add(1)
		p.metrics.executed.Inc()
	}()
	t()
}

func validateTasks(tasks []Task) error {
	for i, t := range tasks {
		if t == nil {
			return NewInvalidTaskError(i)
		}
	}
	return nil
}

func validateValueTasks[T any](tasks []ValueTask[T]) error {
	for i, t := range tasks {
		if t == nil {
			return NewInvalidTaskError(i)
		}
	}
	return nil
}
