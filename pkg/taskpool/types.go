package taskpool

import (
	"sync"
)

// Task is a unit of work without a result. A nil Task has no target and is
// rejected by every dispatch call.
type Task func()

// ValueTask is a unit of work producing a value or an error.
type ValueTask[T any] func() (T, error)

type Result[T any] struct {
	Data T
	Err  error
}

// Future is the read side of a value task. It may be read any number of times
// from any number of goroutines. Futures come from Submit and its variants;
// the zero value is never settled and is rejected by the combinators.
type Future[T any] struct {
	done   chan struct{}
	result Result[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) valid() bool {
	return f != nil && f.done != nil
}

// Done returns a channel closed once the future is settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Get blocks until the future is settled.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.result.Data, f.result.Err
}

func (f *Future[T]) Result() Result[T] {
	<-f.done
	return f.result
}

// promise is the write side of a Future, owned by exactly one task closure.
type promise[T any] struct {
	f    *Future[T]
	once sync.Once
}

func newPromise[T any]() *promise[T] {
	return &promise[T]{f: newFuture[T]()}
}

func (p *promise[T]) future() *Future[T] {
	return p.f
}

// settle stores r and releases readers. Only the first call has an effect.
func (p *promise[T]) settle(r Result[T]) {
	p.once.Do(func() {
		p.f.result = r
		close(p.f.done)
	})
}

func (p *promise[T]) setValue(v T) {
	p.settle(Result[T]{Data: v})
}

func (p *promise[T]) setError(err error) {
	p.settle(Result[T]{Err: err})
}
