package queue

import (
	"sync"
	"sync/atomic"
)

// noCopy may be embedded into structs which must not be copied after first use.
// go vet will warn on accidental copies (it looks for Lock methods).
type noCopy struct{}

func (*noCopy) Lock() {}

// node for single-lock queue (plain pointer; protected by mu)
type node[T any] struct {
	val  T
	next *node[T]
}

// Queue is an unbounded, single-mutex MPMC FIFO.
// Get blocks until an item is available, TryGet never blocks.
type Queue[T any] struct {
	noCopy noCopy

	mu   sync.Mutex
	cond *sync.Cond
	head *node[T] // sentinel
	tail *node[T]
	size int64 // read atomically by Len without taking mu
}

// New constructs an empty queue.
func New[T any]() *Queue[T] {
	s := &node[T]{}
	q := &Queue[T]{head: s, tail: s}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends one item.
func (q *Queue[T]) Put(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := &node[T]{val: v}
	q.tail.next = n
	q.tail = n
	atomic.AddInt64(&q.size, 1)
	q.cond.Signal()
}

// PutBulk appends all items under one lock acquisition, so they keep their
// relative order. Items put concurrently by other producers land either
// entirely before or entirely after the batch.
func (q *Queue[T]) PutBulk(items []T) {
	if len(items) == 0 {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	for _, v := range items {
		n := &node[T]{val: v}
		q.tail.next = n
		q.tail = n
	}
	atomic.AddInt64(&q.size, int64(len(items)))
	if len(items) == 1 {
		q.cond.Signal()
		return
	}
	q.cond.Broadcast()
}

// Get removes and returns the head item, waiting while the queue is empty.
func (q *Queue[T]) Get() T {
	q.mu.Lock()
	for q.head.next == nil {
		q.cond.Wait()
	}
	v := q.pop()
	q.mu.Unlock()

	atomic.AddInt64(&q.size, -1)
	return v
}

// TryGet removes and returns the head item if there is one.
func (q *Queue[T]) TryGet() (T, bool) {
	q.mu.Lock()
	if q.head.next == nil {
		q.mu.Unlock()
		var zero T
		return zero, false
	}
	v := q.pop()
	q.mu.Unlock()

	atomic.AddInt64(&q.size, -1)
	return v, true
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return int(atomic.LoadInt64(&q.size))
}

// pop must be called with mu held and a non-empty queue.
func (q *Queue[T]) pop() T {
	n := q.head.next
	q.head.next = n.next
	if q.head.next == nil {
		q.tail = q.head
	}
	v := n.val
	n.val = *new(T)
	return v
}
