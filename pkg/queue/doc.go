// Package queue provides the unbounded blocking FIFO used by the task pool.
//
// The queue is a linked list protected by a single mutex with a condition
// variable for consumers:
//
//	 producers                                     consumers
//	 Put(v) ─────┐                           ┌───► Get()     (blocks while empty)
//	             ▼                           │
//	        ┌──────┬──────┬──────┬──────┐    │
//	 head ─►│ sent │  v1  │  v2  │  v3  │◄─ tail
//	        └──────┴──────┴──────┴──────┘    │
//	             ▲                           └───► TryGet()  (never blocks)
//	 PutBulk(vs) ┘
//
// PutBulk links the whole slice while holding the lock, so a batch keeps its
// internal order. Batches from different producers do not interleave with each
// other inside the queue, although consumers may of course pick the items of a
// batch up on different goroutines.
//
// The queue has no Close: owners that need to stop consumers push sentinel
// values, which is what the task pool does on shutdown.
package queue
