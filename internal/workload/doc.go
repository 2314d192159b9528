// Package workload drives a taskpool through every dispatch discipline and
// checks the observable guarantees of each.
//
//	┌──────────┬─────────────────────────────┬───────────────────────────────┐
//	│ Workload │ Operations                  │ Check                         │
//	├──────────┼─────────────────────────────┼───────────────────────────────┤
//	│ sum      │ Dispatch, DispatchBatch     │ total == N(N-1)/2 after Close │
//	│ serial   │ DispatchSerial per producer │ each batch ran in order       │
//	│ sync     │ SubmitSync, DispatchSync    │ ordered results, all awaited  │
//	│ once     │ DispatchOnce from K callers │ one run, seen by every caller │
//	│ futures  │ Submit, OnComplete          │ values and failures routed    │
//	└──────────┴─────────────────────────────┴───────────────────────────────┘
//
// Each workload gets its own pool from the PoolFactory and the pool is closed
// when the workload returns. Concurrent producers run in an errgroup so the
// first dispatch error fails the workload.
package workload
