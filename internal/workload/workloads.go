package workload

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/kubev2v/taskpool/pkg/taskpool"
)

var errOdd = errors.New("odd input")

// sum adds 0..N-1 on the pool. The upper half goes in one batch while the
// producers dispatch the lower half one task at a time.
func (r *Runner) sum(ctx context.Context, p *taskpool.TaskPool) (string, error) {
	n := r.cfg.Tasks
	half := n / 2
	var total atomic.Int64

	batch := make([]taskpool.Task, 0, n-half)
	for i := half; i < n; i++ {
		batch = append(batch, func() { total.Add(int64(i)) })
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.DispatchBatch(batch)
	})
	producers := r.cfg.Producers
	for w := range producers {
		g.Go(func() error {
			for i := w; i < half; i += producers {
				if err := gctx.Err(); err != nil {
					return err
				}
				if err := p.Dispatch(func() { total.Add(int64(i)) }); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err := g.Wait()
	p.Close()
	if err != nil {
		return "", err
	}

	want := int64(n) * int64(n-1) / 2
	if got := total.Load(); got != want {
		return "", fmt.Errorf("sum mismatch: got %d, want %d", got, want)
	}
	return fmt.Sprintf("%d tasks summed to %d", n, want), nil
}

// serial has every producer dispatch one ordered batch and checks that each
// batch ran in submission order.
func (r *Runner) serial(ctx context.Context, p *taskpool.TaskPool) (string, error) {
	size := r.cfg.BatchSize
	orders := make([][]int, r.cfg.Producers)

	g, _ := errgroup.WithContext(ctx)
	for w := range orders {
		orders[w] = make([]int, 0, size)
		g.Go(func() error {
			batch := make([]taskpool.Task, size)
			for i := range batch {
				batch[i] = func() { orders[w] = append(orders[w], i) }
			}
			return p.DispatchSerial(batch)
		})
	}
	err := g.Wait()
	p.Close()
	if err != nil {
		return "", err
	}

	for w, got := range orders {
		if len(got) != size {
			return "", fmt.Errorf("batch %d ran %d of %d tasks", w, len(got), size)
		}
		for i, v := range got {
			if v != i {
				return "", fmt.Errorf("batch %d out of order at position %d: got %d", w, i, v)
			}
		}
	}
	return fmt.Sprintf("%d batches of %d ran in order", len(orders), size), nil
}

// sync checks that SubmitSync returns results in input order and that
// DispatchSync returns only after its whole batch ran.
func (r *Runner) sync(ctx context.Context, p *taskpool.TaskPool) (string, error) {
	n := r.cfg.Tasks

	tasks := make([]taskpool.ValueTask[int], n)
	for i := range tasks {
		tasks[i] = func() (int, error) { return i, nil }
	}
	var results []int
	err := r.block(ctx, func() error {
		var err error
		results, err = taskpool.SubmitSync(p, tasks)
		return err
	})
	if err != nil {
		return "", err
	}
	for i, v := range results {
		if v != i {
			return "", fmt.Errorf("result %d out of order: got %d", i, v)
		}
	}

	var count atomic.Int64
	void := make([]taskpool.Task, n)
	for i := range void {
		void[i] = func() { count.Add(1) }
	}
	if err := r.block(ctx, func() error { return p.DispatchSync(void) }); err != nil {
		return "", err
	}
	if got := count.Load(); got != int64(n) {
		return "", fmt.Errorf("dispatch sync returned after %d of %d tasks", got, n)
	}

	return fmt.Sprintf("%d ordered results, %d tasks awaited", len(results), n), nil
}

// once races several callers on one gate and checks the task ran once and
// that every caller observed it.
func (r *Runner) once(ctx context.Context, p *taskpool.TaskPool) (string, error) {
	gate := taskpool.NewOnceGate()
	var runs atomic.Int64
	task := func() { runs.Add(1) }

	g, _ := errgroup.WithContext(ctx)
	for range r.cfg.OnceCallers {
		g.Go(func() error {
			if err := p.DispatchOnce(gate, task); err != nil {
				return err
			}
			if runs.Load() != 1 {
				return errors.New("caller returned before the task ran")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	if got := runs.Load(); got != 1 {
		return "", fmt.Errorf("task ran %d times", got)
	}
	return fmt.Sprintf("%d callers, one run", r.cfg.OnceCallers), nil
}

// futures submits tasks that succeed on even input and fail on odd input and
// routes every outcome through OnComplete.
func (r *Runner) futures(ctx context.Context, p *taskpool.TaskPool) (string, error) {
	n := r.cfg.Tasks
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		values   []int
		failures atomic.Int64
	)

	for i := range n {
		f, err := taskpool.Submit(p, func() (int, error) {
			if i%2 == 1 {
				return 0, errOdd
			}
			return i, nil
		})
		if err != nil {
			return "", err
		}

		wg.Add(1)
		err = taskpool.OnComplete(p, f,
			func(v int) {
				defer wg.Done()
				mu.Lock()
				values = append(values, v)
				mu.Unlock()
			},
			func(err error) {
				defer wg.Done()
				if errors.Is(err, errOdd) {
					failures.Add(1)
				}
			},
		)
		if err != nil {
			wg.Done()
			return "", err
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	if err := r.await(ctx, done); err != nil {
		return "", err
	}

	mu.Lock()
	defer mu.Unlock()
	slices.Sort(values)
	wantOK := (n + 1) / 2
	if len(values) != wantOK || int(failures.Load()) != n-wantOK {
		return "", fmt.Errorf("got %d values and %d failures, want %d and %d", len(values), failures.Load(), wantOK, n-wantOK)
	}
	for i, v := range values {
		if v != 2*i {
			return "", fmt.Errorf("unexpected value %d", v)
		}
	}
	return fmt.Sprintf("%d values, %d failures", len(values), failures.Load()), nil
}
