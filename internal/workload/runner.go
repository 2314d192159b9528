package workload

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/internal/config"
	"github.com/kubev2v/taskpool/pkg/taskpool"
)

var (
	ErrNoWorkers       = errors.New("workload needs at least one worker")
	ErrTimeout         = errors.New("timed out waiting for tasks")
	ErrUnknownWorkload = errors.New("unknown workload")
)

// PoolFactory builds a fresh pool for each workload.
type PoolFactory func() *taskpool.TaskPool

type workloadFunc func(ctx context.Context, p *taskpool.TaskPool) (string, error)

type Result struct {
	Name     string
	Detail   string
	Err      error
	Duration time.Duration
}

func (r Result) Passed() bool {
	return r.Err == nil
}

type Report struct {
	RunID   string
	Results []Result
}

func (r Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

type Runner struct {
	cfg       config.Workload
	newPool   PoolFactory
	workloads map[string]workloadFunc
	log       *zap.SugaredLogger
}

func NewRunner(cfg config.Workload, newPool PoolFactory) *Runner {
	r := &Runner{
		cfg:     cfg,
		newPool: newPool,
		log:     zap.S().Named("workload"),
	}
	r.workloads = map[string]workloadFunc{
		config.WorkloadSum:     r.sum,
		config.WorkloadSerial:  r.serial,
		config.WorkloadSync:    r.sync,
		config.WorkloadOnce:    r.once,
		config.WorkloadFutures: r.futures,
	}
	return r
}

// Run executes the configured workloads in order, each on its own pool.
func (r *Runner) Run(ctx context.Context) Report {
	report := Report{RunID: uuid.NewString()}
	log := r.log.With("run_id", report.RunID)

	for _, name := range r.cfg.Names {
		if ctx.Err() != nil {
			report.Results = append(report.Results, Result{Name: name, Err: ctx.Err()})
			continue
		}

		log.Debugw("workload started", "name", name)
		res := r.runOne(ctx, name)
		if res.Passed() {
			log.Infow("workload passed", "name", name, "duration", res.Duration, "detail", res.Detail)
		} else {
			log.Errorw("workload failed", "name", name, "duration", res.Duration, "error", res.Err)
		}
		report.Results = append(report.Results, res)
	}

	return report
}

func (r *Runner) runOne(ctx context.Context, name string) Result {
	res := Result{Name: name}

	fn, ok := r.workloads[name]
	if !ok {
		res.Err = fmt.Errorf("%w: %q", ErrUnknownWorkload, name)
		return res
	}

	p := r.newPool()
	defer p.Close()

	if p.Workers() == 0 {
		res.Err = ErrNoWorkers
		return res
	}

	start := time.Now()
	res.Detail, res.Err = fn(ctx, p)
	res.Duration = time.Since(start)
	return res
}

// await waits for done, the configured timeout or ctx, whichever is first.
func (r *Runner) await(ctx context.Context, done <-chan struct{}) error {
	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// block runs a blocking pool call and waits for it through await. When ctx
// or the timeout wins, fn keeps running and the pool Close in runOne waits
// for it.
func (r *Runner) block(ctx context.Context, fn func() error) error {
	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		err = fn()
	}()
	if werr := r.await(ctx, done); werr != nil {
		return werr
	}
	return err
}
