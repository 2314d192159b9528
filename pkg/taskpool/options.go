package taskpool

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	defaultDrainInitialInterval = 50 * time.Microsecond
	defaultDrainMaxInterval     = 5 * time.Millisecond
)

type Option func(*TaskPool)

// WithWorkers sets the number of workers. Zero is accepted and yields a pool
// that never runs anything; negative values keep the default (runtime.NumCPU).
func WithWorkers(n int) Option {
	return func(p *TaskPool) {
		if n < 0 {
			return
		}
		p.workers = n
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *TaskPool) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMetrics registers the pool collectors with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(p *TaskPool) {
		p.registerer = reg
	}
}

// WithDrainBackoff bounds the pause between two empty polls of a draining
// worker.
func WithDrainBackoff(initial, max time.Duration) Option {
	return func(p *TaskPool) {
		if initial > 0 {
			p.drainInitial = initial
		}
		if max >= p.drainInitial {
			p.drainMax = max
		}
	}
}
