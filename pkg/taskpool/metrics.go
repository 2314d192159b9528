package taskpool

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const metricsNamespace = "taskpool"

// Variant labels of taskpool_tasks_dispatched_total.
const (
	variantDispatch   = "dispatch"
	variantBatch      = "batch"
	variantSerial     = "serial"
	variantSync       = "sync"
	variantOnce       = "once"
	variantSubmit     = "submit"
	variantCombinator = "combinator"
)

type metrics struct {
	dispatched *prometheus.CounterVec
	executed   prometheus.Counter
	panics     prometheus.Counter
	workers    prometheus.Gauge
	queueDepth prometheus.GaugeFunc
}

func newMetrics(p *TaskPool) *metrics {
	labels := prometheus.Labels{"pool_id": p.id}
	return &metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "tasks_dispatched_total",
			Help:        "Number of tasks accepted by the pool, by dispatch variant.",
			ConstLabels: labels,
		}, []string{"variant"}),
		executed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "tasks_executed_total",
			Help:        "Number of tasks run by the workers.",
			ConstLabels: labels,
		}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "task_panics_total",
			Help:        "Number of panics recovered from void tasks.",
			ConstLabels: labels,
		}),
		workers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "workers",
			Help:        "Number of live workers.",
			ConstLabels: labels,
		}),
		queueDepth: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "queue_depth",
			Help:        "Number of tasks waiting in the queue.",
			ConstLabels: labels,
		}, func() float64 { return float64(p.tasks.Len()) }),
	}
}

func (m *metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{m.dispatched, m.executed, m.panics, m.workers, m.queueDepth}
}

func (m *metrics) register(reg prometheus.Registerer, log *zap.SugaredLogger) {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			log.Warnw("failed to register collector", "error", err)
		}
	}
}

// unregister drops the pool series from reg once the pool is closed.
func (m *metrics) unregister(reg prometheus.Registerer) {
	for _, c := range m.collectors() {
		reg.Unregister(c)
	}
}
