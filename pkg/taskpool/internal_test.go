package taskpool

import (
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/kubev2v/taskpool/pkg/queue"
)

var _ = Describe("gate", func() {
	It("should make closeAndWait wait for admitted entrants", func() {
		var g gate
		Expect(g.enter()).To(BeTrue())

		closed := make(chan struct{})
		go func() {
			g.closeAndWait()
			close(closed)
		}()

		Eventually(g.isClosed, time.Second).Should(BeTrue())
		Expect(g.enter()).To(BeFalse())
		Consistently(closed, 100*time.Millisecond).ShouldNot(BeClosed())

		g.exit()
		Eventually(closed, time.Second).Should(BeClosed())
	})
})

var _ = Describe("barrier", func() {
	It("should release waiters when the count reaches zero", func() {
		b := newBarrier(3)
		released := make(chan struct{})
		go func() {
			b.wait()
			close(released)
		}()

		b.done()
		b.done()
		Consistently(released, 100*time.Millisecond).ShouldNot(BeClosed())
		b.done()
		Eventually(released, time.Second).Should(BeClosed())
	})
})

var _ = Describe("promise", func() {
	It("should ignore every settle after the first", func() {
		pr := newPromise[int]()
		pr.setValue(1)
		pr.setValue(2)
		pr.setError(ErrPoolClosed)

		v, err := pr.future().Get()
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(1))
	})
})

var _ = Describe("worker", func() {
	It("should hand back a sentinel picked up while draining", func() {
		p := New(WithWorkers(2), WithDrainBackoff(time.Microsecond, time.Millisecond))

		unblock := make(chan struct{})
		started := make(chan struct{})
		Expect(p.Dispatch(func() {
			close(started)
			<-unblock
		})).To(Succeed())
		Eventually(started, time.Second).Should(BeClosed())

		closed := make(chan struct{})
		go func() {
			p.Close()
			close(closed)
		}()

		// the free worker drains and keeps meeting the busy worker's sentinel
		Consistently(closed, 200*time.Millisecond).ShouldNot(BeClosed())
		Expect(p.idle.Load()).To(BeNumerically("<=", 1))

		close(unblock)
		Eventually(closed, 2*time.Second).Should(BeClosed())
		Expect(p.idle.Load()).To(Equal(int64(2)))
	})

	It("should withdraw its idle vote when it finds work", func() {
		p := &TaskPool{workers: 2, tasks: queue.New[Task](), log: zap.NewNop().Sugar()}
		p.metrics = newMetrics(p)
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = time.Microsecond
		b.MaxInterval = time.Millisecond
		b.Reset()
		w := &worker{pool: p, state: stateDraining, voted: true, backoff: b, log: p.log}
		p.idle.Store(1)

		var ran atomic.Bool
		p.tasks.Put(func() { ran.Store(true) })

		Expect(w.drain()).To(Equal(stateDraining))
		Expect(ran.Load()).To(BeTrue())
		Expect(w.voted).To(BeFalse())
		Expect(p.idle.Load()).To(BeZero())

		Expect(w.drain()).To(Equal(stateDraining))
		Expect(w.voted).To(BeTrue())
		Expect(p.idle.Load()).To(Equal(int64(1)))

		p.idle.Add(1)
		Expect(w.drain()).To(Equal(stateStopped))
	})

	It("should keep pausing within the drain bounds", func() {
		p := New(WithWorkers(0), WithDrainBackoff(time.Microsecond, 20*time.Microsecond))
		defer p.Close()
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = p.drainInitial
		b.MaxInterval = p.drainMax
		b.Reset()
		w := &worker{pool: p, state: stateDraining, backoff: b, log: p.log}

		start := time.Now()
		for range 200 {
			w.pause()
		}
		Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		for range 50 {
			d := b.NextBackOff()
			Expect(d).NotTo(Equal(backoff.Stop))
			Expect(d).To(BeNumerically("<=", 2*p.drainMax))
		}
	})

	It("should name its states", func() {
		Expect(stateRunning.String()).To(Equal("running"))
		Expect(stateDraining.String()).To(Equal("draining"))
		Expect(stateStopped.String()).To(Equal("stopped"))
	})
})
