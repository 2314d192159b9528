package taskpool_test

import (
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/taskpool/pkg/taskpool"
)

// recorder collects the order in which the tasks of one batch ran.
type recorder struct {
	mu  sync.Mutex
	got []int
}

func (r *recorder) add(i int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, i)
}

func (r *recorder) snapshot() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.got))
	copy(out, r.got)
	return out
}

func sequence(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

var _ = Describe("DispatchSerial", func() {
	const batchSize = 1000

	var p *taskpool.TaskPool

	BeforeEach(func() {
		p = taskpool.New(taskpool.WithWorkers(8))
	})

	AfterEach(func() {
		if p != nil {
			p.Close()
		}
	})

	// Given four ordered batches submitted from two goroutines each
	// When they are passed to DispatchSerial on a shared pool
	// Then every batch runs in its submission order
	It("should keep the order of each batch under concurrent producers", func() {
		recorders := make([]*recorder, 4)
		batches := make([][]taskpool.Task, 4)
		for b := range batches {
			recorders[b] = &recorder{}
			batches[b] = make([]taskpool.Task, batchSize)
			for i := range batchSize {
				batches[b][i] = func() { recorders[b].add(i) }
			}
		}

		var wg sync.WaitGroup
		for _, b := range []int{0, 2} {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(p.DispatchSerial(batches[b])).To(Succeed())
			}()
		}
		Expect(p.DispatchSerial(batches[1])).To(Succeed())
		Expect(p.DispatchSerial(batches[3])).To(Succeed())
		wg.Wait()

		p.Close()
		p = nil

		for _, r := range recorders {
			Expect(r.snapshot()).To(Equal(sequence(batchSize)))
		}
	})

	It("should copy the batch so the caller may reuse its slice", func() {
		r := &recorder{}
		release := make(chan struct{})
		tasks := []taskpool.Task{
			func() { <-release; r.add(0) },
			func() { r.add(1) },
		}
		Expect(p.DispatchSerial(tasks)).To(Succeed())
		tasks[1] = func() { r.add(99) }
		close(release)

		Eventually(r.snapshot, time.Second).Should(Equal([]int{0, 1}))
	})

	It("should go on with the batch after a panicking entry", func() {
		r := &recorder{}
		tasks := []taskpool.Task{
			func() { r.add(0) },
			func() { panic("boom") },
			func() { r.add(2) },
		}
		Expect(p.DispatchSerial(tasks)).To(Succeed())

		Eventually(r.snapshot, time.Second).Should(Equal([]int{0, 2}))
	})

	It("should be a no-op for an empty batch", func() {
		Expect(p.DispatchSerial(nil)).To(Succeed())
	})

	It("should reject a batch containing a nil task", func() {
		err := p.DispatchSerial([]taskpool.Task{func() {}, func() {}, nil})
		idx, ok := taskpool.GetTaskIndex(err)
		Expect(ok).To(BeTrue())
		Expect(idx).To(Equal(2))
	})

	Describe("SubmitSerial", func() {
		It("should keep the order and settle every future with its value", func() {
			recorders := make([]*recorder, 4)
			batches := make([][]taskpool.ValueTask[int], 4)
			for b := range batches {
				recorders[b] = &recorder{}
				batches[b] = make([]taskpool.ValueTask[int], batchSize)
				for i := range batchSize {
					batches[b][i] = func() (int, error) {
						recorders[b].add(i)
						return i, nil
					}
				}
			}

			futures := make([][]*taskpool.Future[int], 4)
			var wg sync.WaitGroup
			for _, b := range []int{0, 2} {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					f, err := taskpool.SubmitSerial(p, batches[b])
					Expect(err).NotTo(HaveOccurred())
					futures[b] = f
				}()
			}
			for _, b := range []int{1, 3} {
				f, err := taskpool.SubmitSerial(p, batches[b])
				Expect(err).NotTo(HaveOccurred())
				futures[b] = f
			}
			wg.Wait()

			p.Close()
			p = nil

			for b := range batches {
				Expect(recorders[b].snapshot()).To(Equal(sequence(batchSize)))
				Expect(futures[b]).To(HaveLen(batchSize))
				for i, f := range futures[b] {
					v, err := f.Get()
					Expect(err).NotTo(HaveOccurred())
					Expect(v).To(Equal(i))
				}
			}
		})

		It("should settle earlier futures before later tasks run", func() {
			release := make(chan struct{})
			futures, err := taskpool.SubmitSerial(p, []taskpool.ValueTask[string]{
				func() (string, error) { return "first", nil },
				func() (string, error) { <-release; return "second", nil },
			})
			Expect(err).NotTo(HaveOccurred())

			Eventually(futures[0].Done(), time.Second).Should(BeClosed())
			Consistently(futures[1].Done(), 100*time.Millisecond).ShouldNot(BeClosed())
			close(release)
			Eventually(futures[1].Done(), time.Second).Should(BeClosed())
		})

		It("should isolate a failing task from the rest of the batch", func() {
			boom := errors.New("boom")
			futures, err := taskpool.SubmitSerial(p, []taskpool.ValueTask[int]{
				func() (int, error) { return 1, nil },
				func() (int, error) { return 0, boom },
				func() (int, error) { panic("kaboom") },
				func() (int, error) { return 4, nil },
			})
			Expect(err).NotTo(HaveOccurred())

			v, err := futures[0].Get()
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(1))
			_, err = futures[1].Get()
			Expect(err).To(MatchError(boom))
			_, err = futures[2].Get()
			Expect(taskpool.IsPanicError(err)).To(BeTrue())
			v, err = futures[3].Get()
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(4))
		})

		It("should return an empty slice for an empty batch", func() {
			futures, err := taskpool.SubmitSerial[int](p, []taskpool.ValueTask[int]{})
			Expect(err).NotTo(HaveOccurred())
			Expect(futures).To(BeEmpty())
		})
	})
})
