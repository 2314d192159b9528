package taskpool_test

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/taskpool/pkg/taskpool"
)

var _ = Describe("Dispatch", func() {
	var p *taskpool.TaskPool

	BeforeEach(func() {
		p = taskpool.New(taskpool.WithWorkers(8))
	})

	AfterEach(func() {
		p.Close()
	})

	Context("Dispatch", func() {
		It("should run a fire-and-forget task", func() {
			done := make(chan struct{})
			Expect(p.Dispatch(func() { close(done) })).To(Succeed())
			Eventually(done, time.Second).Should(BeClosed())
		})

		It("should reject a nil task", func() {
			err := p.Dispatch(nil)
			Expect(taskpool.IsInvalidTaskError(err)).To(BeTrue())
		})
	})

	Context("DispatchBatch", func() {
		It("should be a no-op for an empty slice", func() {
			Expect(p.DispatchBatch(nil)).To(Succeed())
			Expect(p.DispatchBatch([]taskpool.Task{})).To(Succeed())
		})

		It("should run every task of the batch", func() {
			var x atomic.Int64
			tasks := make([]taskpool.Task, 1000)
			for i := range tasks {
				tasks[i] = func() { x.Add(int64(i + 2000)) }
			}
			Expect(p.DispatchBatch(tasks)).To(Succeed())

			Eventually(x.Load, 2*time.Second).Should(Equal(int64(2499500)))
		})

		It("should fail the whole batch on a single nil entry", func() {
			var ran atomic.Int64
			tasks := []taskpool.Task{
				func() { ran.Add(1) },
				nil,
				func() { ran.Add(1) },
			}

			err := p.DispatchBatch(tasks)
			Expect(taskpool.IsInvalidTaskError(err)).To(BeTrue())
			idx, ok := taskpool.GetTaskIndex(err)
			Expect(ok).To(BeTrue())
			Expect(idx).To(Equal(1))

			Consistently(ran.Load, 100*time.Millisecond).Should(BeZero())
		})
	})

	Context("Submit", func() {
		It("should settle the future with the returned value", func() {
			f, err := taskpool.Submit(p, func() (string, error) { return "done", nil })
			Expect(err).NotTo(HaveOccurred())

			Eventually(f.Done(), time.Second).Should(BeClosed())
			v, err := f.Get()
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal("done"))
		})

		It("should deliver the returned error unchanged", func() {
			boom := errors.New("world")
			f, err := taskpool.Submit(p, func() (string, error) { return "", boom })
			Expect(err).NotTo(HaveOccurred())

			res := f.Result()
			Expect(res.Err).To(MatchError(boom))
			Expect(res.Data).To(BeEmpty())
		})

		It("should capture a panic as a PanicError", func() {
			f, err := taskpool.Submit(p, func() (int, error) { panic("kaboom") })
			Expect(err).NotTo(HaveOccurred())

			_, err = f.Get()
			Expect(taskpool.IsPanicError(err)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("kaboom"))

			var pe *taskpool.PanicError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Stack).NotTo(BeEmpty())
		})

		It("should unwrap a panic raised with an error value", func() {
			boom := errors.New("boom")
			f, err := taskpool.Submit(p, func() (int, error) { panic(boom) })
			Expect(err).NotTo(HaveOccurred())

			_, err = f.Get()
			Expect(errors.Is(err, boom)).To(BeTrue())
		})

		It("should allow many readers of one future", func() {
			release := make(chan struct{})
			f, err := taskpool.Submit(p, func() (int, error) {
				<-release
				return 7, nil
			})
			Expect(err).NotTo(HaveOccurred())

			got := make(chan int, 4)
			for range 4 {
				go func() {
					v, _ := f.Get()
					got <- v
				}()
			}
			close(release)
			for range 4 {
				Eventually(got, time.Second).Should(Receive(Equal(7)))
			}
		})

		It("should reject a nil task", func() {
			f, err := taskpool.Submit[int](p, nil)
			Expect(f).To(BeNil())
			Expect(taskpool.IsInvalidTaskError(err)).To(BeTrue())
		})
	})

	Context("SubmitBatch", func() {
		It("should return an empty slice for an empty batch", func() {
			futures, err := taskpool.SubmitBatch[int](p, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(futures).NotTo(BeNil())
			Expect(futures).To(BeEmpty())
		})

		It("should return futures index-aligned with the tasks", func() {
			tasks := make([]taskpool.ValueTask[int], 1000)
			for i := range tasks {
				if i%100 == 0 {
					tasks[i] = func() (int, error) { return 0, fmt.Errorf("task %d", i) }
					continue
				}
				tasks[i] = func() (int, error) { return i * 2, nil }
			}

			futures, err := taskpool.SubmitBatch(p, tasks)
			Expect(err).NotTo(HaveOccurred())
			Expect(futures).To(HaveLen(1000))

			for i, f := range futures {
				v, err := f.Get()
				if i%100 == 0 {
					Expect(err).To(MatchError(fmt.Sprintf("task %d", i)))
					continue
				}
				Expect(err).NotTo(HaveOccurred())
				Expect(v).To(Equal(i * 2))
			}
		})

		It("should queue nothing when one task is nil", func() {
			var ran atomic.Int64
			tasks := []taskpool.ValueTask[int]{
				func() (int, error) { ran.Add(1); return 1, nil },
				nil,
			}

			futures, err := taskpool.SubmitBatch(p, tasks)
			Expect(futures).To(BeNil())
			Expect(taskpool.IsInvalidTaskError(err)).To(BeTrue())
			Consistently(ran.Load, 100*time.Millisecond).Should(BeZero())
		})
	})
})
