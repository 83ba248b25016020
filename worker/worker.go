package worker

import (
	"runtime"
	"sync"

	"github.com/getsentry/sentry-go"
)

var workerQueue = make(chan func(), runtime.NumCPU())

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go worker()
	}
}

func worker() {
	for {
		f, ok := <-workerQueue
		if !ok {
			return
		}
		run(f)
	}
}

// run executes a job, reporting a panic to sentry without taking the worker down with it.
func run(f func()) {
	defer sentry.Recover()
	f()
}

// Submit queues f on the worker pool. To be used by a function that may be CPU intensive.
func Submit(f func()) {
	workerQueue <- f
}

// Size returns the amount of workers in the pool.
func Size() int {
	return runtime.NumCPU()
}

// Group is a batch of jobs submitted to the pool that can be waited on. Jobs must not submit to the
// same group from within the pool.
type Group struct {
	wg sync.WaitGroup
}

// Go submits f as part of the group.
func (g *Group) Go(f func()) {
	g.wg.Add(1)
	Submit(func() {
		defer g.wg.Done()
		f()
	})
}

// Wait blocks until every job of the group has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}
