package worker

import (
	"testing"

	"go.uber.org/atomic"
)

func TestGroupWaitsForJobs(t *testing.T) {
	var (
		g     Group
		count atomic.Int64
	)
	for range 100 {
		g.Go(func() { count.Inc() })
	}
	g.Wait()
	if count.Load() != 100 {
		t.Fatalf("expected 100 jobs to run, got %d", count.Load())
	}
}

func TestPanicKeepsPoolAlive(t *testing.T) {
	var g Group
	for range Size() * 2 {
		g.Go(func() { panic("job failure") })
	}
	g.Wait()

	var ran atomic.Bool
	g.Go(func() { ran.Store(true) })
	g.Wait()
	if !ran.Load() {
		t.Fatalf("expected the pool to keep running jobs after a panic")
	}
}
