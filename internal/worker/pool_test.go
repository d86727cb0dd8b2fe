package worker_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/lexilearn/backend/internal/worker"
)

func TestPool_RunsAllJobs(t *testing.T) {
	p := worker.NewPool[int](3, 10)

	done := make(chan []worker.Result[int])
	go func() {
		var results []worker.Result[int]
		for r := range p.Results() {
			results = append(results, r)
		}
		done <- results
	}()

	for i := 1; i <= 10; i++ {
		n := i
		p.Submit(fmt.Sprintf("job-%d", n), func() int { return n * n })
	}
	p.Close()

	results := <-done
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Output < results[j].Output })
	if results[0].JobID != "job-1" || results[9].Output != 100 {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestPool_CloseTwice(t *testing.T) {
	p := worker.NewPool[error](0, 1)
	p.Close()
	p.Close()

	if _, ok := <-p.Results(); ok {
		t.Error("expected results channel to be closed")
	}
}
