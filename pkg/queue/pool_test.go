package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsEveryTask(t *testing.T) {
	p := NewPool(Config{Workers: 4})

	var done int64
	tasks := make([]Task, 20)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) { atomic.AddInt64(&done, 1) }
	}

	p.Run(context.Background(), tasks)

	if done != 20 {
		t.Fatalf("ran %d tasks, want 20", done)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	const workers = 3
	p := NewPool(Config{Workers: workers})

	var mu sync.Mutex
	var running, peak int

	tasks := make([]Task, 12)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}
	}

	p.Run(context.Background(), tasks)

	if peak > workers {
		t.Fatalf("peak concurrency %d exceeded %d workers", peak, workers)
	}
}

func TestPoolStopsOnCancel(t *testing.T) {
	p := NewPool(Config{Workers: 1})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var done int64
	tasks := make([]Task, 50)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) {
			atomic.AddInt64(&done, 1)
			cancel()
		}
	}

	p.Run(ctx, tasks)

	if done == 50 {
		t.Fatal("cancellation should skip remaining tasks")
	}
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := NewPool(Config{})
	ran := false
	p.Run(context.Background(), []Task{func(ctx context.Context) { ran = true }})
	if !ran {
		t.Fatal("task did not run")
	}
}
