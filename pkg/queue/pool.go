package queue

import (
	"context"
	"sync"
)

// Task is one unit of work submitted to the pool.
type Task func(ctx context.Context)

// Config contains the configuration for the worker pool
type Config struct {
	Workers int // number of concurrent workers
}

// Pool runs batches of tasks with bounded concurrency. It holds no
// background goroutines between runs; workers are spawned per Run call
// and torn down when the batch drains.
type Pool struct {
	workers int
}

func NewPool(cfg Config) *Pool {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes tasks with at most the configured number of workers and
// blocks until every started task returns. Tasks not yet started when
// ctx is cancelled are skipped.
func (p *Pool) Run(ctx context.Context, tasks []Task) {
	if len(tasks) == 0 {
		return
	}

	workers := p.workers
	if workers > len(tasks) {
		workers = len(tasks)
	}

	jobs := make(chan Task)
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for task := range jobs {
				if ctx.Err() != nil {
					continue
				}
				task(ctx)
			}
		}()
	}

	for _, task := range tasks {
		select {
		case jobs <- task:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()
}
