package core

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool runs jobs on a fixed set of goroutines.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan func()
	wg         sync.WaitGroup
	quit       chan struct{}
	stopOnce   sync.Once
	completed  SafeCounter
}

// NewWorkerPool creates a pool. numWorkers <= 0 means one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan func(), numWorkers*2),
		quit:       make(chan struct{}),
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	for {
		select {
		case job := <-wp.jobQueue:
			job()
			wp.completed.Increment()
			wp.wg.Done()
		case <-wp.quit:
			return
		}
	}
}

// Submit queues a job. It blocks while the queue is full.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.jobQueue <- job
}

// Wait blocks until every submitted job has finished.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// Stop shuts the workers down. Jobs still queued are dropped.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() { close(wp.quit) })
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// CompletedJobs returns the number of jobs run since the pool started.
func (wp *WorkerPool) CompletedJobs() int64 {
	return wp.completed.Get()
}

// ParallelRange splits [0, n) into contiguous chunks of at least minChunk
// items and runs fn on each chunk. It returns when all chunks are done.
// Small ranges run inline on the caller's goroutine.
func (wp *WorkerPool) ParallelRange(ctx context.Context, n, minChunk int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	chunk := max(minChunk, (n+wp.numWorkers-1)/wp.numWorkers, 1)
	if chunk >= n {
		fn(0, n)
		return
	}

	var done sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		done.Add(1)
		wp.Submit(func() {
			defer done.Done()
			if ctx.Err() != nil {
				return
			}
			fn(lo, hi)
		})
	}
	done.Wait()
}

// SafeCounter is a lock-free counter.
type SafeCounter struct {
	value atomic.Int64
}

// Increment adds one and returns the new value.
func (c *SafeCounter) Increment() int64 {
	return c.value.Add(1)
}

// Add adds delta and returns the new value.
func (c *SafeCounter) Add(delta int64) int64 {
	return c.value.Add(delta)
}

// Get returns the current value.
func (c *SafeCounter) Get() int64 {
	return c.value.Load()
}

// Set replaces the value.
func (c *SafeCounter) Set(value int64) {
	c.value.Store(value)
}
