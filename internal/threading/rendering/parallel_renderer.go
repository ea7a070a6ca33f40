package rendering

import (
	"context"

	"doomcore/internal/threading/core"
)

// minColumnBand is the narrowest strip of screen columns handed to one
// worker.
const minColumnBand = 16

// minItemBatch is the smallest run of items handed to one worker by
// ForEachBatch.
const minItemBatch = 32

// ParallelRenderer splits per-column work across the worker pool. Bands
// never overlap, so column writes need no locking.
type ParallelRenderer struct {
	workerPool *core.WorkerPool
	ownsPool   bool
}

// NewParallelRenderer creates a renderer with its own pool.
func NewParallelRenderer(workers int) *ParallelRenderer {
	pool := core.NewWorkerPool(workers)
	pool.Start()
	pr := NewParallelRendererWithPool(pool)
	pr.ownsPool = true
	return pr
}

// NewParallelRendererWithPool creates a renderer on a shared pool.
func NewParallelRendererWithPool(pool *core.WorkerPool) *ParallelRenderer {
	return &ParallelRenderer{workerPool: pool}
}

// RenderColumns calls fn for contiguous bands covering [0, width).
func (pr *ParallelRenderer) RenderColumns(width int, fn func(x0, x1 int)) {
	pr.workerPool.ParallelRange(context.Background(), width, minColumnBand, fn)
}

// ForEachBatch calls fn for contiguous batches covering [0, n). Inputs
// smaller than one batch run on the caller's goroutine.
func (pr *ParallelRenderer) ForEachBatch(n int, fn func(lo, hi int)) {
	if n <= minItemBatch {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	pr.workerPool.ParallelRange(context.Background(), n, minItemBatch, fn)
}

// Workers returns the size of the underlying pool.
func (pr *ParallelRenderer) Workers() int {
	return pr.workerPool.GetNumWorkers()
}

// Stop shuts down the pool if the renderer created it.
func (pr *ParallelRenderer) Stop() {
	if pr.ownsPool {
		pr.workerPool.Stop()
	}
}

// CompletedJobs returns the number of column bands the pool has run.
func (pr *ParallelRenderer) CompletedJobs() int64 {
	return pr.workerPool.CompletedJobs()
}
