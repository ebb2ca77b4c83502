package renderer

import (
	"context"
	"runtime"
	"sync"

	"github.com/shirou/gopsutil/v3/cpu"

	"github.com/df07/go-motion-pathtracer/pkg/core"
)

// ScanlineTask represents one image row for the worker pool
type ScanlineTask struct {
	Row    int          // Image row, 0 at the top
	Seed   int64        // Seed for this row's sampler
	Pixels []PixelStats // Row of the shared pixel buffer to write to
}

// ScanlineResult contains the result from rendering a scanline
type ScanlineResult struct {
	Row   int
	Stats RenderStats
	Error error
}

// WorkerPool manages parallel scanline rendering
type WorkerPool struct {
	taskQueue   chan ScanlineTask
	resultQueue chan ScanlineResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual scanline rendering tasks
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan ScanlineTask
	resultQueue chan ScanlineResult
}

// DefaultWorkerCount returns the number of logical CPUs
func DefaultWorkerCount() int {
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		return count
	}
	return runtime.NumCPU()
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Both queues hold a full frame of scanlines so submission never blocks.
func NewWorkerPool(raytracer *Raytracer, scanlines int, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan ScanlineTask, scanlines),
		resultQueue: make(chan ScanlineResult, scanlines),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		worker := &Worker{
			ID:          i,
			raytracer:   raytracer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		}
		wp.workers = append(wp.workers, worker)
	}

	return wp
}

// Start begins all workers. Once ctx is done, remaining tasks are drained
// and reported with the context error instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a scanline task to the worker pool
func (wp *WorkerPool) SubmitTask(task ScanlineTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed scanline result
func (wp *WorkerPool) GetResult() (ScanlineResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- ScanlineResult{Row: task.Row, Error: err}
			continue
		}

		// Rows are disjoint, so writing to the shared buffer needs no locking
		sampler := core.NewSeededSampler(task.Seed)
		stats := w.raytracer.RenderScanline(task.Row, task.Pixels, sampler)

		w.resultQueue <- ScanlineResult{
			Row:   task.Row,
			Stats: stats,
		}
	}
}
