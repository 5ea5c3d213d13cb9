package renderer

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Row    int        // Image row, 0 = top
	Random *rand.Rand // Generator owned by this task only
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Row     int
	Samples int
	Worker  int
}

// RowFunc renders one task. It runs concurrently on distinct tasks.
type RowFunc func(task RowTask) (RowResult, error)

// WorkerPool runs row tasks on a fixed number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// WorkersFor returns how many workers a run over numTasks tasks starts.
// There are never more workers than tasks.
func (wp *WorkerPool) WorkersFor(numTasks int) int {
	return max(min(wp.numWorkers, numTasks), 0)
}

// NewRowTasks creates one task per row, each with its own generator derived
// from seed and the row index so results do not depend on scheduling
func NewRowTasks(height int, seed int64) []RowTask {
	tasks := make([]RowTask, height)
	for row := range tasks {
		tasks[row] = RowTask{
			Row:    row,
			Random: rand.New(rand.NewSource(rowSeed(seed, row))),
		}
	}
	return tasks
}

func rowSeed(seed int64, row int) int64 {
	return seed*1_000_003 + int64(row)*7919 + 1
}

// Run executes every task and blocks until all are done or one fails.
// onResult is called from a single goroutine, in completion order.
// The first error or worker panic cancels the remaining tasks and is returned.
func (wp *WorkerPool) Run(ctx context.Context, tasks []RowTask, work RowFunc, onResult func(RowResult)) error {
	g, gctx := errgroup.WithContext(ctx)

	taskQueue := make(chan RowTask)
	resultQueue := make(chan RowResult, len(tasks))

	g.Go(func() error {
		defer close(taskQueue)
		for _, task := range tasks {
			select {
			case taskQueue <- task:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for id := 0; id < wp.WorkersFor(len(tasks)); id++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for task := range taskQueue {
				if err := gctx.Err(); err != nil {
					return err
				}
				result, err := runTask(id, task, work)
				if err != nil {
					return err
				}
				resultQueue <- result
			}
			return nil
		})
	}

	go func() {
		workers.Wait()
		close(resultQueue)
	}()

	for result := range resultQueue {
		if onResult != nil {
			onResult(result)
		}
	}

	return g.Wait()
}

// runTask renders a task, converting a panic into an error
func runTask(worker int, task RowTask, work RowFunc) (result RowResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d panicked rendering row %d: %v", worker, task.Row, r)
		}
	}()

	result, err = work(task)
	if err != nil {
		return RowResult{}, fmt.Errorf("row %d: %w", task.Row, err)
	}
	result.Row = task.Row
	result.Worker = worker
	return result, nil
}
