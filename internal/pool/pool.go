// Package pool provides a fixed-size goroutine pool for background work.
package pool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when submitting to a closed pool.
var ErrClosed = errors.New("pool closed")

// WorkerPool manages a fixed pool of goroutines fed by a bounded queue.
type WorkerPool struct {
	numWorkers int
	workCh     chan func() // Channel carries work closures
	stopCh     chan struct{}
	wg         sync.WaitGroup
	closed     atomic.Bool // Tracks if pool is closed
	submitMu   sync.RWMutex
}

// New creates a worker pool with numWorkers goroutines and room for
// queueSize pending tasks.
//
// numWorkers <= 0 defaults to GOMAXPROCS; queueSize < 0 defaults to 2x workers.
func New(numWorkers, queueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if queueSize < 0 {
		queueSize = numWorkers * 2
	}

	wp := &WorkerPool{
		numWorkers: numWorkers,
		workCh:     make(chan func(), queueSize),
		stopCh:     make(chan struct{}),
	}

	wp.wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go wp.worker()
	}

	return wp
}

// worker processes work closures from the work channel.
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case <-wp.stopCh:
			// Drain remaining work before exiting
			for {
				select {
				case workFunc, ok := <-wp.workCh:
					if !ok {
						return
					}
					workFunc()
				default:
					return
				}
			}
		case workFunc, ok := <-wp.workCh:
			if !ok {
				return
			}
			workFunc()
		}
	}
}

// TrySubmit enqueues a task without blocking.
// It reports false if the pool is closed or the queue is full.
func (wp *WorkerPool) TrySubmit(task func()) bool {
	wp.submitMu.RLock()
	defer wp.submitMu.RUnlock()

	if wp.closed.Load() {
		return false
	}

	select {
	case wp.workCh <- task:
		return true
	default:
		return false
	}
}

// Workers returns the number of worker goroutines.
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// Close stops accepting work, runs what is already queued and waits for
// the workers to exit. It is idempotent.
func (wp *WorkerPool) Close() {
	if !wp.closed.CompareAndSwap(false, true) {
		return
	}

	wp.submitMu.Lock()
	close(wp.stopCh)
	close(wp.workCh)
	wp.submitMu.Unlock()

	wp.wg.Wait()
}
