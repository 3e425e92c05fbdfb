// Package parallel runs palette and conversion work across a bounded set
// of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc schedules one task on the pool.
	WorkerFunc func(func())
	// WaitFunc blocks until queued tasks finish. Passing done also stops
	// the workers, after which Do must not be called again.
	WaitFunc func(done bool)
	// CancelFunc stops the workers without waiting for them.
	CancelFunc func()
)

// Pool fans tasks out to worker goroutines. With a single worker it
// degenerates to running tasks inline, which keeps callers oblivious to
// the -workers setting.
type Pool struct {
	wg     sync.WaitGroup
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers workers; values below 1 mean one worker per
// available CPU.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Do:     func(f func()) { f() },
		Wait:   func(bool) {},
		Cancel: func() {},
	}
	if numWorkers == 1 {
		return pool
	}

	tasks := make(chan func(), numWorkers)
	for range numWorkers {
		pool.wg.Go(func() {
			for f := range tasks {
				f()
			}
		})
	}

	pool.Do = func(f func()) { tasks <- f }
	pool.Cancel = sync.OnceFunc(func() { close(tasks) })
	pool.Wait = func(done bool) {
		if done {
			pool.Cancel()
		}
		pool.wg.Wait()
	}

	return pool
}
