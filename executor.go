// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import (
	"sync"

	"github.com/gammazero/deque"
)

// An Executor provides the execution context on which admitted work units
// run. Go must never block the caller: the engine's coordinating goroutine
// dispatches through it and any delay there stalls admission and folding.
//
// The default executor spawns one goroutine per admitted unit, so the
// run's concurrency limit is the only bound. A fixed-size
// [WorkerExecutor] instead makes the worker count an independent resource:
// a small worker set serving a larger admission window queues units behind
// busy workers, which is exactly the contention the elapsed-time reported
// by [Run.Elapsed] makes visible.
type Executor interface {
	Go(f func())
}

// goExecutor runs each unit in its own goroutine.
type goExecutor struct{}

func (goExecutor) Go(f func()) {
	go f()
}

// A WorkerExecutor executes submitted functions on a fixed set of worker
// goroutines. Submissions never block: they queue until a worker is free.
//
// A WorkerExecutor may be shared by any number of concurrent runs. It must
// be closed when no longer needed and must not be closed while a run using
// it is still live.
type WorkerExecutor struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  deque.Deque[func()]
	wg     sync.WaitGroup
	closed bool
}

// NewWorkerExecutor creates a [WorkerExecutor] with the given number of
// worker goroutines. Panics if workers is not positive.
func NewWorkerExecutor(workers int) *WorkerExecutor {
	if workers <= 0 {
		panic("worker count must be positive")
	}
	e := &WorkerExecutor{}
	e.cond = sync.NewCond(&e.mu)
	e.wg.Add(workers)
	for range workers {
		go e.work()
	}
	return e
}

// Go queues f for execution by the next free worker. Panics if the
// executor has been closed.
func (e *WorkerExecutor) Go(f func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		panic("executor is closed")
	}
	e.queue.PushBack(f)
	e.cond.Signal()
}

// Close stops the workers once the queue drains and waits for them to
// exit. Calling Go after Close panics.
func (e *WorkerExecutor) Close() {
	e.mu.Lock()
	e.closed = true
	e.cond.Broadcast()
	e.mu.Unlock()
	e.wg.Wait()
}

func (e *WorkerExecutor) work() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		for e.queue.Len() == 0 && !e.closed {
			e.cond.Wait()
		}
		if e.queue.Len() == 0 {
			e.mu.Unlock()
			return
		}
		f := e.queue.PopFront()
		e.mu.Unlock()
		f()
	}
}
