// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync"

	"github.com/gammazero/deque"
)

// A Waiter is one registration in a [WaiterQueue]. Its notification channel
// has a buffer of length one, which encodes the waiter's state:
//
// 1. [WaiterQueue.Add] returns a waiter with an empty buffer, queued.
//
// 2a. [WaiterQueue.Notify] pops the waiter and sends, filling the buffer.
//
// 3aa. A receive on [Waiter.C] empties the buffer: the waiter got the
// notification. A subsequent [Waiter.Close] re-fills the buffer, which is
// harmless since the waiter is no longer queued.
//
// 3ab. [Waiter.Close] finds the buffer full: the waiter was notified but
// never received it. Close passes the notification on by calling
// [WaiterQueue.Notify] so the wakeup is not lost.
//
// 2b. [Waiter.Close] sends first, filling the buffer. When Notify later
// pops this waiter it cannot send, recognizes it as closed, and moves on to
// the next waiter in the queue.
type Waiter struct {
	q        *WaiterQueue
	notifyCh chan struct{}
}

// C returns the channel the notification is delivered on.
func (w *Waiter) C() <-chan struct{} {
	return w.notifyCh
}

// Close marks the waiter as no longer listening. If the waiter holds an
// unreceived notification, Close forwards it to the next queued waiter.
func (w *Waiter) Close() {
	select {
	case w.notifyCh <- struct{}{}:
		// Filled the buffer so that Notify knows this waiter is no longer
		// listening and can pass the notification to another.
	default:
		// The buffer was full: this waiter was notified but didn't receive
		// it. Pass the notification on.
		w.q.Notify()
	}
}

// WaiterQueue is a thread-safe FIFO of goroutines waiting for pool
// capacity. Notify wakes the oldest waiter that has not been closed.
type WaiterQueue struct {
	mu sync.Mutex
	q  deque.Deque[*Waiter]
}

// Add registers and returns a new waiter at the back of the queue.
func (wq *WaiterQueue) Add() *Waiter {
	w := &Waiter{
		q:        wq,
		notifyCh: make(chan struct{}, 1),
	}
	wq.mu.Lock()
	wq.q.PushBack(w)
	wq.mu.Unlock()
	return w
}

// Notify sends to the frontmost waiter still listening, if any. Closed
// waiters encountered on the way are discarded.
func (wq *WaiterQueue) Notify() {
	wq.mu.Lock()
	defer wq.mu.Unlock()
	for wq.q.Len() > 0 {
		w := wq.q.PopFront()
		select {
		case w.notifyCh <- struct{}{}:
			return
		default:
			// Buffer full: the waiter closed itself. Try the next one.
		}
	}
}
