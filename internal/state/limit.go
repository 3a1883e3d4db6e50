// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import "sync/atomic"

// Limit holds a concurrency limit that may be changed while runs are in
// progress. Load returns the current value together with a channel that is
// closed by the next Store, letting a blocked coordinator wake when the
// limit changes instead of polling.
type Limit struct {
	state atomic.Pointer[limitState]
}

type limitState struct {
	value      int
	changeChan chan struct{}
}

// Load returns the current limit and a channel closed on the next change.
// The zero value of Limit loads as zero.
func (l *Limit) Load() (int, <-chan struct{}) {
	state := l.state.Load()
	if state == nil {
		state = &limitState{changeChan: make(chan struct{})}
		if !l.state.CompareAndSwap(nil, state) {
			state = l.state.Load()
		}
	}
	return state.value, state.changeChan
}

// Store replaces the limit and closes the change channel handed out with
// the previous value.
func (l *Limit) Store(v int) {
	oldState := l.state.Swap(&limitState{
		value:      v,
		changeChan: make(chan struct{}),
	})
	if oldState != nil {
		close(oldState.changeChan)
	}
}
