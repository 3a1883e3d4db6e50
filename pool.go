// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import (
	"github.com/petenewcomb/bsg-go/internal/state"
)

// A Pool defines a virtual set of execution slots shared by any number of
// runs. When a run is configured with [WithPool], each of its work units
// must hold a pool slot while executing, so the pool's limit bounds the
// combined in-flight total across every run using it. Each run's own
// concurrency limit still applies independently.
//
// A Pool models slot accounting only; it does not own worker goroutines.
// Use [NewWorkerExecutor] to bound the workers themselves.
type Pool struct {
	limit    state.Limit
	inFlight state.InFlightCounter
	waiters  state.WaiterQueue
}

// NewPool creates a new [Pool] with the given slot limit. See
// [Pool.SetLimit] for the range of allowed values and their semantics.
func NewPool(limit int) *Pool {
	p := &Pool{}
	p.limit.Store(limit)
	return p
}

// SetLimit sets the active slot limit for the pool. A negative value means
// no limit. Zero means no new work units will be admitted until SetLimit
// is called with a non-zero value; units already in flight are unaffected.
// SetLimit is always thread-safe and takes effect immediately: raising the
// limit wakes runs blocked on pool capacity.
func (p *Pool) SetLimit(limit int) {
	p.limit.Store(limit)
	// Wake a blocked coordinator; the limit change channel covers the
	// rest.
	p.waiters.Notify()
}

// InFlight returns the number of slots currently held.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// acquire claims a slot if one is available. On failure it returns a
// registered waiter along with the channel closed on the next limit
// change; the caller must Close the waiter once it stops waiting.
func (p *Pool) acquire() (ok bool, waiter *state.Waiter, limitChange <-chan struct{}) {
	limit, limitChange := p.limit.Load()
	if p.inFlight.IncrementIfUnder(limit) {
		return true, nil, nil
	}
	waiter = p.waiters.Add()
	// Check again after registering as a waiter, in case capacity became
	// available between the last check and this one.
	limit, limitChange = p.limit.Load()
	if p.inFlight.IncrementIfUnder(limit) {
		waiter.Close()
		return true, nil, nil
	}
	return false, waiter, limitChange
}

// release frees a slot and wakes the oldest waiter if the pool is now
// under its limit.
func (p *Pool) release() {
	limit, _ := p.limit.Load()
	if p.inFlight.DecrementAndCheckIfUnder(limit) {
		p.waiters.Notify()
	}
}
