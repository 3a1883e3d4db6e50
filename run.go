// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/petenewcomb/bsg-go/internal/state"
)

// RunState identifies where a [Run] is in its lifecycle.
type RunState int32

const (
	// RunIdle is the state of a run that has been created but not started.
	// Runs returned by [Scatter] have always left this state already.
	RunIdle RunState = RunState(state.StageIdle)
	// RunRunning means the run is admitting work and folding outcomes.
	RunRunning RunState = RunState(state.StageRunning)
	// RunCompleted means every item was accounted for and the aggregate is
	// finalized.
	RunCompleted RunState = RunState(state.StageCompleted)
	// RunFailed means the run terminated with an error: the first failure
	// under [FailFast], an [AggregateError], or cancellation.
	RunFailed RunState = RunState(state.StageFailed)
)

func (s RunState) String() string {
	switch s {
	case RunIdle:
		return "idle"
	case RunRunning:
		return "running"
	case RunCompleted:
		return "completed"
	case RunFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// A Run is the handle to one execution of the scatter-gather pipeline. It
// is created by [Scatter] and resolves exactly once, to either the
// finalized aggregate (see [RunCompleted]) or a terminal error (see
// [RunFailed]). The elapsed time it reports spans run creation to
// terminal-state entry, inclusive of all scheduling and queuing delay.
//
// All methods are safe for concurrent use by multiple goroutines.
type Run[A any] struct {
	lc      state.RunLifecycle
	cancel  context.CancelFunc
	start   time.Time
	elapsed atomic.Int64

	// result and err are written by the finishing goroutine before the
	// lifecycle turns terminal; the closed done channel publishes them.
	result A
	err    error
}

func newRun[A any](cancel context.CancelFunc) *Run[A] {
	r := &Run[A]{
		cancel: cancel,
		start:  time.Now(),
	}
	r.lc.Init()
	return r
}

// State returns the run's current lifecycle state.
func (r *Run[A]) State() RunState {
	return RunState(r.lc.Stage())
}

// Done returns a channel that is closed when the run reaches a terminal
// state.
func (r *Run[A]) Done() <-chan struct{} {
	return r.lc.DoneChan()
}

// Wait blocks until the run reaches a terminal state or ctx is canceled.
// On completion it returns the finalized aggregate; on failure it returns
// the zero aggregate and the terminal error. A ctx error only abandons the
// wait: the run itself keeps going.
func (r *Run[A]) Wait(ctx context.Context) (A, error) {
	select {
	case <-r.lc.DoneChan():
		return r.result, r.err
	case <-ctx.Done():
		var zero A
		return zero, ctx.Err()
	}
}

// Result returns the terminal aggregate and error without blocking. If the
// run is not yet terminal it returns the zero aggregate and
// [ErrRunNotDone].
func (r *Run[A]) Result() (A, error) {
	select {
	case <-r.lc.DoneChan():
		return r.result, r.err
	default:
		var zero A
		return zero, ErrRunNotDone
	}
}

// Elapsed returns the wall-clock duration from run creation to terminal
// entry, or to now if the run is still in progress.
func (r *Run[A]) Elapsed() time.Duration {
	if r.lc.Terminal() {
		return time.Duration(r.elapsed.Load())
	}
	return time.Since(r.start)
}

// Cancel requests best-effort cancellation: the context passed to every
// in-flight work unit is canceled and the run terminates in the failed
// state. Units whose underlying operation does not honor cancellation run
// to completion, but their outcomes are discarded rather than folded.
// Calling Cancel more than once, or after the run is terminal, has no
// additional effect.
func (r *Run[A]) Cancel() {
	r.cancel()
}

// finish moves the run into a terminal state, freezing the aggregate and
// the elapsed clock. Only the first call has any effect.
func (r *Run[A]) finish(st RunState, result A, err error, obs Observer) bool {
	// Record before the CAS so the values are published by the done
	// channel close inside Finish.
	r.result = result
	r.err = err
	elapsed := time.Since(r.start)
	r.elapsed.Store(int64(elapsed))
	if !r.lc.Finish(state.Stage(st)) {
		return false
	}
	// Release the run context even on success so that no timers or
	// descendant contexts leak.
	r.cancel()
	obs.RunFinished(st, elapsed, err)
	return true
}
