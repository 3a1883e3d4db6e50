// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import "time"

// An Observer receives instrumentation callbacks for one run. Observers
// make the engine's invariants visible without entangling it with any
// particular telemetry stack; the otbsg package provides zap- and
// OpenTelemetry-backed implementations.
//
// RunStarted is invoked on the goroutine calling [Scatter]. All other
// callbacks are invoked on the run's coordinating goroutine and are
// therefore serialized; they must not block, as doing so delays admission
// and folding.
type Observer interface {
	// RunStarted is called once, after configuration validation, with the
	// number of input items and the concurrency limit.
	RunStarted(items int, limit int)

	// UnitAdmitted is called when a work unit is dispatched. inFlight is
	// the number of units in flight including this one and never exceeds
	// the run's concurrency limit.
	UnitAdmitted(item int, inFlight int)

	// UnitCompleted is called whenever a unit's outcome is received,
	// including outcomes drained after the run turned terminal. inFlight
	// is the count after this completion; err is non-nil for failure
	// outcomes. Every admitted item produces exactly one UnitCompleted.
	UnitCompleted(item int, inFlight int, err error)

	// OutcomeDiscarded is called for each outcome that is accounted for
	// but not folded into the aggregate: outcomes received after the run
	// turned terminal, and outcomes buffered for ordered folding whose
	// turn never came.
	OutcomeDiscarded(item int, err error)

	// RunFinished is called exactly once on entry to a terminal state.
	RunFinished(state RunState, elapsed time.Duration, err error)
}

// NopObserver is an [Observer] that ignores every callback. Embed it to
// implement only the callbacks of interest.
type NopObserver struct{}

func (NopObserver) RunStarted(items int, limit int)               {}
func (NopObserver) UnitAdmitted(item int, inFlight int)           {}
func (NopObserver) UnitCompleted(item int, inFlight int, e error) {}
func (NopObserver) OutcomeDiscarded(item int, e error)            {}
func (NopObserver) RunFinished(s RunState, d time.Duration, e error) {
}
