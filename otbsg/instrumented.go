// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package otbsg

import (
	"time"

	"go.uber.org/zap"

	bsg "github.com/petenewcomb/bsg-go"
)

// InstrumentedWorkUnit combines tracing, metrics, and logging for a work
// unit into a single wrapper. This provides a convenient way to apply all
// instrumentation at once.
func InstrumentedWorkUnit[I any, O any](
	logger *zap.Logger,
	operationName string,
	work bsg.WorkUnit[I, O],
) bsg.WorkUnit[I, O] {
	// Apply wrappers inside-out: logging first, then metrics, then
	// tracing outermost so the span covers both.
	logged := LoggedWorkUnit(logger, operationName, work)
	metered := MetricsWorkUnit(operationName, logged)
	return TracedWorkUnit(operationName, metered)
}

// NewInstrumentedObserver returns a [bsg.Observer] combining
// [NewLogObserver] and [NewMetricsObserver].
func NewInstrumentedObserver(logger *zap.Logger) bsg.Observer {
	return MultiObserver(NewLogObserver(logger), NewMetricsObserver())
}

// MultiObserver fans each callback out to every given observer in order.
func MultiObserver(observers ...bsg.Observer) bsg.Observer {
	return multiObserver(observers)
}

type multiObserver []bsg.Observer

func (m multiObserver) RunStarted(items int, limit int) {
	for _, o := range m {
		o.RunStarted(items, limit)
	}
}

func (m multiObserver) UnitAdmitted(item int, inFlight int) {
	for _, o := range m {
		o.UnitAdmitted(item, inFlight)
	}
}

func (m multiObserver) UnitCompleted(item int, inFlight int, err error) {
	for _, o := range m {
		o.UnitCompleted(item, inFlight, err)
	}
}

func (m multiObserver) OutcomeDiscarded(item int, err error) {
	for _, o := range m {
		o.OutcomeDiscarded(item, err)
	}
}

func (m multiObserver) RunFinished(state bsg.RunState, elapsed time.Duration, err error) {
	for _, o := range m {
		o.RunFinished(state, elapsed, err)
	}
}
