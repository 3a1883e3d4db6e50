// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import "fmt"

// A CombineFunc folds one [Outcome] into the running aggregate and returns
// the updated aggregate. Under [FailSoft] it receives failure outcomes as
// well as successes and decides how to record them; under [FailFast] it
// only ever sees successes.
//
// The engine serializes all CombineFunc invocations on the run's
// coordinating goroutine, so a CombineFunc may freely mutate state captured
// by closure without synchronization. Unless [WithOrderedFold] is
// configured, outcomes are folded in completion order, so the fold must not
// depend on input order.
//
// A non-nil error return is an aggregation error: it terminates the run in
// the failed state regardless of failure policy.
type CombineFunc[A any, O any] = func(A, Outcome[O]) (A, error)

// An Aggregator binds a zero value to the combine operation that folds
// outcomes into it. The zero value is the aggregate of an empty run and
// the starting point of every other run.
//
// An Aggregator is stateless and may be reused across runs; each run folds
// into its own copy of the zero value.
type Aggregator[A any, O any] struct {
	zero    A
	combine CombineFunc[A, O]
}

// NewAggregator creates an [Aggregator] from a zero value and a combine
// function. Panics if combine is nil.
func NewAggregator[A any, O any](zero A, combine CombineFunc[A, O]) *Aggregator[A, O] {
	if combine == nil {
		panic("combine function must be non-nil")
	}
	return &Aggregator[A, O]{
		zero:    zero,
		combine: combine,
	}
}

// fold applies the combine function, converting panics into errors so the
// coordinator can terminate the run instead of crashing the program.
func (g *Aggregator[A, O]) fold(acc A, out Outcome[O]) (res A, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCombinePanic, r)
		}
	}()
	return g.combine(acc, out)
}
