// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import (
	"context"
	"fmt"
)

// A WorkUnit represents the asynchronous operation to be executed for a
// single input item. It receives the run's context, which should be
// respected for cancellation, and the input item, and returns a result of
// type O and an error value. Any other inputs are expected to be provided
// by specifying the WorkUnit as a [function literal] that references and
// therefore captures local variables via [lexical closure].
//
// Each WorkUnit invocation is dispatched by the engine onto an execution
// slot chosen by the run's [Executor] and must therefore be thread-safe,
// including access to any captured variables. The underlying operation may
// block its slot; this is isolated to that slot and never blocks admission
// or aggregation.
//
// A WorkUnit produces exactly one [Outcome] per admitted item. An error
// return becomes a failure outcome; a panic is recovered at the invocation
// boundary and converted to a failure outcome wrapping [ErrWorkUnitPanic].
// Neither ever unwinds into the engine.
//
// [function literal]: https://go.dev/ref/spec#Function_literals
// [lexical closure]: https://en.wikipedia.org/wiki/Closure_(computer_programming)
type WorkUnit[I any, O any] = func(context.Context, I) (O, error)

// An Outcome is the tagged result of one [WorkUnit] invocation: either a
// success carrying Value or a failure carrying Err. Item is the index of
// the input item the outcome belongs to.
type Outcome[O any] struct {
	Item  int
	Value O
	Err   error
}

// Failed reports whether the outcome represents a failure.
func (o Outcome[O]) Failed() bool {
	return o.Err != nil
}

// invoke executes a work unit for one item, converting panics into failure
// outcomes so that nothing unwinds past the invocation boundary.
func invoke[I any, O any](ctx context.Context, work WorkUnit[I, O], item int, value I) (out Outcome[O]) {
	out.Item = item
	defer func() {
		if r := recover(); r != nil {
			var zero O
			out.Value = zero
			out.Err = fmt.Errorf("%w: %v", ErrWorkUnitPanic, r)
		}
	}()
	out.Value, out.Err = work(ctx, value)
	return
}
