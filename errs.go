// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import "fmt"

type constError string

func (e constError) Error() string {
	return string(e)
}

// ErrWorkUnitPanic is wrapped into a failure [Outcome] when a work unit
// panics instead of returning.
const ErrWorkUnitPanic = constError("work unit panicked")

// ErrCombinePanic is wrapped into the [AggregateError] produced when a
// combine function panics instead of returning.
const ErrCombinePanic = constError("combine panicked")

// ErrRunNotDone is returned by [Run.Result] when the run has not yet
// reached a terminal state.
const ErrRunNotDone = constError("run not done")

// ConfigError reports an invalid engine configuration, such as a
// non-positive concurrency limit. It is returned synchronously by
// [Scatter] before any work unit starts.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Reason
}

// RunError is the terminal error of a run that failed under [FailFast].
// Cause is the error carried by the first failed outcome.
type RunError struct {
	Cause error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed: %v", e.Cause)
}

func (e *RunError) Unwrap() error {
	return e.Cause
}

// AggregateError is the terminal error of a run whose combine function
// returned an error or panicked. It is fatal regardless of failure policy,
// since the integrity of the aggregate is unknown once combining fails.
type AggregateError struct {
	Cause error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("aggregation failed: %v", e.Cause)
}

func (e *AggregateError) Unwrap() error {
	return e.Cause
}
