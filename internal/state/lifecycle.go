// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync/atomic"
)

// Stage represents the possible stages in a run's lifecycle.
type Stage int32

const (
	// StageIdle indicates that the run has been created but not started.
	StageIdle Stage = iota
	// StageRunning indicates that the run is admitting and folding work.
	StageRunning
	// StageCompleted indicates terminal success: every item was accounted
	// for and folded into the aggregate.
	StageCompleted
	// StageFailed indicates terminal failure, carrying a cause held by the
	// run itself.
	StageFailed
)

// RunLifecycle is the state machine of a single run. Transitions are
// compare-and-swap guarded so that entry into a terminal stage happens
// exactly once no matter how many goroutines race to report one.
type RunLifecycle struct {
	stage atomic.Int32
	done  chan struct{}
}

// Init sets the lifecycle to the idle stage and must be called exactly
// once before any other method. An Init method is provided instead of a
// New function because RunLifecycle is expected to be an embedded field.
func (lc *RunLifecycle) Init() {
	lc.stage.Store(int32(StageIdle))
	lc.done = make(chan struct{})
}

// Begin transitions idle to running. Returns false if the run was already
// started.
func (lc *RunLifecycle) Begin() bool {
	return lc.stage.CompareAndSwap(int32(StageIdle), int32(StageRunning))
}

// Finish transitions running to the given terminal stage and closes the
// done channel. Returns false if the run was already terminal, in which
// case nothing changes. Panics if stage is not terminal.
func (lc *RunLifecycle) Finish(stage Stage) bool {
	if stage != StageCompleted && stage != StageFailed {
		panic("finish stage must be terminal")
	}
	if !lc.stage.CompareAndSwap(int32(StageRunning), int32(stage)) {
		return false
	}
	close(lc.done)
	return true
}

// Stage returns the current lifecycle stage.
func (lc *RunLifecycle) Stage() Stage {
	return Stage(lc.stage.Load())
}

// Terminal reports whether the run has reached a terminal stage.
func (lc *RunLifecycle) Terminal() bool {
	s := lc.Stage()
	return s == StageCompleted || s == StageFailed
}

// DoneChan returns the channel closed on entry to a terminal stage.
func (lc *RunLifecycle) DoneChan() <-chan struct{} {
	return lc.done
}
