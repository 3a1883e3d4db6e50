// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunLifecycleHappyPath(t *testing.T) {
	chk := require.New(t)
	var lc RunLifecycle
	lc.Init()

	chk.Equal(StageIdle, lc.Stage())
	chk.False(lc.Terminal())

	chk.True(lc.Begin())
	chk.Equal(StageRunning, lc.Stage())
	chk.False(lc.Begin(), "second Begin must fail")

	select {
	case <-lc.DoneChan():
		chk.Fail("done channel closed before terminal stage")
	default:
	}

	chk.True(lc.Finish(StageCompleted))
	chk.Equal(StageCompleted, lc.Stage())
	chk.True(lc.Terminal())

	select {
	case <-lc.DoneChan():
	default:
		chk.Fail("done channel should be closed")
	}
}

func TestRunLifecycleFinishOnlyOnce(t *testing.T) {
	chk := require.New(t)
	var lc RunLifecycle
	lc.Init()
	chk.True(lc.Begin())

	chk.True(lc.Finish(StageFailed))
	chk.False(lc.Finish(StageCompleted), "second Finish must fail")
	chk.Equal(StageFailed, lc.Stage())
}

func TestRunLifecycleFinishNonTerminalPanics(t *testing.T) {
	chk := require.New(t)
	var lc RunLifecycle
	lc.Init()
	chk.True(lc.Begin())
	chk.PanicsWithValue("finish stage must be terminal", func() {
		lc.Finish(StageRunning)
	})
}

func TestRunLifecycleConcurrentFinish(t *testing.T) {
	chk := require.New(t)
	var lc RunLifecycle
	lc.Init()
	chk.True(lc.Begin())

	const racers = 32
	var won atomic.Int64
	var wg sync.WaitGroup
	wg.Add(racers)
	for i := range racers {
		go func() {
			defer wg.Done()
			stage := StageCompleted
			if i%2 == 0 {
				stage = StageFailed
			}
			if lc.Finish(stage) {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	chk.Equal(int64(1), won.Load(), "exactly one terminal transition")
	chk.True(lc.Terminal())
}
