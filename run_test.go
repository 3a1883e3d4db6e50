// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg_test

import (
	"context"
	"testing"
	"time"

	"github.com/petenewcomb/bsg-go"
	"github.com/stretchr/testify/require"
)

func TestRunResultBeforeTerminal(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	release := make(chan struct{})
	run, err := bsg.Scatter(ctx, []int{1}, 1,
		func(ctx context.Context, v int) (int, error) {
			<-release
			return v, nil
		},
		sumAggregator(),
	)
	chk.NoError(err)

	chk.Equal(bsg.RunRunning, run.State())
	_, err = run.Result()
	chk.ErrorIs(err, bsg.ErrRunNotDone)

	close(release)
	sum, err := run.Wait(ctx)
	chk.NoError(err)
	chk.Equal(1, sum)

	sum, err = run.Result()
	chk.NoError(err)
	chk.Equal(1, sum)
}

func TestRunWaitAbandonedByCallerContext(t *testing.T) {
	chk := require.New(t)

	release := make(chan struct{})
	run, err := bsg.Scatter(context.Background(), []int{1, 2}, 2,
		func(ctx context.Context, v int) (int, error) {
			<-release
			return v, nil
		},
		sumAggregator(),
	)
	chk.NoError(err)

	// Abandoning the wait does not disturb the run itself.
	waitCtx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = run.Wait(waitCtx)
	chk.ErrorIs(err, context.Canceled)
	chk.Equal(bsg.RunRunning, run.State())

	close(release)
	sum, err := run.Wait(context.Background())
	chk.NoError(err)
	chk.Equal(3, sum)
	chk.Equal(bsg.RunCompleted, run.State())
}

func TestRunElapsedFreezesOnTerminal(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	run, err := bsg.Scatter(ctx, []int{1, 2, 3}, 3,
		func(ctx context.Context, v int) (int, error) {
			time.Sleep(20 * time.Millisecond)
			return v, nil
		},
		sumAggregator(),
	)
	chk.NoError(err)

	_, err = run.Wait(ctx)
	chk.NoError(err)

	elapsed := run.Elapsed()
	chk.GreaterOrEqual(elapsed, 20*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	chk.Equal(elapsed, run.Elapsed())
}

func TestRunDoneChannel(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	run, err := bsg.Scatter(ctx, []int{1}, 1,
		func(ctx context.Context, v int) (int, error) {
			return v, nil
		},
		sumAggregator(),
	)
	chk.NoError(err)

	select {
	case <-run.Done():
	case <-time.After(2 * time.Second):
		chk.Fail("run did not finish")
	}
	chk.Equal(bsg.RunCompleted, run.State())
}

func TestRunStateString(t *testing.T) {
	chk := require.New(t)
	chk.Equal("idle", bsg.RunIdle.String())
	chk.Equal("running", bsg.RunRunning.String())
	chk.Equal("completed", bsg.RunCompleted.String())
	chk.Equal("failed", bsg.RunFailed.String())
}
