// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/petenewcomb/bsg-go"
	"github.com/stretchr/testify/require"
)

func TestWorkerExecutorRunsEverything(t *testing.T) {
	chk := require.New(t)

	exec := bsg.NewWorkerExecutor(3)
	var count atomic.Int64
	for range 100 {
		exec.Go(func() {
			count.Add(1)
		})
	}
	exec.Close()
	chk.Equal(int64(100), count.Load())
}

func TestWorkerExecutorBoundsParallelism(t *testing.T) {
	chk := require.New(t)

	exec := bsg.NewWorkerExecutor(2)
	defer exec.Close()

	var executing, maxExecuting atomic.Int64
	done := make(chan struct{}, 16)
	for range 16 {
		exec.Go(func() {
			n := executing.Add(1)
			defer executing.Add(-1)
			for {
				seen := maxExecuting.Load()
				if n <= seen || maxExecuting.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			done <- struct{}{}
		})
	}
	for range 16 {
		<-done
	}
	chk.LessOrEqual(maxExecuting.Load(), int64(2))
}

func TestWorkerExecutorInvalidCountPanics(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("worker count must be positive", func() {
		bsg.NewWorkerExecutor(0)
	})
}

func TestWorkerExecutorGoAfterClosePanics(t *testing.T) {
	chk := require.New(t)
	exec := bsg.NewWorkerExecutor(1)
	exec.Close()
	chk.PanicsWithValue("executor is closed", func() {
		exec.Go(func() {})
	})
}

func TestScatterOnWorkerExecutor(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	// An admission window wider than the worker set: two workers serve
	// eight admitted units, queuing the rest. The run still folds every
	// outcome.
	exec := bsg.NewWorkerExecutor(2)
	defer exec.Close()

	var executing, maxExecuting atomic.Int64
	items := make([]int, 16)
	for i := range items {
		items[i] = i
	}
	run, err := bsg.Scatter(ctx, items, 8,
		func(ctx context.Context, v int) (int, error) {
			n := executing.Add(1)
			defer executing.Add(-1)
			for {
				seen := maxExecuting.Load()
				if n <= seen || maxExecuting.CompareAndSwap(seen, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			return v, nil
		},
		sumAggregator(),
		bsg.WithExecutor(exec),
	)
	chk.NoError(err)

	sum, err := run.Wait(ctx)
	chk.NoError(err)
	chk.Equal(16*15/2, sum)
	// The worker pool, not the admission limit, bounded execution.
	chk.LessOrEqual(maxExecuting.Load(), int64(2))
}

func TestWorkerExecutorSharedAcrossRuns(t *testing.T) {
	chk := require.New(t)
	ctx := context.Background()

	exec := bsg.NewWorkerExecutor(4)
	defer exec.Close()

	runs := make([]*bsg.Run[int], 3)
	for i := range runs {
		run, err := bsg.Scatter(ctx, []int{1, 2, 3, 4}, 2,
			func(ctx context.Context, v int) (int, error) {
				return v, nil
			},
			sumAggregator(),
			bsg.WithExecutor(exec),
		)
		chk.NoError(err)
		runs[i] = run
	}
	for _, run := range runs {
		sum, err := run.Wait(ctx)
		chk.NoError(err)
		chk.Equal(10, sum)
	}
}
