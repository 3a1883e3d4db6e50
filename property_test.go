// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg_test

import (
	"context"
	"errors"
	"testing"

	"github.com/petenewcomb/bsg-go"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// The aggregate of a run must equal the sequential fold of the same
// outcomes, for any item count, concurrency limit, and fold ordering.
func TestScatterAggregateByProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		ctx := context.Background()

		items := rapid.SliceOfN(rapid.IntRange(-1000, 1000), 0, 50).Draw(t, "items")
		limit := rapid.IntRange(1, 64).Draw(t, "limit")
		ordered := rapid.Bool().Draw(t, "ordered")

		expected := 0
		for _, v := range items {
			expected += v * 3
		}

		opts := []bsg.Option{bsg.WithFailurePolicy(bsg.FailSoft)}
		if ordered {
			opts = append(opts, bsg.WithOrderedFold())
		}
		run, err := bsg.Scatter(ctx, items, limit,
			func(ctx context.Context, v int) (int, error) {
				return v * 3, nil
			},
			sumAggregator(),
			opts...,
		)
		chk.NoError(err)

		sum, err := run.Wait(ctx)
		chk.NoError(err)
		chk.Equal(expected, sum)
		chk.Equal(bsg.RunCompleted, run.State())
	})
}

// Under fail-soft, every item is accounted for exactly once no matter
// which subset fails.
func TestScatterFailSoftAccountingByProperty(t *testing.T) {
	boom := errors.New("boom")

	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		ctx := context.Background()

		n := rapid.IntRange(0, 40).Draw(t, "n")
		limit := rapid.IntRange(1, 48).Draw(t, "limit")
		fails := rapid.SliceOfN(rapid.Bool(), n, n).Draw(t, "fails")

		expectedFailed := 0
		for _, f := range fails {
			if f {
				expectedFailed++
			}
		}

		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		type tally struct {
			ok     int
			failed int
		}
		run, err := bsg.Scatter(ctx, items, limit,
			func(ctx context.Context, v int) (int, error) {
				if fails[v] {
					return 0, boom
				}
				return v, nil
			},
			bsg.NewAggregator(tally{}, func(a tally, out bsg.Outcome[int]) (tally, error) {
				if out.Failed() {
					a.failed++
				} else {
					a.ok++
				}
				return a, nil
			}),
			bsg.WithFailurePolicy(bsg.FailSoft),
		)
		chk.NoError(err)

		agg, err := run.Wait(ctx)
		chk.NoError(err)
		chk.Equal(expectedFailed, agg.failed)
		chk.Equal(n-expectedFailed, agg.ok)
	})
}

// Ordered folding must reproduce input order regardless of the limit and
// of which units complete first.
func TestScatterOrderedFoldByProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chk := require.New(t)
		ctx := context.Background()

		n := rapid.IntRange(0, 30).Draw(t, "n")
		limit := rapid.IntRange(1, 32).Draw(t, "limit")

		items := make([]int, n)
		for i := range items {
			items[i] = i
		}

		run, err := bsg.Scatter(ctx, items, limit,
			func(ctx context.Context, v int) (int, error) {
				return v, nil
			},
			bsg.NewAggregator(nil, func(a []int, out bsg.Outcome[int]) ([]int, error) {
				return append(a, out.Value), nil
			}),
			bsg.WithOrderedFold(),
			bsg.WithFailurePolicy(bsg.FailSoft),
		)
		chk.NoError(err)

		got, err := run.Wait(ctx)
		chk.NoError(err)
		chk.Len(got, n)
		for i, v := range got {
			chk.Equal(i, v)
		}
	})
}
