// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package bsg

import (
	"cmp"
	"context"
	"fmt"

	"github.com/addrummond/heap"

	"github.com/petenewcomb/bsg-go/internal/state"
)

// FailurePolicy selects how a run treats failure outcomes.
type FailurePolicy int

const (
	// FailFast terminates the run on the first failure outcome, carrying
	// its cause as a [RunError]. Remaining in-flight work units are
	// best-effort cancelled and their eventual outcomes are discarded, not
	// folded; pending items are never admitted.
	FailFast FailurePolicy = iota

	// FailSoft folds failure outcomes into the aggregate alongside
	// successes. The run completes only after every item is accounted for.
	FailSoft
)

func (p FailurePolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case FailSoft:
		return "fail-soft"
	default:
		return "unknown"
	}
}

type config struct {
	policy   FailurePolicy
	ordered  bool
	executor Executor
	observer Observer
	pool     *Pool
}

// An Option adjusts the configuration of a single run.
type Option func(*config)

// WithFailurePolicy selects the run's failure policy. The default is
// [FailFast].
func WithFailurePolicy(p FailurePolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithOrderedFold makes the run fold outcomes in input-item order rather
// than completion order, buffering out-of-order completions until their
// predecessors arrive. This lifts the requirement that the combine
// function be order-independent, at the cost of holding up to limit-1
// completed outcomes in memory.
//
// Under [FailFast] the run still aborts on the first failure to complete,
// which is not necessarily the failure with the lowest item index.
func WithOrderedFold() Option {
	return func(c *config) {
		c.ordered = true
	}
}

// WithExecutor selects the execution context for the run's work units. The
// default spawns one goroutine per admitted unit.
func WithExecutor(e Executor) Option {
	if e == nil {
		panic("executor must be non-nil")
	}
	return func(c *config) {
		c.executor = e
	}
}

// WithObserver attaches an [Observer] to the run.
func WithObserver(o Observer) Option {
	if o == nil {
		panic("observer must be non-nil")
	}
	return func(c *config) {
		c.observer = o
	}
}

// WithPool makes every work unit of the run hold a slot of the given
// [Pool] while executing, bounding the combined in-flight total across all
// runs sharing it.
func WithPool(p *Pool) Option {
	if p == nil {
		panic("pool must be non-nil")
	}
	return func(c *config) {
		c.pool = p
	}
}

// Scatter starts one scatter-gather run: it executes work once per item
// with at most limit invocations in flight at any instant, folds each
// outcome into the aggregate as it arrives, and returns a [Run] handle
// that resolves to the finalized aggregate once every item is accounted
// for (or to an error, per the failure policy).
//
// Scatter does not block: work units execute asynchronously on the run's
// [Executor] and all folding happens on a coordinating goroutine owned by
// the run. Admission follows input order; completion order is
// unconstrained unless [WithOrderedFold] is configured. Canceling ctx
// cancels the run.
//
// An empty items sequence completes the run immediately with the
// aggregator's zero value. A non-positive limit is a configuration error,
// reported synchronously as a [*ConfigError] before any work unit starts.
// Scatter panics if work or agg is nil.
func Scatter[I any, O any, A any](
	ctx context.Context,
	items []I,
	limit int,
	work WorkUnit[I, O],
	agg *Aggregator[A, O],
	opts ...Option,
) (*Run[A], error) {
	if work == nil {
		panic("work unit must be non-nil")
	}
	if agg == nil {
		panic("aggregator must be non-nil")
	}

	cfg := config{
		policy:   FailFast,
		executor: goExecutor{},
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if limit <= 0 {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("concurrency limit must be positive, got %d", limit),
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	r := newRun[A](cancel)
	r.lc.Begin()
	cfg.observer.RunStarted(len(items), limit)

	if len(items) == 0 {
		r.finish(RunCompleted, agg.zero, nil, cfg.observer)
		return r, nil
	}

	c := &coordinator[I, O, A]{
		ctx:   runCtx,
		run:   r,
		items: items,
		limit: limit,
		work:  work,
		agg:   agg,
		cfg:   cfg,
		acc:   agg.zero,
		// Sized so that no unit's outcome post can ever block: at most
		// limit units are in flight and each posts exactly once.
		completions: make(chan Outcome[O], min(limit, len(items))),
	}
	go c.loop()
	return r, nil
}

// coordinator owns all of a run's mutable state. Admission, folding, and
// terminal transitions happen only on its goroutine; work units
// communicate with it exclusively through the completion channel.
type coordinator[I any, O any, A any] struct {
	ctx         context.Context
	run         *Run[A]
	items       []I
	limit       int
	work        WorkUnit[I, O]
	agg         *Aggregator[A, O]
	cfg         config
	completions chan Outcome[O]

	next     int // index of the next item to admit
	inFlight int
	acc      A

	// Reorder buffer for WithOrderedFold.
	reorder  heap.Heap[orderedOutcome[O], heap.Min]
	nextFold int
}

type orderedOutcome[O any] struct {
	out Outcome[O]
}

func (a *orderedOutcome[O]) Cmp(b *orderedOutcome[O]) int {
	return cmp.Compare(a.out.Item, b.out.Item)
}

func (c *coordinator[I, O, A]) loop() {
	for {
		waiter, limitChange := c.admit()

		if c.inFlight == 0 && c.next == len(c.items) {
			// Every admitted item has been folded; the reorder buffer is
			// necessarily empty.
			c.run.finish(RunCompleted, c.acc, nil, c.cfg.observer)
			return
		}

		var waiterCh <-chan struct{}
		if waiter != nil {
			waiterCh = waiter.C()
		}

		select {
		case out := <-c.completions:
			if waiter != nil {
				waiter.Close()
			}
			c.inFlight--
			c.cfg.observer.UnitCompleted(out.Item, c.inFlight, out.Err)
			if err := c.handle(out); err != nil {
				c.fail(err)
				return
			}
		case <-waiterCh:
			// Pool capacity may be available; retry admission.
			waiter.Close()
		case <-limitChange:
			if waiter != nil {
				waiter.Close()
			}
		case <-c.ctx.Done():
			if waiter != nil {
				waiter.Close()
			}
			c.fail(c.ctx.Err())
			return
		}
	}
}

// admit launches pending items until the run's credit is exhausted, the
// input is drained, or the pool declines. In the last case it returns the
// registered pool waiter and the pool's limit-change channel for the
// caller to block on. A canceled run context stops admission immediately;
// the caller's select observes the cancellation.
func (c *coordinator[I, O, A]) admit() (*state.Waiter, <-chan struct{}) {
	for c.inFlight < c.limit && c.next < len(c.items) {
		if c.ctx.Err() != nil {
			return nil, nil
		}
		if c.cfg.pool != nil {
			ok, waiter, limitChange := c.cfg.pool.acquire()
			if !ok {
				return waiter, limitChange
			}
		}
		c.launch()
	}
	return nil, nil
}

func (c *coordinator[I, O, A]) launch() {
	item := c.next
	value := c.items[item]
	c.next++
	c.inFlight++
	c.cfg.observer.UnitAdmitted(item, c.inFlight)
	c.cfg.executor.Go(func() {
		out := invoke(c.ctx, c.work, item, value)
		// Release the pool slot before posting the outcome so that a
		// coordinator woken by the post finds the slot already free.
		if c.cfg.pool != nil {
			c.cfg.pool.release()
		}
		c.completions <- out
	})
}

// handle folds one live outcome. A non-nil return is the run's terminal
// error.
func (c *coordinator[I, O, A]) handle(out Outcome[O]) error {
	if out.Failed() && c.cfg.policy == FailFast {
		return &RunError{Cause: out.Err}
	}
	if !c.cfg.ordered {
		return c.foldOne(out)
	}
	heap.PushOrderable(&c.reorder, orderedOutcome[O]{out: out})
	for {
		top, ok := heap.Peek(&c.reorder)
		if !ok || top.out.Item != c.nextFold {
			return nil
		}
		top, _ = heap.PopOrderable(&c.reorder)
		if err := c.foldOne(top.out); err != nil {
			return err
		}
		c.nextFold++
	}
}

func (c *coordinator[I, O, A]) foldOne(out Outcome[O]) error {
	acc, err := c.agg.fold(c.acc, out)
	if err != nil {
		return &AggregateError{Cause: err}
	}
	c.acc = acc
	return nil
}

// fail enters the failed state and then drains the outcomes still owed by
// in-flight units. Entering the terminal state first resolves the run
// handle (and cancels the run context) before the drain starts, so callers
// are never delayed by non-cooperative work units.
func (c *coordinator[I, O, A]) fail(err error) {
	var zero A
	c.run.finish(RunFailed, zero, err, c.cfg.observer)
	c.drain()
}

// drain accounts for every outstanding outcome of a terminated run without
// folding it. The completion channel has room for every in-flight unit, so
// posts never block and this loop always terminates.
func (c *coordinator[I, O, A]) drain() {
	for {
		top, ok := heap.PopOrderable(&c.reorder)
		if !ok {
			break
		}
		c.cfg.observer.OutcomeDiscarded(top.out.Item, top.out.Err)
	}
	for ; c.inFlight > 0; c.inFlight-- {
		out := <-c.completions
		c.cfg.observer.UnitCompleted(out.Item, c.inFlight-1, out.Err)
		c.cfg.observer.OutcomeDiscarded(out.Item, out.Err)
	}
}
