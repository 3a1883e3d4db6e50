// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package bsg provides a bounded-concurrency scatter-gather execution
// engine: it runs one unit of asynchronous work per input item, caps the
// number of units in flight at a configurable limit, and folds each result
// into a single aggregate as results arrive. The caller receives a
// future-like [Run] handle instead of blocking, and the handle eventually
// yields either the finalized aggregate or the failure that terminated the
// run.
//
// Admission is credit-based: the moment any in-flight unit completes, the
// next pending item is admitted, so the limit bounds concurrency at every
// instant rather than in fixed batches. A limit of one degenerates to
// strict sequential execution; a limit at or above the item count
// degenerates to full parallelism.
//
// All aggregation is confined to a single coordinating goroutine fed by a
// completion channel, so combine functions never need their own
// synchronization. Failure handling is explicit configuration: [FailFast]
// aborts the run on the first failed unit and best-effort cancels the
// rest, while [FailSoft] folds failures into the aggregate alongside
// successes and completes only once every item is accounted for.
//
// Units execute on an [Executor]. The default spawns one goroutine per
// admitted unit; [NewWorkerExecutor] provides a fixed-size worker pool so
// that a small set of workers can serve a larger admission window, and so
// tests can substitute a deterministic scheduler. A [Pool] may additionally
// be shared between runs to bound their combined in-flight total.
package bsg
