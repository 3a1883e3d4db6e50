// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync/atomic"
)

// InFlightCounter tracks the number of work units currently occupying
// execution slots. It is thread-safe: units belonging to different runs
// may acquire and release slots of a shared pool concurrently.
type InFlightCounter struct {
	atomic.Int64
}

// IncrementIfUnder increments the counter and returns true if the
// incremented value does not exceed limit. Otherwise it reverts any change
// it may have made and returns false. A negative limit means no limit; a
// zero limit always declines.
func (c *InFlightCounter) IncrementIfUnder(limit int) bool {
	switch {
	case limit < 0:
		c.Add(1)
		return true
	case limit == 0:
		return false
	}
	// Tentatively increment the counter and check against limit. If over
	// limit, remove the tentative increment and try again if another
	// goroutine has made room between the increment and decrement.
	for c.Add(1) > int64(limit) {
		if c.Add(-1) >= int64(limit) {
			// Still at or over limit.
			return false
		}
	}
	return true
}

// DecrementAndCheckIfUnder decrements the counter and returns true if its
// new value leaves room under limit, meaning a waiter could now be
// admitted. Panics if the counter would go negative.
func (c *InFlightCounter) DecrementAndCheckIfUnder(limit int) bool {
	newValue := c.Add(-1)
	if newValue < 0 {
		panic("no work units in flight")
	}
	return limit < 0 || newValue < int64(limit)
}
