// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

import (
	"sync/atomic"
	"time"

	"github.com/intuitivelabs/timestamp"
)

// Clock is the monotonic time source used by a Lawn. All deadlines and
// "now" reads go through it, in millisecond resolution, so that the
// expiration semantics never depend on wall-clock (non-monotonic) time.
type Clock interface {
	// NowMillis returns the current time in milliseconds, monotonically
	// non-decreasing across calls on the same Clock instance.
	NowMillis() int64
}

// monotonicClock is the default Clock, backed by the platform monotonic
// clock. It keeps a reference timestamp taken at construction and
// reports elapsed milliseconds since then, the same reference-point
// technique the teacher uses for its tick/ref bookkeeping.
type monotonicClock struct {
	ref timestamp.TS
}

func newMonotonicClock() *monotonicClock {
	return &monotonicClock{ref: timestamp.Now()}
}

func (c *monotonicClock) NowMillis() int64 {
	return int64(timestamp.Now().Sub(c.ref) / time.Millisecond)
}

// ManualClock is a Clock implementation hosts can drive by hand, for
// deterministic tests. It starts at 0 unless advanced or set explicitly.
type ManualClock struct {
	ms int64
}

// NewManualClock returns a ManualClock initialized to startMillis.
func NewManualClock(startMillis int64) *ManualClock {
	return &ManualClock{ms: startMillis}
}

// NowMillis implements Clock.
func (c *ManualClock) NowMillis() int64 {
	return atomic.LoadInt64(&c.ms)
}

// Set moves the clock to an absolute millisecond value. Moving it
// backwards is allowed (the Lawn core makes no promises about what
// happens to already-armed deadlines if time moves backwards; it simply
// won't expire anything until NowMillis reaches their deadline again).
func (c *ManualClock) Set(ms int64) {
	atomic.StoreInt64(&c.ms, ms)
}

// Advance moves the clock forward by d, rounded down to the millisecond.
func (c *ManualClock) Advance(d time.Duration) {
	atomic.AddInt64(&c.ms, int64(d/time.Millisecond))
}
