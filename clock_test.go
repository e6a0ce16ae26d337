// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

import (
	"testing"
	"time"
)

func TestManualClockSetAndAdvance(t *testing.T) {
	c := NewManualClock(10)
	if got := c.NowMillis(); got != 10 {
		t.Fatalf("NowMillis() = %d, want 10", got)
	}
	c.Advance(5 * time.Millisecond)
	if got := c.NowMillis(); got != 15 {
		t.Fatalf("NowMillis() after Advance = %d, want 15", got)
	}
	c.Set(0)
	if got := c.NowMillis(); got != 0 {
		t.Fatalf("NowMillis() after Set = %d, want 0", got)
	}
}

func TestMonotonicClockIsNonDecreasing(t *testing.T) {
	c := newMonotonicClock()
	a := c.NowMillis()
	time.Sleep(2 * time.Millisecond)
	b := c.NowMillis()
	if b < a {
		t.Fatalf("monotonicClock went backwards: %d -> %d", a, b)
	}
}
