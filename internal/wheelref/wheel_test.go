// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package wheelref

import "testing"

func TestWheelInitialization(t *testing.T) {
	w := New(8)
	if w.Size() != 0 {
		t.Fatalf("Size() = %d, want 0", w.Size())
	}
	if w.current != 0 {
		t.Fatalf("current = %d, want 0", w.current)
	}
}

func TestScheduleIncrementsSize(t *testing.T) {
	w := New(8)
	id := w.Schedule(1, "hi")
	if w.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", w.Size())
	}
	if id != 1 {
		t.Fatalf("Schedule returned id %d, want 1", id)
	}
}

func TestCancelRemovesFromSize(t *testing.T) {
	w := New(8)
	id := w.Schedule(3, nil)
	if err := w.Cancel(id); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if w.Size() != 0 {
		t.Fatalf("Size() = %d after Cancel, want 0", w.Size())
	}
	if err := w.Cancel(id); err != ErrUnknownID {
		t.Fatalf("second Cancel() = %v, want ErrUnknownID", err)
	}
}

func TestTickFiresAtTheRightSlot(t *testing.T) {
	w := New(4)
	var fired []uint64
	w.Schedule(1, nil) // lands one slot ahead

	if n := w.Tick(func(id uint64, _ interface{}) { fired = append(fired, id) }); n != 1 {
		t.Fatalf("Tick() = %d, want 1", n)
	}
	if len(fired) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(fired))
	}
}

func TestTickRequeuesUntilRoundElapses(t *testing.T) {
	w := New(2)
	// ticksAhead=5 on a size-2 wheel: slot (0+5)%2=1, rounds=(5-1)/2=2.
	w.Schedule(5, "late")

	fired := 0
	cb := func(uint64, interface{}) { fired++ }
	for i := 0; i < 6; i++ {
		w.Tick(cb)
	}
	if fired != 1 {
		t.Fatalf("fired = %d after 6 ticks, want exactly 1", fired)
	}
}

func TestClearDropsEverythingSilently(t *testing.T) {
	w := New(8)
	w.Schedule(1, nil)
	w.Schedule(2, nil)
	w.Clear()
	if w.Size() != 0 {
		t.Fatalf("Size() = %d after Clear, want 0", w.Size())
	}
	fired := 0
	for i := 0; i < 8; i++ {
		w.Tick(func(uint64, interface{}) { fired++ })
	}
	if fired != 0 {
		t.Fatalf("Clear left %d timers to fire", fired)
	}
}
