// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package wheelref implements a small single-level hashed timing wheel.
// It exists purely as a comparison baseline for lawnbench: the core
// lawn package never imports it.
package wheelref

import (
	"errors"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
)

// ErrUnknownID is returned by Cancel when the id has already fired or
// was never scheduled.
var ErrUnknownID = errors.New("wheelref: unknown timer id")

type entry struct {
	id       uint64
	rounds   int
	payload  interface{}
	canceled bool
}

// Wheel is a fixed-size hashed timing wheel: Schedule places an entry
// in slot (current+ticks)%size and records how many extra full
// revolutions it must wait out, Tick advances the current slot by one
// and fires (or re-arms) every entry it finds there.
type Wheel struct {
	size    int
	buckets []*linkedlistqueue.Queue
	current int

	nextID   uint64
	byID     map[uint64]*entry
	liveCnt  int
}

// New creates a Wheel with the given number of slots.
func New(size int) *Wheel {
	if size <= 0 {
		panic("wheelref: size must be positive")
	}
	w := &Wheel{
		size:    size,
		buckets: make([]*linkedlistqueue.Queue, size),
		byID:    make(map[uint64]*entry),
	}
	for i := range w.buckets {
		w.buckets[i] = linkedlistqueue.New()
	}
	return w
}

// Schedule arms a new timer, ticksAhead slots (and rounds) in the
// future, and returns its id.
func (w *Wheel) Schedule(ticksAhead int, payload interface{}) uint64 {
	if ticksAhead < 0 {
		ticksAhead = 0
	}
	// Tick advances before reading, so the slot is first reached after
	// ((ticksAhead-1) % size)+1 ticks; the rest are whole revolutions.
	rounds := 0
	if ticksAhead > 0 {
		rounds = (ticksAhead - 1) / w.size
	}
	slot := (w.current + ticksAhead) % w.size

	w.nextID++
	id := w.nextID
	e := &entry{id: id, rounds: rounds, payload: payload}
	w.byID[id] = e
	w.buckets[slot].Enqueue(e)
	w.liveCnt++
	return id
}

// Cancel marks an armed timer so that it's dropped, rather than fired,
// the next time its bucket is swept. The queue entry itself is only
// removed lazily, at sweep time, since linkedlistqueue has no O(1)
// random-access removal.
func (w *Wheel) Cancel(id uint64) error {
	e, ok := w.byID[id]
	if !ok {
		return ErrUnknownID
	}
	if e.canceled {
		return ErrUnknownID
	}
	e.canceled = true
	delete(w.byID, id)
	w.liveCnt--
	return nil
}

// Tick advances the wheel by one slot, firing fn for every live entry
// whose rounds counter has reached zero and returning how many fired.
// Entries with rounds left are re-enqueued in the same slot with the
// counter decremented, mirroring the single-level wheel's classic
// "requeue until your round comes up" behavior.
//
// current is advanced before the bucket is read, so it lands on the
// same slot Schedule computed a ticksAhead=1 entry into: a timer armed
// one tick ahead of now fires on the very next Tick call.
func (w *Wheel) Tick(fn func(id uint64, payload interface{})) int {
	w.current = (w.current + 1) % w.size
	bucket := w.buckets[w.current]
	fired := 0

	pending := bucket.Size()
	for i := 0; i < pending; i++ {
		v, ok := bucket.Dequeue()
		if !ok {
			break
		}
		e := v.(*entry)
		if e.canceled {
			continue
		}
		if e.rounds > 0 {
			e.rounds--
			bucket.Enqueue(e)
			continue
		}
		delete(w.byID, e.id)
		w.liveCnt--
		fired++
		fn(e.id, e.payload)
	}

	return fired
}

// Size returns the number of currently armed (non-canceled) timers.
func (w *Wheel) Size() int { return w.liveCnt }

// Clear drops every armed timer without firing it.
func (w *Wheel) Clear() {
	for i := range w.buckets {
		w.buckets[i].Clear()
	}
	w.byID = make(map[uint64]*entry)
	w.current = 0
	w.liveCnt = 0
}
