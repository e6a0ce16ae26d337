// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package lawn provides a low-latency timer store optimized for
// workloads where the set of distinct TTL values is much smaller than
// the number of live timers: hundreds of thousands to tens of millions
// of concurrently armed timers, amortized O(1) Add, O(1) Cancel, and
// O(k) Tick (k = number of timers expiring that tick).
package lawn

import (
	"sync"
	"time"

	"github.com/picotera/lawn/internal/diag"
)

// Lawn is a timer store. The zero value is not usable; construct one
// with New. A *Lawn is safe for concurrent use: all mutating operations
// (Add, Cancel, Tick, Clear) take an internal lock.
type Lawn struct {
	opLock sync.Mutex

	clock Clock
	sink  ExpirationSink

	reg     registry
	classes classMap

	size int
}

// Option configures a Lawn at construction time.
type Option func(*Lawn)

// WithClock overrides the default monotonic Clock. Intended for tests
// and for hosts that already have their own time source.
func WithClock(c Clock) Option {
	return func(l *Lawn) { l.clock = c }
}

// New creates a Lawn that delivers expirations to sink. sink must not be
// nil: New panics (via diag.BUG) if it is, since there would be no way
// to ever observe an expiration. Pass a no-op sink if you genuinely
// don't care about expirations (Size/Clear remain meaningful either way).
func New(sink ExpirationSink, opts ...Option) *Lawn {
	if sink == nil {
		diag.BUG("lawn.New called with a nil sink\n")
	}
	l := &Lawn{
		clock:   newMonotonicClock(),
		sink:    sink,
		reg:     *newRegistry(),
		classes: *newClassMap(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// millisFor rounds d up to a whole number of milliseconds, with a floor
// of 1ms: a sub-millisecond positive ttl should still expire a tick
// later, never immediately, and should never collide with the "no ttl"
// case of 0.
func millisFor(d time.Duration) int64 {
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	if ms < 1 {
		ms = 1
	}
	return int64(ms)
}

// Add arms a new timer that will deliver payload to the sink after ttl
// elapses. ttl must be strictly positive; any other value fails with
// ErrInvalidTTL and no state is changed. On success it returns the
// timer's fresh id. O(1).
func (l *Lawn) Add(ttl time.Duration, payload interface{}) (uint64, error) {
	if ttl <= 0 {
		return 0, ErrInvalidTTL
	}

	l.opLock.Lock()
	defer l.opLock.Unlock()

	ttlMillis := millisFor(ttl)
	now := l.clock.NowMillis()

	n := &timerNode{
		deadline: now + ttlMillis,
		payload:  payload,
	}
	cls := l.classes.getOrCreate(ttlMillis)
	wasEmpty := cls.queue.isEmpty()
	cls.queue.pushTail(n)
	n.cls = cls
	if wasEmpty {
		l.classes.markNonEmpty(ttlMillis)
	}

	id := l.reg.register(n)
	l.size++
	return id, nil
}

// Cancel removes timer id if it is still live. It returns true iff the
// id was live at the time of the call. Idempotent: a second Cancel of
// the same id returns false. O(1).
func (l *Lawn) Cancel(id uint64) bool {
	l.opLock.Lock()
	defer l.opLock.Unlock()

	n := l.reg.lookup(id)
	if n == nil {
		return false
	}
	l.unlinkAndDeregister(n)
	return true
}

// unlinkAndDeregister removes n from its class's fifo, deregisters its
// id, drops the class if it's now empty, and decrements size. Must be
// called with opLock held.
func (l *Lawn) unlinkAndDeregister(n *timerNode) {
	cls := n.cls
	cls.queue.unlink(n)
	n.cls = nil
	l.reg.deregister(n.id)
	l.size--
	if cls.queue.isEmpty() {
		l.classes.drop(cls.ttlMillis)
	}
}

// Tick drains every timer whose deadline is at or before now, across all
// TTL classes, and returns the count drained. A single now is read once
// at the start, and the sink runs only after draining is done, so no
// timer armed by a sink callback during this Tick can itself expire
// during this same Tick.
func (l *Lawn) Tick() int {
	l.opLock.Lock()
	now := l.clock.NowMillis()
	keys := l.classes.snapshot()

	type expired struct {
		id      uint64
		payload interface{}
	}
	var drained []expired

	for _, ttlMillis := range keys {
		cls, ok := l.classes.classes[ttlMillis]
		if !ok {
			// defensive: opLock is held from the snapshot on, so every
			// snapshotted key is still present here.
			continue
		}
		for {
			front := cls.queue.peekFront()
			if front == nil || front.deadline > now {
				break
			}
			cls.queue.unlink(front)
			front.cls = nil
			l.reg.deregister(front.id)
			l.size--
			drained = append(drained, expired{id: front.id, payload: front.payload})
		}
		if cls.queue.isEmpty() {
			l.classes.drop(ttlMillis)
		}
	}
	l.opLock.Unlock()

	// Deliver outside the lock's critical section for the bookkeeping,
	// but still synchronously on this goroutine, so a sink that calls
	// back into Add/Cancel for other ids does not deadlock against
	// itself.
	for _, e := range drained {
		l.sink(e.id, e.payload)
	}
	return len(drained)
}

// Size returns the number of currently live (armed, not yet canceled or
// expired) timers.
func (l *Lawn) Size() int {
	l.opLock.Lock()
	defer l.opLock.Unlock()
	return l.size
}

// Clear removes every live timer without invoking the sink for any of
// them. After Clear returns, Size is 0 and no subsequent Tick can
// produce a callback for a pre-Clear id.
func (l *Lawn) Clear() {
	l.opLock.Lock()
	defer l.opLock.Unlock()
	l.reg.clear()
	l.classes.clear()
	l.size = 0
}
