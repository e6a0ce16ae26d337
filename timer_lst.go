// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

import (
	"github.com/picotera/lawn/internal/diag"
)

// timerNode is the intrusive FIFO link embedded in every live timer.
// A node is either detached (next == nil, prev == nil, not owned by any
// class) or linked into exactly one ttlClass's fifo.
type timerNode struct {
	next, prev *timerNode

	id       uint64
	deadline int64 // absolute deadline, in milliseconds
	payload  interface{}

	cls *ttlClass // the class currently owning this node, or nil if detached
}

func (n *timerNode) detached() bool {
	return n.next == nil && n.prev == nil
}

// fifo is the intrusive doubly linked list backing one TTL class. head is
// used only as the sentinel list head; its id/deadline/payload/cls fields
// are never read.
type fifo struct {
	head timerNode
}

// init initialises an empty (circular) list.
func (f *fifo) init() {
	f.head.next = &f.head
	f.head.prev = &f.head
}

// isEmpty returns true if the list holds no live timers.
func (f *fifo) isEmpty() bool {
	return f.head.next == &f.head
}

// pushTail appends n at the end of the list. n must be detached; this
// preserves the monotone-queue invariant as long as callers only push
// nodes with non-decreasing deadlines for a given class (true for Add,
// since insertion time is monotone and deadline = insert time + ttl).
func (f *fifo) pushTail(n *timerNode) {
	if !n.detached() {
		diag.PANIC("fifo.pushTail called on a linked node: %p\n", n)
	}
	n.prev = f.head.prev
	n.next = &f.head
	n.prev.next = n
	f.head.prev = n
}

// peekFront returns the earliest-deadline node without unlinking it, or
// nil if the list is empty.
func (f *fifo) peekFront() *timerNode {
	if f.isEmpty() {
		return nil
	}
	return f.head.next
}

// unlink removes n from the list in O(1), given only a handle to n. n
// must currently be linked into this list.
func (f *fifo) unlink(n *timerNode) {
	if n == nil || n.detached() {
		diag.PANIC("fifo.unlink called on a detached node: %p\n", n)
	}
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next = nil
	n.prev = nil
}

// popFront unlinks and returns the front node, or nil if the list is
// empty.
func (f *fifo) popFront() *timerNode {
	n := f.peekFront()
	if n == nil {
		return nil
	}
	f.unlink(n)
	return n
}
