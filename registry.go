// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

// registry is the timer registry: the single source of truth for which
// timer ids are currently live. A timer is live iff it has an entry here,
// and an entry here iff its node is linked into some class's fifo.
type registry struct {
	nextID  uint64
	entries map[uint64]*timerNode
}

func newRegistry() *registry {
	return &registry{entries: make(map[uint64]*timerNode)}
}

// register assigns a fresh monotonically increasing id to n, stores it,
// and returns the id. Wrap-around is not a concern: at one register() per
// nanosecond it would take over 500 years to exhaust 64 bits.
func (r *registry) register(n *timerNode) uint64 {
	r.nextID++
	id := r.nextID
	n.id = id
	r.entries[id] = n
	return id
}

// lookup returns the node for id, or nil if it is not currently live.
func (r *registry) lookup(id uint64) *timerNode {
	return r.entries[id]
}

// deregister removes id from the registry. Idempotent: deregistering an
// id that is not present is a no-op.
func (r *registry) deregister(id uint64) {
	delete(r.entries, id)
}

// size returns the number of live timers.
func (r *registry) size() int {
	return len(r.entries)
}

// clear drops every entry without touching any fifo or payload.
func (r *registry) clear() {
	r.entries = make(map[uint64]*timerNode)
}
