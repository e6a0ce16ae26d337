// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// classMap is the TTL-Class Map (§4.2) together with the TTL Iteration
// Index (§4.3): a map from ttl (in milliseconds) to its class, plus a
// set of the ttl keys whose class is currently non-empty. The set half
// is what Tick snapshots to iterate safely while classes may be dropped
// mid-iteration.
type classMap struct {
	classes  map[int64]*ttlClass
	nonEmpty mapset.Set[int64]
}

func newClassMap() *classMap {
	return &classMap{
		classes:  make(map[int64]*ttlClass),
		nonEmpty: mapset.NewThreadUnsafeSet[int64](),
	}
}

// getOrCreate returns the class for ttlMillis, creating an empty one on
// first use. It does not touch the iteration index: the caller indexes
// the class with markNonEmpty once a node has been pushed into it.
func (m *classMap) getOrCreate(ttlMillis int64) *ttlClass {
	c, ok := m.classes[ttlMillis]
	if !ok {
		c = newTTLClass(ttlMillis)
		m.classes[ttlMillis] = c
	}
	return c
}

// markNonEmpty adds ttlMillis to the iteration index. Called after a
// push whenever the class might have just become non-empty.
func (m *classMap) markNonEmpty(ttlMillis int64) {
	m.nonEmpty.Add(ttlMillis)
}

// drop removes ttlMillis from both the class map and the iteration
// index. Precondition: the class is empty.
func (m *classMap) drop(ttlMillis int64) {
	delete(m.classes, ttlMillis)
	m.nonEmpty.Remove(ttlMillis)
}

// snapshot returns the ttl keys that were non-empty at the time of the
// call, safe to range over even if classes are dropped from the index
// while the caller is iterating the returned slice.
func (m *classMap) snapshot() []int64 {
	return m.nonEmpty.ToSlice()
}

// clear empties both the class map and the iteration index.
func (m *classMap) clear() {
	m.classes = make(map[int64]*ttlClass)
	m.nonEmpty.Clear()
}
