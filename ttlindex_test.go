// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package lawn

import "testing"

func TestClassMapGetOrCreate(t *testing.T) {
	m := newClassMap()

	c1 := m.getOrCreate(100)
	c2 := m.getOrCreate(100)
	if c1 != c2 {
		t.Fatalf("getOrCreate(100) returned two different classes")
	}
	if c1.ttlMillis != 100 {
		t.Fatalf("class ttlMillis = %d, want 100", c1.ttlMillis)
	}
}

func TestClassMapIndexMembership(t *testing.T) {
	m := newClassMap()
	m.getOrCreate(50)
	m.markNonEmpty(50)

	if !m.nonEmpty.Contains(50) {
		t.Fatalf("index does not contain 50 after markNonEmpty")
	}
	got := m.snapshot()
	if len(got) != 1 || got[0] != 50 {
		t.Fatalf("snapshot() = %v, want [50]", got)
	}

	m.drop(50)
	if m.nonEmpty.Contains(50) {
		t.Fatalf("index still contains 50 after drop")
	}
	if _, ok := m.classes[50]; ok {
		t.Fatalf("classes map still contains 50 after drop")
	}
}

func TestClassMapSnapshotSafeDuringIteration(t *testing.T) {
	m := newClassMap()
	for _, ttl := range []int64{1, 2, 3} {
		m.getOrCreate(ttl)
		m.markNonEmpty(ttl)
	}

	snap := m.snapshot()
	// dropping a key after the snapshot was taken must not panic or
	// affect iteration over the already-taken slice.
	m.drop(2)
	seen := map[int64]bool{}
	for _, ttl := range snap {
		seen[ttl] = true
	}
	if !seen[1] || !seen[2] || !seen[3] {
		t.Fatalf("snapshot missing entries: %v", snap)
	}
	if len(m.snapshot()) != 2 {
		t.Fatalf("live index after drop = %v, want 2 entries", m.snapshot())
	}
}

func TestClassMapClear(t *testing.T) {
	m := newClassMap()
	for _, ttl := range []int64{1, 2, 3} {
		m.getOrCreate(ttl)
		m.markNonEmpty(ttl)
	}
	m.clear()
	if len(m.classes) != 0 {
		t.Fatalf("classes not empty after clear")
	}
	if m.nonEmpty.Cardinality() != 0 {
		t.Fatalf("index not empty after clear")
	}
}
