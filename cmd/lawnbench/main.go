// Copyright 2021 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a BSD-style license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command lawnbench runs the insertion/deletion/tick workloads used to
// compare the lawn package against the internal/wheelref comparison
// wheel, printing per-operation mean latencies to stdout.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	kingpin "github.com/alecthomas/kingpin/v2"

	"github.com/picotera/lawn"
	"github.com/picotera/lawn/internal/wheelref"
)

func randomTTL(r *rand.Rand) time.Duration {
	// Mirrors the source workload: a TTL uniformly in [100ms, 10s).
	return time.Duration(100+r.Intn(9900)) * time.Millisecond
}

type dataStructure interface {
	add(ttl time.Duration) uint64
	remove(id uint64) bool
	tick() int
	size() int
}

type lawnDS struct{ l *lawn.Lawn }

func newLawnDS() *lawnDS {
	return &lawnDS{l: lawn.New(func(uint64, interface{}) {})}
}
func (d *lawnDS) add(ttl time.Duration) uint64 {
	id, err := d.l.Add(ttl, nil)
	if err != nil {
		panic(err)
	}
	return id
}
func (d *lawnDS) remove(id uint64) bool { return d.l.Cancel(id) }
func (d *lawnDS) tick() int             { return d.l.Tick() }
func (d *lawnDS) size() int             { return d.l.Size() }

type wheelDS struct{ w *wheelref.Wheel }

const wheelTickSize = 100 * time.Millisecond

func newWheelDS(slots int) *wheelDS { return &wheelDS{w: wheelref.New(slots)} }
func (d *wheelDS) add(ttl time.Duration) uint64 {
	ticks := int(ttl / wheelTickSize)
	return d.w.Schedule(ticks, nil)
}
func (d *wheelDS) remove(id uint64) bool { return d.w.Cancel(id) == nil }
func (d *wheelDS) tick() int             { return d.w.Tick(func(uint64, interface{}) {}) }
func (d *wheelDS) size() int             { return d.w.Size() }

func benchInsertion(ds dataStructure, n int, r *rand.Rand) time.Duration {
	start := time.Now()
	for i := 0; i < n; i++ {
		ds.add(randomTTL(r))
	}
	return time.Since(start) / time.Duration(n)
}

func benchDeletion(ds dataStructure, n int, r *rand.Rand) time.Duration {
	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = ds.add(randomTTL(r))
	}
	r.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	start := time.Now()
	for _, id := range ids {
		ds.remove(id)
	}
	return time.Since(start) / time.Duration(n)
}

func benchTick(ds dataStructure, n int, r *rand.Rand) time.Duration {
	for i := 0; i < n; i++ {
		ds.add(randomTTL(r))
	}
	var total time.Duration
	var ticks int
	for ds.size() > 0 {
		start := time.Now()
		ds.tick()
		total += time.Since(start)
		ticks++
		time.Sleep(10 * time.Millisecond)
	}
	if ticks == 0 {
		return 0
	}
	return total / time.Duration(ticks)
}

func run() error {
	app := kingpin.New("lawnbench", "Compare lawn against a single-level hashed wheel")
	app.HelpFlag.Short('h')

	workload := app.Flag("workload", "insert, delete or tick").Default("tick").Enum("insert", "delete", "tick")
	numTimers := app.Flag("timers", "number of timers to exercise").Default("100000").Int()
	wheelSlots := app.Flag("wheel-slots", "slot count for the comparison wheel").Default("512").Int()
	seed := app.Flag("seed", "PRNG seed").Default("1").Int64()

	if _, err := app.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	r := rand.New(rand.NewSource(*seed))
	var bench func(dataStructure, int, *rand.Rand) time.Duration
	switch *workload {
	case "insert":
		bench = benchInsertion
	case "delete":
		bench = benchDeletion
	case "tick":
		bench = benchTick
	}

	lawnMean := bench(newLawnDS(), *numTimers, r)
	wheelMean := bench(newWheelDS(*wheelSlots), *numTimers, r)

	fmt.Printf("workload=%s timers=%d\n", *workload, *numTimers)
	fmt.Printf("  lawn:  %v/op\n", lawnMean)
	fmt.Printf("  wheel: %v/op\n", wheelMean)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
