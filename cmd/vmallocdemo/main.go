// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command vmallocdemo drives a block.Allocator against either a trace file
// or a generated random workload, reporting a one-line summary.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"

	"github.com/cznic/vmalloc/block"
	"github.com/cznic/vmalloc/internal/trace"
)

var (
	tracePath = flag.String("trace", "", "replay this trace file instead of a generated workload")
	n         = flag.Int("n", 1000, "number of operations in a generated workload")
	maxSize   = flag.Int64("maxsize", 2048, "maximum single allocation size in a generated workload")
	heapCap   = flag.Int64("heapcap", 0, "bound the simulated heap to this many bytes (0 = unbounded)")
	verify    = flag.Bool("verify", true, "run the integrity checker after every operation")
	seed      = flag.Int64("seed", 1, "random seed for a generated workload")
)

func main() {
	flag.Parse()

	var ops []trace.Op
	if *tracePath != "" {
		f, err := os.Open(*tracePath)
		if err != nil {
			log.Fatalf("opening trace: %v", err)
		}
		defer f.Close()

		ops, err = trace.Parse(f)
		if err != nil {
			log.Fatalf("parsing trace: %v", err)
		}
	} else {
		ops = generate(*n, *maxSize, *seed)
	}

	a := block.NewArena(*heapCap)
	al, err := block.NewAllocator(a)
	if err != nil {
		log.Fatalf("NewAllocator: %v", err)
	}

	st := trace.Replay(al, a, ops, *verify)
	log.Printf("ops=%d bytes_requested=%d peak_heap=%d check_failures=%d",
		st.OpsReplayed, st.BytesRequested, st.PeakHeapSize, st.CheckFailures)

	if st.CheckFailures > 0 {
		os.Exit(1)
	}
}

// generate produces a bounded random sequence of allocate/free/reallocate
// operations: every id is allocated once before it is ever freed or
// reallocated, and no id is reused after being freed.
func generate(n int, maxSize int64, seed int64) []trace.Op {
	rnd := rand.New(rand.NewSource(seed))
	ops := make([]trace.Op, 0, n)
	var live []int
	nextID := 0

	for i := 0; i < n; i++ {
		switch {
		case len(live) == 0 || rnd.Intn(3) != 0:
			id := nextID
			nextID++
			ops = append(ops, trace.Op{Kind: 'a', ID: id, Size: 1 + rnd.Int63n(maxSize)})
			live = append(live, id)

		case rnd.Intn(2) == 0:
			idx := rnd.Intn(len(live))
			ops = append(ops, trace.Op{Kind: 'f', ID: live[idx]})
			live = append(live[:idx], live[idx+1:]...)

		default:
			idx := rnd.Intn(len(live))
			ops = append(ops, trace.Op{Kind: 'r', ID: live[idx], Size: 1 + rnd.Int63n(maxSize)})
		}
	}
	return ops
}
