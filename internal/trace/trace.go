// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package trace parses and replays allocator workload traces: a simple,
// line-oriented format for driving an Allocator's public operations from a
// text file or a generated sequence, the way the cmd/vmallocdemo driver and
// the package's own tests do.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cznic/vmalloc/block"
)

// Op is one parsed trace line.
//
//	a <id> <size>         allocate, remember the result as id
//	f <id>                free the block remembered as id
//	r <id> <size>         reallocate the block remembered as id, re-key it
//	c <id> <count> <size> zero-allocate, remember the result as id
type Op struct {
	Kind  byte // 'a', 'f', 'r', or 'c'
	ID    int
	Count int64 // only meaningful for 'c'
	Size  int64
}

// Parse reads trace lines from r. Blank lines and lines starting with '#'
// are skipped. Parse returns as many well-formed ops as it finds before the
// first malformed line, along with an error describing that line, so a
// caller can choose to replay a valid prefix.
func Parse(r io.Reader) ([]Op, error) {
	var ops []Op
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		op, err := parseLine(line)
		if err != nil {
			return ops, fmt.Errorf("trace line %d: %w", lineNo, err)
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return ops, err
	}
	return ops, nil
}

func parseLine(line string) (Op, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Op{}, fmt.Errorf("empty line")
	}

	switch fields[0] {
	case "a":
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("want 'a <id> <size>', got %q", line)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return Op{}, err
		}
		size, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: 'a', ID: id, Size: size}, nil

	case "f":
		if len(fields) != 2 {
			return Op{}, fmt.Errorf("want 'f <id>', got %q", line)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: 'f', ID: id}, nil

	case "r":
		if len(fields) != 3 {
			return Op{}, fmt.Errorf("want 'r <id> <size>', got %q", line)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return Op{}, err
		}
		size, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: 'r', ID: id, Size: size}, nil

	case "c":
		if len(fields) != 4 {
			return Op{}, fmt.Errorf("want 'c <id> <count> <size>', got %q", line)
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return Op{}, err
		}
		count, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Op{}, err
		}
		size, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return Op{}, err
		}
		return Op{Kind: 'c', ID: id, Count: count, Size: size}, nil

	default:
		return Op{}, fmt.Errorf("unknown op %q", fields[0])
	}
}

// Stats summarizes a replay.
type Stats struct {
	OpsReplayed    int
	BytesRequested int64
	PeakHeapSize   int64
	CheckFailures  int
}

// Replay runs ops against al in order, tracking each op's id -> payload
// address mapping so that later 'f'/'r' lines can refer back to an earlier
// 'a'/'c' line's result. If verifyEvery is true, al.Verify is run after
// every op and any failure increments Stats.CheckFailures without stopping
// the replay, the same "keep going and count" discipline the grounding
// corpus's own paranoid-allocator test wrapper uses.
func Replay(al *block.Allocator, provider block.Provider, ops []Op, verifyEvery bool) Stats {
	live := map[int]int64{}
	var st Stats

	check := func(line int) {
		if !verifyEvery {
			return
		}
		if !al.Verify(line, nil) {
			st.CheckFailures++
		}
	}

	for i, op := range ops {
		switch op.Kind {
		case 'a':
			p := al.Alloc(op.Size)
			live[op.ID] = p
			st.BytesRequested += op.Size
		case 'f':
			al.Free(live[op.ID])
			delete(live, op.ID)
		case 'r':
			p := al.Realloc(live[op.ID], op.Size)
			live[op.ID] = p
			st.BytesRequested += op.Size
		case 'c':
			p := al.Calloc(op.Count, op.Size)
			live[op.ID] = p
			st.BytesRequested += op.Count * op.Size
		}

		st.OpsReplayed++
		if h := provider.Hi(); h > st.PeakHeapSize {
			st.PeakHeapSize = h
		}
		check(i + 1)
	}

	return st
}
