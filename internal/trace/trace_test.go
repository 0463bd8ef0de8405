// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trace

import (
	"strings"
	"testing"

	"github.com/cznic/vmalloc/block"
)

func TestParseBasic(t *testing.T) {
	src := `
# a comment, and a blank line above

a 1 64
f 1
a 2 128
r 2 256
c 3 4 16
`
	ops, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(ops) != 5 {
		t.Fatalf("len(ops) = %d, want 5", len(ops))
	}
	if ops[0] != (Op{Kind: 'a', ID: 1, Size: 64}) {
		t.Errorf("ops[0] = %+v", ops[0])
	}
	if ops[4] != (Op{Kind: 'c', ID: 3, Count: 4, Size: 16}) {
		t.Errorf("ops[4] = %+v", ops[4])
	}
}

func TestParseMalformedLineStopsAndReportsPrefix(t *testing.T) {
	src := "a 1 64\nbogus line\nf 1\n"
	ops, err := Parse(strings.NewReader(src))
	if err == nil {
		t.Fatal("want an error for the malformed line")
	}
	if len(ops) != 1 {
		t.Fatalf("len(ops) = %d, want 1 (the valid prefix)", len(ops))
	}
}

func TestReplay(t *testing.T) {
	a := block.NewArena(0)
	al, err := block.NewAllocator(a)
	if err != nil {
		t.Fatal(err)
	}

	ops := []Op{
		{Kind: 'a', ID: 1, Size: 64},
		{Kind: 'a', ID: 2, Size: 128},
		{Kind: 'f', ID: 1},
		{Kind: 'c', ID: 3, Count: 4, Size: 8},
		{Kind: 'r', ID: 2, Size: 512},
	}

	st := Replay(al, a, ops, true)
	if st.OpsReplayed != len(ops) {
		t.Fatalf("OpsReplayed = %d, want %d", st.OpsReplayed, len(ops))
	}
	if st.CheckFailures != 0 {
		t.Fatalf("CheckFailures = %d, want 0", st.CheckFailures)
	}
	if st.BytesRequested != 64+128+32+512 {
		t.Fatalf("BytesRequested = %d, want %d", st.BytesRequested, 64+128+32+512)
	}
	if st.PeakHeapSize != a.Hi() {
		t.Fatalf("PeakHeapSize = %d, want %d (final Hi)", st.PeakHeapSize, a.Hi())
	}
}
