// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import "testing"

func TestBucketOf(t *testing.T) {
	cases := map[int64]int{
		16: 0, 17: 1, 32: 1, 33: 2, 48: 2, 64: 3, 65: 4, 128: 4,
		129: 5, 256: 5, 32768: 12, 32769: 13, 1 << 40: 13,
	}
	for size, want := range cases {
		if got := bucketOf(size); got != want {
			t.Errorf("bucketOf(%d) = %d, want %d", size, got, want)
		}
	}
}

func newFreeListArena(t *testing.T, n int64) *Arena {
	t.Helper()
	a := NewArena(0)
	if _, err := a.Extend(n); err != nil {
		t.Fatal(err)
	}
	return a
}

func TestFreeListsMinBucketSingleElement(t *testing.T) {
	a := newFreeListArena(t, 4096)
	var fl freeLists

	const h = 32
	fl.insert(a, h, minBlockSize)
	if fl.head[0] != h {
		t.Fatalf("head[0] = %d, want %d", fl.head[0], h)
	}
	if getNext(a, h) != h {
		t.Fatalf("singleton min block must point to itself, got %d", getNext(a, h))
	}

	fl.remove(a, h, minBlockSize)
	if fl.head[0] != 0 {
		t.Fatalf("head[0] after remove = %d, want 0", fl.head[0])
	}
}

func TestFreeListsMinBucketMultipleLIFO(t *testing.T) {
	a := newFreeListArena(t, 4096)
	var fl freeLists

	fl.insert(a, 32, minBlockSize)
	fl.insert(a, 64, minBlockSize)
	fl.insert(a, 96, minBlockSize)

	if fl.head[0] != 96 {
		t.Fatalf("head[0] = %d, want 96 (LIFO)", fl.head[0])
	}

	// Cycle should visit 96 -> 64 -> 32 -> 96.
	seen := []int64{fl.head[0]}
	for p := getNext(a, fl.head[0]); p != fl.head[0]; p = getNext(a, p) {
		seen = append(seen, p)
	}
	want := []int64{96, 64, 32}
	if len(seen) != len(want) {
		t.Fatalf("cycle length = %d, want %d", len(seen), len(want))
	}
	for i, v := range want {
		if seen[i] != v {
			t.Fatalf("cycle[%d] = %d, want %d", i, seen[i], v)
		}
	}

	fl.remove(a, 64, minBlockSize) // remove from the middle
	if getNext(a, 96) != 32 {
		t.Fatalf("after removing middle element, 96's next = %d, want 32", getNext(a, 96))
	}
}

func TestFreeListsDoublyLinkedBucket(t *testing.T) {
	a := newFreeListArena(t, 4096)
	var fl freeLists

	const size = 64 // bucket 3, doubly linked
	fl.insert(a, 32, size)
	fl.insert(a, 96, size)
	fl.insert(a, 160, size)

	head := fl.head[bucketOf(size)]
	if head != 160 {
		t.Fatalf("head = %d, want 160 (LIFO)", head)
	}
	if getPrev(a, head) != 32 {
		t.Fatalf("head.prev = %d, want 32 (tail, circular)", getPrev(a, head))
	}

	fl.remove(a, 96, size) // remove middle element
	if getNext(a, 160) != 32 {
		t.Fatalf("after removing 96, 160.next = %d, want 32", getNext(a, 160))
	}
	if getPrev(a, 32) != 160 {
		t.Fatalf("after removing 96, 32.prev = %d, want 160", getPrev(a, 32))
	}

	fl.remove(a, 160, size) // remove head
	if fl.head[bucketOf(size)] != 32 {
		t.Fatalf("head after removing old head = %d, want 32", fl.head[bucketOf(size)])
	}

	fl.remove(a, 32, size) // remove last element
	if fl.head[bucketOf(size)] != 0 {
		t.Fatalf("head after removing last element = %d, want 0", fl.head[bucketOf(size)])
	}
}
