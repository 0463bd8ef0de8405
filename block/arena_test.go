// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import "testing"

func TestArenaExtend(t *testing.T) {
	a := NewArena(0)
	if got := a.Lo(); got != 0 {
		t.Fatalf("Lo() = %d, want 0", got)
	}
	if got := a.Hi(); got != 0 {
		t.Fatalf("Hi() = %d, want 0", got)
	}

	old, err := a.Extend(64)
	if err != nil {
		t.Fatal(err)
	}
	if old != 0 {
		t.Fatalf("Extend returned old Hi %d, want 0", old)
	}
	if got := a.Hi(); got != 64 {
		t.Fatalf("Hi() after Extend = %d, want 64", got)
	}

	old, err = a.Extend(16)
	if err != nil {
		t.Fatal(err)
	}
	if old != 64 {
		t.Fatalf("second Extend returned old Hi %d, want 64", old)
	}
}

func TestArenaExtendRejectsBadSize(t *testing.T) {
	a := NewArena(0)
	for _, n := range []int64{0, -16, 1, 15, 17} {
		if _, err := a.Extend(n); err == nil {
			t.Fatalf("Extend(%d): want error, got nil", n)
		}
	}
}

func TestArenaExtendOutOfMemory(t *testing.T) {
	a := NewArena(32)
	if _, err := a.Extend(32); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Extend(16); err != ErrOutOfMemory {
		t.Fatalf("Extend past maxSize: got %v, want ErrOutOfMemory", err)
	}
}

func TestArenaWordRoundTrip(t *testing.T) {
	a := NewArena(0)
	if _, err := a.Extend(4096 * 2); err != nil {
		t.Fatal(err)
	}

	offs := []int64{0, 8, 4088, 4096, 4096 + 8, 8184}
	for _, off := range offs {
		a.SetWord(off, uint64(off)*7+1)
	}
	for _, off := range offs {
		want := uint64(off)*7 + 1
		if got := a.GetWord(off); got != want {
			t.Errorf("GetWord(%d) = %d, want %d", off, got, want)
		}
	}
}

func TestArenaUnwrittenPageReadsZero(t *testing.T) {
	a := NewArena(0)
	if _, err := a.Extend(4096); err != nil {
		t.Fatal(err)
	}
	if got := a.GetWord(16); got != 0 {
		t.Fatalf("GetWord on untouched page = %d, want 0", got)
	}
}

func byteAt(a *Arena, off int64) byte {
	base := off &^ 7
	w := a.GetWord(base)
	shift := uint((off - base) * 8)
	return byte(w >> shift)
}

func TestArenaCopyNonOverlapping(t *testing.T) {
	a := NewArena(0)
	if _, err := a.Extend(4096 * 2); err != nil {
		t.Fatal(err)
	}

	src := int64(16) // same offset on the first and on the second page
	dst := int64(4096 + 16)
	a.Fill(src, 0xAB, 96)
	a.Copy(dst, src, 96)

	for i := int64(0); i < 96; i++ {
		if got := byteAt(a, dst+i); got != 0xAB {
			t.Fatalf("byte at dst+%d = %#x, want 0xab", i, got)
		}
	}
}

func TestArenaCopyOverlappingForward(t *testing.T) {
	a := NewArena(0)
	if _, err := a.Extend(4096); err != nil {
		t.Fatal(err)
	}

	a.SetWord(0, 0x1111111111111111)
	a.SetWord(8, 0x2222222222222222)
	a.SetWord(16, 0x3333333333333333)

	// Shift a 24-byte region right by 8 bytes (dst > src, overlapping).
	a.Copy(8, 0, 24)

	if got := a.GetWord(8); got != 0x1111111111111111 {
		t.Fatalf("GetWord(8) = %#x, want 0x1111111111111111", got)
	}
	if got := a.GetWord(16); got != 0x2222222222222222 {
		t.Fatalf("GetWord(16) = %#x, want 0x2222222222222222", got)
	}
}

func TestArenaFill(t *testing.T) {
	a := NewArena(0)
	if _, err := a.Extend(4096); err != nil {
		t.Fatal(err)
	}
	a.Fill(0, 0xFF, 16)
	if got := a.GetWord(0); got != 0xFFFFFFFFFFFFFFFF {
		t.Fatalf("GetWord(0) after Fill(0xFF) = %#x", got)
	}
	if got := a.GetWord(8); got != 0xFFFFFFFFFFFFFFFF {
		t.Fatalf("GetWord(8) after Fill(0xFF) = %#x", got)
	}
}
