// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// Boundary-tag layout: bits [63:4] hold the block size (always a multiple
// of 16), the low four bits hold flags. Bit 3 is reserved and always zero.
const (
	wordSize     = 8
	align        = 16
	minBlockSize = 16
	chunkSize    = 1 << 12 // 4096

	curAllocBit  = uint64(1) << 0
	prevAllocBit = uint64(1) << 1
	prevMinBit   = uint64(1) << 2
	tagMask      = uint64(0xf)
)

// pack bit-ORs the three flags into the low four bits of size, which must
// already be a multiple of 16.
func pack(size uint64, prevAlloc, curAlloc, prevMin bool) uint64 {
	w := size &^ tagMask
	if prevAlloc {
		w |= prevAllocBit
	}
	if curAlloc {
		w |= curAllocBit
	}
	if prevMin {
		w |= prevMinBit
	}
	return w
}

func unpackSize(w uint64) int64        { return int64(w &^ tagMask) }
func unpackCurAlloc(w uint64) bool     { return w&curAllocBit != 0 }
func unpackPrevAlloc(w uint64) bool    { return w&prevAllocBit != 0 }
func unpackPrevMin(w uint64) bool      { return w&prevMinBit != 0 }
func unpackAlloc(w uint64) (prev, cur bool) {
	return unpackPrevAlloc(w), unpackCurAlloc(w)
}

// roundUp16 rounds n up to the next multiple of 16.
func roundUp16(n int64) int64 {
	return (n + align - 1) &^ (align - 1)
}

// header returns the header word at block address h.
func header(a Memory, h int64) uint64 { return a.GetWord(h) }

func setHeader(a Memory, h int64, size uint64, prevAlloc, curAlloc, prevMin bool) {
	a.SetWord(h, pack(size, prevAlloc, curAlloc, prevMin))
}

// footerOf returns the address of the footer word of the free block of the
// given size starting at h. Only defined when size > minBlockSize.
func footerOf(h int64, size int64) int64 {
	return h + size - wordSize
}

// blockOfFooter returns the block address owning the footer at address f,
// given the block's size (read from the footer itself by the caller).
func blockOfFooter(f int64, size int64) int64 {
	return f - size + wordSize
}

// nextBlock returns the address of the block physically following the one
// at h with the given size.
func nextBlock(h, size int64) int64 { return h + size }

// prevBlock returns the address of the block physically preceding the one
// at addr, given the prev-min flag of addr's header. It is only valid to call when the
// predecessor is known to exist (h is not the prologue).
//
// When prevMin is set the predecessor is exactly minBlockSize bytes, so its
// address is simply h-minBlockSize: no footer read needed. Otherwise the
// predecessor's footer sits one word below h and is decoded for its size.
// Per the base spec's open question, this function must never be called
// when the predecessor is allocated (it then has no footer); callers gate
// on unpackPrevAlloc first.
func prevBlock(a Memory, addr int64, prevMin bool) int64 {
	if prevMin {
		return addr - minBlockSize
	}

	f := addr - wordSize
	sz := unpackSize(a.GetWord(f))
	return addr - sz
}

// setPrevFlags rewrites the prev-alloc and prev-min bits of the block at
// addr, leaving its size and its own current-alloc bit untouched. Every
// place that creates or resizes a block must call this on the block
// physically following it, so that block's view of its predecessor stays
// accurate.
func setPrevFlags(a Memory, addr int64, prevAlloc, prevMin bool) {
	w := a.GetWord(addr)
	size := uint64(unpackSize(w))
	cur := unpackCurAlloc(w)
	a.SetWord(addr, pack(size, prevAlloc, cur, prevMin))
}
