// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// coalesce merges the free block at addr (already written as free, with
// size bytes, not yet present in any bucket) with any physically adjacent
// free neighbor, inserts the survivor into its bucket, and propagates the
// survivor's prev-alloc/prev-min flags to whatever follows it. It returns
// the survivor's address and size. This implements the base spec's §4.5
// four-case policy; the four cases fall out of two independent booleans
// (predecessor free, successor free) rather than an explicit switch.
func coalesce(fl *freeLists, mem Memory, addr, size int64) (int64, int64) {
	hdr := header(mem, addr)
	prevAlloc := unpackPrevAlloc(hdr)
	prevMin := unpackPrevMin(hdr)

	next := nextBlock(addr, size)
	nextHdr := header(mem, next)
	nextFree := !unpackCurAlloc(nextHdr)
	nextSize := unpackSize(nextHdr)

	var predFree bool
	var predAddr, predSize int64
	var predPrevAlloc, predPrevMin bool
	if !prevAlloc {
		predAddr = prevBlock(mem, addr, prevMin)
		predHdr := header(mem, predAddr)
		predSize = unpackSize(predHdr)
		predPrevAlloc = unpackPrevAlloc(predHdr)
		predPrevMin = unpackPrevMin(predHdr)
		predFree = true
	}

	mergedAddr, mergedSize := addr, size
	mergedPrevAlloc, mergedPrevMin := prevAlloc, prevMin

	if predFree {
		fl.remove(mem, predAddr, predSize)
		mergedAddr = predAddr
		mergedSize += predSize
		mergedPrevAlloc, mergedPrevMin = predPrevAlloc, predPrevMin
	}
	if nextFree {
		fl.remove(mem, next, nextSize)
		mergedSize += nextSize
	}

	setHeader(mem, mergedAddr, uint64(mergedSize), mergedPrevAlloc, false, mergedPrevMin)
	if mergedSize > minBlockSize {
		mem.SetWord(footerOf(mergedAddr, mergedSize), pack(uint64(mergedSize), mergedPrevAlloc, false, mergedPrevMin))
	}
	fl.insert(mem, mergedAddr, mergedSize)

	setPrevFlags(mem, nextBlock(mergedAddr, mergedSize), false, mergedSize == minBlockSize)

	return mergedAddr, mergedSize
}

// extend grows the heap to satisfy a request of at least n bytes, rounding
// up to a multiple of 16 and to at least chunkSize, per the base spec's
// §4.6. The new region becomes one free block at the old epilogue's
// address, which is then coalesced with its (possibly free) physical
// predecessor; a fresh epilogue word is written at the new heap end.
func extend(fl *freeLists, mem Memory, n int64) error {
	grow := roundUp16(n)
	if grow < chunkSize {
		grow = chunkSize
	}

	oldHi, err := mem.Extend(grow)
	if err != nil {
		return err
	}

	epilogueAddr := oldHi - wordSize
	oldEpilogue := header(mem, epilogueAddr)
	prevAlloc := unpackPrevAlloc(oldEpilogue)
	prevMin := unpackPrevMin(oldEpilogue)

	setHeader(mem, epilogueAddr, uint64(grow), prevAlloc, false, prevMin)
	if grow > minBlockSize {
		mem.SetWord(footerOf(epilogueAddr, grow), pack(uint64(grow), prevAlloc, false, prevMin))
	}

	newEpilogueAddr := epilogueAddr + grow
	setHeader(mem, newEpilogueAddr, 0, false, true, false)

	coalesce(fl, mem, epilogueAddr, grow)
	return nil
}
