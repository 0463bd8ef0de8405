// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// searchLimit bounds how many blocks a single bucket scan visits before
// settling for its best candidate so far, per the base spec's §4.3
// "best-of-first-16" policy.
const searchLimit = 16

// nearPerfectExcess is the excess, in bytes, at or below which a candidate
// is returned immediately instead of being merely remembered.
const nearPerfectExcess = 16

// findFit walks the bucket ladder starting from asize's own bucket,
// returning the address of a free block of size >= asize, or 0 if none is
// found. Each bucket scan visits at most searchLimit blocks, so a fitting
// block further along asize's own bucket is not seen.
func (fl *freeLists) findFit(a Memory, asize int64) int64 {
	for i := bucketOf(asize); i < numBuckets; i++ {
		head := fl.head[i]
		if head == 0 {
			continue
		}

		if addr := scanBucket(a, head, asize); addr != 0 {
			return addr
		}
	}
	return 0
}

// scanBucket implements the bounded better-fit scan of a single bucket's
// circular list (the link word used is the same for singly- and
// doubly-linked buckets, so this needs no notion of bucket kind). It
// tracks a single best candidate (bestAddr, bestExcess), with bestExcess
// starting at the largest int64 so the first qualifying block is always
// accepted and no separate init flag is needed.
func scanBucket(a Memory, head, asize int64) int64 {
	var bestAddr int64
	bestExcess := int64(1<<63 - 1)

	addr := head
	for visited := 0; visited < searchLimit; visited++ {
		size := unpackSize(header(a, addr))
		if size >= asize {
			excess := size - asize
			if excess <= nearPerfectExcess {
				return addr
			}
			if excess < bestExcess {
				bestAddr, bestExcess = addr, excess
			}
		}

		next := getNext(a, addr)
		if next == head {
			break
		}
		addr = next
	}

	return bestAddr
}

// split allocates asize bytes out of the free block at addr (of total
// size), which has already been unlinked from its bucket. If the remainder
// is at least minBlockSize it becomes a new free block, inserted into its
// bucket; otherwise the whole block is allocated. It updates the header of
// the block physically following the result so its prev-alloc/prev-min
// bits stay accurate, per the base spec's §4.4/§4.5/§9 propagation rule.
//
// prevAlloc and prevMin describe addr's own predecessor, preserved across
// the split since neither the head nor the tail changes its physical
// predecessor identity.
func split(fl *freeLists, a Memory, addr, size, asize int64, prevAlloc, prevMin bool) {
	remainder := size - asize

	if remainder < minBlockSize {
		setHeader(a, addr, uint64(size), prevAlloc, true, prevMin)
		setPrevFlags(a, nextBlock(addr, size), true, size == minBlockSize)
		return
	}

	setHeader(a, addr, uint64(asize), prevAlloc, true, prevMin)

	tail := nextBlock(addr, asize)
	tailPrevMin := asize == minBlockSize
	setHeader(a, tail, uint64(remainder), true, false, tailPrevMin)
	if remainder > minBlockSize {
		a.SetWord(footerOf(tail, remainder), pack(uint64(remainder), true, false, tailPrevMin))
	}
	fl.insert(a, tail, remainder)

	setPrevFlags(a, nextBlock(tail, remainder), false, remainder == minBlockSize)
}
