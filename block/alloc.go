// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// Allocator is a segregated-free-list, boundary-tag allocator over a
// Memory-backed address space. The zero value is not usable; construct one
// with NewAllocator. An Allocator is not safe for concurrent use: it is
// designed for consumption from one goroutine only, or behind a mutex
// supplied by the caller, exactly as the corpus this package is grounded on
// documents for its own single-writer abstractions.
type Allocator struct {
	mem Memory
	fl  freeLists
}

// NewAllocator reserves the prologue and epilogue sentinels from mem,
// extends the heap by one chunk of free space, and returns a ready-to-use
// Allocator. mem must be freshly created (Hi() == Lo()); reopening an
// existing populated Memory is not supported, since this allocator carries
// no durable free-list table of its own, consistent with the base spec's
// single-process, in-memory framing.
func NewAllocator(mem Memory) (*Allocator, error) {
	old, err := mem.Extend(2 * wordSize)
	if err != nil {
		return nil, err
	}

	prologueAddr := old
	epilogueAddr := old + wordSize
	setHeader(mem, prologueAddr, 0, true, true, false)
	setHeader(mem, epilogueAddr, 0, true, true, false)

	al := &Allocator{mem: mem}
	if err := extend(&al.fl, mem, chunkSize); err != nil {
		return nil, err
	}
	return al, nil
}

// Alloc returns the address of a newly allocated payload of at least n
// bytes, or 0 (the null sentinel) if n <= 0 or the heap provider is out of
// memory.
func (al *Allocator) Alloc(n int64) int64 {
	if n <= 0 {
		return 0
	}

	asize := roundUp16(n + wordSize)
	if asize < minBlockSize {
		asize = minBlockSize
	}

	addr := al.fl.findFit(al.mem, asize)
	if addr == 0 {
		grow := asize
		if grow < chunkSize {
			grow = chunkSize
		}
		if err := extend(&al.fl, al.mem, grow); err != nil {
			return 0
		}
		if addr = al.fl.findFit(al.mem, asize); addr == 0 {
			return 0
		}
	}

	hdr := header(al.mem, addr)
	size := unpackSize(hdr)
	prevAlloc := unpackPrevAlloc(hdr)
	prevMin := unpackPrevMin(hdr)

	al.fl.remove(al.mem, addr, size)
	split(&al.fl, al.mem, addr, size, asize, prevAlloc, prevMin)

	return addr + wordSize
}

// Free deallocates the block whose payload starts at p. p == 0 is a no-op.
// p must have been returned by Alloc, Calloc or Realloc and not already
// freed; passing any other value is undefined and may corrupt the heap, the
// same contract the grounding corpus documents for its own handle-based
// Free.
func (al *Allocator) Free(p int64) {
	if p == 0 {
		return
	}

	addr := p - wordSize
	hdr := header(al.mem, addr)
	size := unpackSize(hdr)
	prevAlloc := unpackPrevAlloc(hdr)
	prevMin := unpackPrevMin(hdr)

	setHeader(al.mem, addr, uint64(size), prevAlloc, false, prevMin)
	if size > minBlockSize {
		al.mem.SetWord(footerOf(addr, size), pack(uint64(size), prevAlloc, false, prevMin))
	}
	setPrevFlags(al.mem, nextBlock(addr, size), false, size == minBlockSize)

	coalesce(&al.fl, al.mem, addr, size)
}

// Realloc resizes the block whose payload starts at p to hold at least n
// bytes. n == 0 frees p and returns 0. p == 0 behaves as Alloc(n). On
// success the leading min(old payload size, n) bytes of the old payload are
// preserved at the (possibly different) returned address and p must not be
// used again. On out-of-memory failure, 0 is returned and p is left
// untouched.
func (al *Allocator) Realloc(p, n int64) int64 {
	if n <= 0 {
		al.Free(p)
		return 0
	}
	if p == 0 {
		return al.Alloc(n)
	}

	newP := al.Alloc(n)
	if newP == 0 {
		return 0
	}

	oldAddr := p - wordSize
	oldSize := unpackSize(header(al.mem, oldAddr))
	oldPayload := oldSize - wordSize

	copyN := n
	if oldPayload < copyN {
		copyN = oldPayload
	}
	al.mem.Copy(newP, p, copyN)
	al.Free(p)
	return newP
}

// Calloc allocates space for count objects of size bytes each, zeroed. It
// returns 0 if count or size is negative, if count == 0, or if count*size
// overflows int64, all without invoking the heap provider.
func (al *Allocator) Calloc(count, size int64) int64 {
	if count < 0 || size < 0 {
		return 0
	}

	total := count * size
	if count != 0 && total/count != size {
		return 0
	}

	p := al.Alloc(total)
	if p == 0 {
		return 0
	}

	al.mem.Fill(p, 0, total)
	return p
}
