// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"encoding/binary"

	"github.com/cznic/mathutil"
)

// Provider is the narrow heap-extension primitive the block manager
// consumes. It never sees block structure, bucket indices or boundary
// tags; only a linear, monotonically growable address range.
type Provider interface {
	// Lo returns the lowest address of the space. It never changes.
	Lo() int64
	// Hi returns one past the highest address currently mapped.
	Hi() int64
	// Extend grows the space by exactly n bytes (n must be a positive
	// multiple of 16) and returns the old Hi(), i.e. the address of the
	// first newly mapped byte. It returns ErrOutOfMemory if the space
	// cannot grow by n bytes.
	Extend(n int64) (int64, error)
}

// Bytes is the byte-wise copy/fill primitive the block manager consumes
// for Realloc and Calloc. It is intentionally as narrow as memmove/memset.
type Bytes interface {
	// Copy copies n bytes from src to dst. The ranges may overlap.
	Copy(dst, src, n int64)
	// Fill sets n bytes starting at dst to c.
	Fill(dst int64, c byte, n int64)
}

// Memory is the complete surface the block manager needs from a backing
// store: heap extension (Provider), byte copy/fill (Bytes), and direct
// word access for header/footer/free-list-link manipulation. Provider and
// Bytes alone are everything an external caller supplying their own
// backing store would plausibly implement; GetWord/SetWord are
// lower-level plumbing that only Arena (or a test double standing in for
// it) needs to provide.
type Memory interface {
	Provider
	Bytes
	// GetWord reads the little-endian uint64 at byte offset off.
	GetWord(off int64) uint64
	// SetWord writes v as a little-endian uint64 at byte offset off.
	SetWord(off int64, v uint64)
}

const (
	pgBits = 12
	pgSize = 1 << pgBits
	pgMask = pgSize - 1
)

type arenaPage = [pgSize]byte

var zeroPage arenaPage

// Arena is a page-indexed, lazily-populated simulation of a contiguous
// address space. Pages are allocated on first write and read back as all
// zero bytes before that, the same discipline lldb.MemFiler uses for its
// in-memory Filer implementation. An Arena with maxSize > 0 refuses to
// Extend past that size, which is how tests drive the allocator's
// out-of-memory path deterministically.
type Arena struct {
	pages   map[int64]*arenaPage
	size    int64
	maxSize int64 // 0 means unbounded
}

var (
	_ Provider = (*Arena)(nil)
	_ Bytes    = (*Arena)(nil)
	_ Memory   = (*Arena)(nil)
)

// NewArena returns an empty Arena. maxSize, if positive, bounds how far
// Extend is willing to grow the space; zero means unbounded (subject only
// to actual process memory).
func NewArena(maxSize int64) *Arena {
	return &Arena{pages: make(map[int64]*arenaPage), maxSize: maxSize}
}

// Lo implements Provider.
func (a *Arena) Lo() int64 { return 0 }

// Hi implements Provider.
func (a *Arena) Hi() int64 { return a.size }

// Extend implements Provider.
func (a *Arena) Extend(n int64) (int64, error) {
	if n <= 0 || n%16 != 0 {
		return 0, &InvalidArgError{"Arena.Extend: n must be a positive multiple of 16", n}
	}

	old := a.size
	next := old + n
	if a.maxSize > 0 && next > a.maxSize {
		return 0, ErrOutOfMemory
	}

	a.size = next
	return old, nil
}

func (a *Arena) page(off int64, write bool) *arenaPage {
	pg := off >> pgBits
	p := a.pages[pg]
	if p == nil {
		if !write {
			return &zeroPage
		}
		p = &arenaPage{}
		a.pages[pg] = p
	}
	return p
}

// GetWord reads the little-endian uint64 at byte offset off. off must be
// 8-byte aligned; since pgSize is a multiple of 8 the word never straddles
// a page boundary.
func (a *Arena) GetWord(off int64) uint64 {
	p := a.page(off, false)
	o := off & pgMask
	return binary.LittleEndian.Uint64(p[o : o+wordSize])
}

// SetWord writes v as a little-endian uint64 at byte offset off.
func (a *Arena) SetWord(off int64, v uint64) {
	p := a.page(off, true)
	o := off & pgMask
	binary.LittleEndian.PutUint64(p[o:o+wordSize], v)
}

// Copy implements Bytes. Overlapping ranges are handled by choosing a scan
// direction the same way the standard library's copy does.
func (a *Arena) Copy(dst, src, n int64) {
	if n <= 0 || dst == src {
		return
	}

	if dst < src || dst >= src+n {
		for n > 0 {
			sPg, dPg := a.page(src, false), a.page(dst, true)
			sOff, dOff := src&pgMask, dst&pgMask
			chunk := mathutil.MinInt64(n, mathutil.MinInt64(pgSize-sOff, pgSize-dOff))
			copy(dPg[dOff:dOff+chunk], sPg[sOff:sOff+chunk])
			src += chunk
			dst += chunk
			n -= chunk
		}
		return
	}

	// Overlapping, dst > src: copy back to front.
	for n > 0 {
		end := n
		sOff, dOff := (src+n-1)&pgMask+1, (dst+n-1)&pgMask+1
		chunk := mathutil.MinInt64(end, mathutil.MinInt64(sOff, dOff))
		sBase, dBase := src+n-chunk, dst+n-chunk
		sPg, dPg := a.page(sBase, false), a.page(dBase, true)
		sO, dO := sBase&pgMask, dBase&pgMask
		copy(dPg[dO:dO+chunk], sPg[sO:sO+chunk])
		n -= chunk
	}
}

// Fill implements Bytes.
func (a *Arena) Fill(dst int64, c byte, n int64) {
	if n <= 0 {
		return
	}

	fillByte := [pgSize]byte{}
	if c != 0 {
		for i := range fillByte {
			fillByte[i] = c
		}
	}

	for n > 0 {
		p := a.page(dst, true)
		o := dst & pgMask
		chunk := mathutil.MinInt64(n, pgSize-o)
		copy(p[o:o+chunk], fillByte[:chunk])
		dst += chunk
		n -= chunk
	}
}
