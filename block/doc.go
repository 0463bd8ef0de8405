// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package block implements a general-purpose dynamic memory allocator for a
single-threaded process, running atop a minimal, pluggable heap-extension
primitive.

The package exposes the conventional quartet of operations (Alloc, Free,
Realloc, Calloc) over a contiguous, monotonically growable address space
supplied by a Provider. A Provider is deliberately narrow: Lo and Hi report
the current bounds of the space and Extend grows it; nothing else is
required of it, and the package ships a ready-to-use in-process Arena that
implements Provider (and the companion Bytes primitive) as a page-indexed
simulated heap, so no real OS heap is needed to use or test an Allocator.

Addressing

There is no pointer type. Every address, of a block, of a payload, of a
free-list link, is a plain int64 byte offset into the Provider's address
space, counted from the Provider's own Lo(). Address 0 is never a valid
block or payload address (it is always the allocator's one-word prologue)
and doubles as the "no block" / "allocation failed" sentinel returned by the
public operations.

Block layout

A block begins with one 8-byte header word whose low four bits are a
boundary tag (current-alloc, previous-alloc, previous-is-minimum-size) and
whose remaining 60 bits are the block's total size, always a multiple of
16 and at least 16. Allocated blocks carry no footer. Free blocks larger
than the 16-byte minimum carry a duplicate footer word and two link words
(forward/backward) threading them into one of 14 size-segregated,
circular, doubly-linked free lists; minimum-size (16-byte) free blocks omit
the footer and the backward link, threading instead into a singly-linked
circular list, to save eight bytes each: the one deliberate asymmetry in
an otherwise uniform layout.

Placement, coalescing, growth

Placement is a bounded "better-fit": within a bucket, the first
near-perfect fit (excess at most 16 bytes) short-circuits the scan; failing
that, the best-excess candidate among the first 16 blocks visited is
returned, and the search falls through to the next larger bucket only when
a bucket yields nothing. Freeing a block immediately coalesces it with any
free physical neighbor, so no two free blocks are ever adjacent. Growth
happens lazily, in Provider-supplied chunks of at least 4096 bytes, only
when placement fails against the whole heap.

Verification

Allocator.Verify performs a read-only, two-phase traversal (an implicit,
address-ordered block walk; a free-list walk) and cross-checks the two; it
is meant for debug builds and tests, not the allocation hot path.
*/
package block
