// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

import (
	"errors"
	"fmt"
)

// ErrOutOfMemory is returned by a Provider's Extend when the underlying
// address space cannot be grown any further. The public allocator
// operations never return it directly; they surface it as a nil payload
// address instead, per the package's error-handling design.
var ErrOutOfMemory = errors.New("block: heap provider out of memory")

// InvalidArgError reports an invalid argument. Arena.Extend returns it for
// a size that is not a positive multiple of 16. Free, Alloc, Realloc,
// Calloc and Verify do not return it; Free does not validate its argument.
type InvalidArgError struct {
	Msg string
	Arg interface{}
}

func (e *InvalidArgError) Error() string {
	return fmt.Sprintf("block: invalid argument: %s: %v", e.Msg, e.Arg)
}

// ConsistencyErrorKind enumerates the invariant violations Verify can
// detect. Values are diagnostic only; a ConsistencyError is never returned
// by a mutating operation.
type ConsistencyErrorKind int

const (
	// ErrBadSentinel: the prologue or epilogue is missing, has non-zero
	// size, or is not marked allocated.
	ErrBadSentinel ConsistencyErrorKind = iota
	// ErrBadSize: a block's encoded size is zero, not a multiple of 16,
	// or would run past the current heap end.
	ErrBadSize
	// ErrBadFooter: a free block's footer does not bit-match its header.
	ErrBadFooter
	// ErrAdjacentFree: two physically adjacent blocks are both free.
	ErrAdjacentFree
	// ErrPrevFlagMismatch: a block's prev-alloc or prev-min bit disagrees
	// with its physical predecessor's actual state.
	ErrPrevFlagMismatch
	// ErrBucketRange: a block found in bucket i has a size outside
	// bucket i's range.
	ErrBucketRange
	// ErrBrokenLink: a free list's forward/backward links don't splice
	// back correctly, or the list fails to close into a cycle.
	ErrBrokenLink
	// ErrCountMismatch: the number of free blocks found walking the
	// implicit list doesn't match the sum of free-list lengths.
	ErrCountMismatch
)

func (k ConsistencyErrorKind) String() string {
	switch k {
	case ErrBadSentinel:
		return "bad sentinel"
	case ErrBadSize:
		return "bad size"
	case ErrBadFooter:
		return "bad footer"
	case ErrAdjacentFree:
		return "adjacent free blocks"
	case ErrPrevFlagMismatch:
		return "prev-flag mismatch"
	case ErrBucketRange:
		return "block outside bucket range"
	case ErrBrokenLink:
		return "broken free-list link"
	case ErrCountMismatch:
		return "free block count mismatch"
	default:
		return "unknown consistency error"
	}
}

// ConsistencyError reports one invariant violation found by Verify. Off is
// the address of the offending block (or -1 if not block-specific). Detail
// carries any free-form context (expected vs. actual values, bucket index,
// etc.).
type ConsistencyError struct {
	Kind   ConsistencyErrorKind
	Off    int64
	Line   int
	Detail string
}

func (e *ConsistencyError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("block: consistency check at line %d: %s at offset %#x", e.Line, e.Kind, e.Off)
	}
	return fmt.Sprintf("block: consistency check at line %d: %s at offset %#x: %s", e.Line, e.Kind, e.Off, e.Detail)
}
