// Copyright 2013 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package block

// numBuckets is the number of segregated size classes.
const numBuckets = 14

// bucketUpper[i] is the inclusive upper bound (in bytes) of bucket i's size
// range; bucket i's range is (bucketUpper[i-1], bucketUpper[i]], with
// bucket 0's lower bound implicitly minBlockSize since no smaller block
// exists. The last bucket has no upper bound.
var bucketUpper = [numBuckets]int64{
	16, 32, 48, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, 32768,
	1<<63 - 1,
}

// bucketOf returns the index of the bucket holding free blocks of size.
func bucketOf(size int64) int {
	for i, upper := range bucketUpper {
		if size <= upper {
			return i
		}
	}
	return numBuckets - 1
}

// next/prev link offsets within a free block, relative to its header.
const (
	linkNextOff = wordSize
	linkPrevOff = 2 * wordSize
)

func getNext(a Memory, h int64) int64 { return int64(a.GetWord(h + linkNextOff)) }
func setNext(a Memory, h, v int64)    { a.SetWord(h+linkNextOff, uint64(v)) }
func getPrev(a Memory, h int64) int64 { return int64(a.GetWord(h + linkPrevOff)) }
func setPrev(a Memory, h, v int64)    { a.SetWord(h+linkPrevOff, uint64(v)) }

// freeLists holds the 14 bucket heads. It has process-lifetime for the
// Allocator that owns it; there is exactly one instance per Allocator, not
// a package-level global.
type freeLists struct {
	head [numBuckets]int64
}

// insert adds the free block at h (of the given size) to the bucket its
// size belongs to, as the new head (LIFO), per the base spec's §4.2.
func (fl *freeLists) insert(a Memory, h, size int64) {
	i := bucketOf(size)
	old := fl.head[i]

	if i == 0 {
		// Singly-linked circular list: empty bucket becomes a
		// one-element cycle; otherwise prepend h as the new head and
		// relink the current tail (found by walking from the old head)
		// to point at h instead of at the old head, so the list stays a
		// true cycle no matter how many elements it holds.
		if old == 0 {
			setNext(a, h, h)
		} else {
			tail := old
			for getNext(a, tail) != old {
				tail = getNext(a, tail)
			}
			setNext(a, tail, h)
			setNext(a, h, old)
		}
		fl.head[i] = h
		return
	}

	if old == 0 {
		setNext(a, h, h)
		setPrev(a, h, h)
		fl.head[i] = h
		return
	}

	tail := getPrev(a, old)
	setNext(a, h, old)
	setPrev(a, h, tail)
	setNext(a, tail, h)
	setPrev(a, old, h)
	fl.head[i] = h
}

// remove splices the free block at h (of the given size) out of its
// bucket's list.
func (fl *freeLists) remove(a Memory, h, size int64) {
	i := bucketOf(size)

	if i == 0 {
		fl.removeMin(a, h)
		return
	}

	next, prev := getNext(a, h), getPrev(a, h)
	if next == h {
		// sole element
		fl.head[i] = 0
		return
	}

	setNext(a, prev, next)
	setPrev(a, next, prev)
	if fl.head[i] == h {
		fl.head[i] = next
	}
}

// removeMin splices a minimum-size block out of bucket 0's singly-linked
// circular list, walking the cycle to find h's predecessor (bucket 0 has no
// backward link, so this is the only way to splice out anything but the
// head).
func (fl *freeLists) removeMin(a Memory, h int64) {
	head := fl.head[0]
	if head == 0 {
		return
	}

	next := getNext(a, h)
	if next == h {
		// sole element
		fl.head[0] = 0
		return
	}

	p := head
	for getNext(a, p) != h {
		p = getNext(a, p)
	}
	setNext(a, p, next)
	if h == head {
		fl.head[0] = next
	}
}
