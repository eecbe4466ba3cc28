// Package tag implements the boundary-tag word that brackets every heap
// block. The goal is to keep the bit-packing focused and allocation-free so
// the heap package can orchestrate blocks without caring about the encoding.
package tag

import "github.com/joshuapare/heapkit/internal/buf"

// Status is the allocation state carried in the low bits of a boundary tag.
type Status uint64

const (
	// Free marks a block available for allocation.
	Free Status = 0
	// Allocated marks a block in use by a caller.
	Allocated Status = 1
)

const (
	// WordSize is the size of one boundary tag in bytes.
	WordSize = buf.WordSize

	// StatusMask selects the status bits of a tag. Block sizes are multiples
	// of MinBlockSize, so the low three bits are always available.
	StatusMask = uint64(0x7)

	// SizeMask selects the size bits of a tag.
	SizeMask = ^StatusMask

	// MinBlockSize is the minimum total block size and the alignment
	// granularity. Large enough for header + footer + two payload words,
	// which the explicit free list reuses as next/prev links.
	MinBlockSize = 32

	// Overhead is the per-block bookkeeping cost: one header and one footer.
	Overhead = 2 * WordSize
)

// Word is one packed boundary tag: block size in the high bits, status in
// the low bits. A block stores an identical Word at both of its ends.
type Word uint64

// Sentinel is the tag of the half-blocks guarding the heap ends: zero size,
// permanently allocated.
const Sentinel = Word(uint64(Allocated))

// Pack builds a tag from a total block size and a status. The size must be
// a multiple of MinBlockSize; Pack does not validate this.
func Pack(size int, s Status) Word {
	return Word(uint64(size)&SizeMask | uint64(s)&StatusMask)
}

// Size returns the total block size encoded in the tag, including overhead.
func (w Word) Size() int {
	return int(uint64(w) & SizeMask)
}

// Status returns the allocation state encoded in the tag.
func (w Word) Status() Status {
	return Status(uint64(w) & StatusMask)
}

// Free reports whether the tag marks a free block.
func (w Word) Free() bool {
	return w.Status() == Free
}

// Allocated reports whether the tag marks an allocated block.
func (w Word) Allocated() bool {
	return w.Status() == Allocated
}
