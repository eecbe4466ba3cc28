package heap

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/tag"
)

// Check walks the whole heap validating its structural invariants and
// returns the first violation found, or nil when the block structure is
// coherent. A non-nil result is fatal for the heap: the structure cannot be
// trusted and no further operations should run against it.
//
// Checked invariants:
//   - both sentinel half-blocks are intact
//   - every block's header tag equals its footer tag
//   - every block size is a nonzero multiple of MinBlockSize and stays
//     inside the heap (a zero size aborts the walk instead of looping)
//   - no two adjacent blocks are both free
//   - block sizes sum exactly to the heap extent
//   - explicit variant: the free list holds every free block exactly once
//     and nothing else, with no cycles
func (h *Heap) Check() error {
	if got := h.word(h.start - tag.WordSize); got != tag.Sentinel {
		return &CorruptionError{Offset: h.start - tag.WordSize, Reason: fmt.Sprintf("start sentinel clobbered: %#x", uint64(got))}
	}
	if got := h.word(h.end); got != tag.Sentinel {
		return &CorruptionError{Offset: h.end, Reason: fmt.Sprintf("end sentinel clobbered: %#x", uint64(got))}
	}

	var freeBlocks map[int]bool
	if h.policy == BestFitExplicit {
		freeBlocks = make(map[int]bool)
	}

	prevFree := false
	p := h.start
	for p < h.end {
		w := h.word(p)
		sz := w.Size()
		if sz == 0 {
			return &CorruptionError{Offset: p, Reason: "zero-size block, traversal aborted"}
		}
		if !tag.Aligned(sz) {
			return &CorruptionError{Offset: p, Reason: fmt.Sprintf("block size %d not a multiple of %d", sz, MinBlockSize)}
		}
		if p+sz > h.end {
			return &CorruptionError{Offset: p, Reason: fmt.Sprintf("block of size %d overruns heap end", sz)}
		}
		if f := h.word(p + sz - tag.WordSize); f != w {
			return &CorruptionError{Offset: p, Reason: fmt.Sprintf("footer %#x disagrees with header %#x", uint64(f), uint64(w))}
		}
		if w.Free() {
			if prevFree {
				return &CorruptionError{Offset: p, Reason: "adjacent free blocks not coalesced"}
			}
			if freeBlocks != nil {
				freeBlocks[p] = false
			}
		}
		prevFree = w.Free()
		p += sz
	}
	if p != h.end {
		return &CorruptionError{Offset: p, Reason: "block sizes do not sum to heap extent"}
	}

	if h.policy == BestFitExplicit {
		seen := 0
		for q := h.freeHead; q != 0; q = h.listNext(q) {
			visited, ok := freeBlocks[q]
			if !ok {
				return &CorruptionError{Offset: q, Reason: "free list entry is not a free block"}
			}
			if visited {
				return &CorruptionError{Offset: q, Reason: "free list cycle or duplicate entry"}
			}
			freeBlocks[q] = true
			seen++
		}
		if seen != len(freeBlocks) {
			return &CorruptionError{Offset: h.freeHead, Reason: fmt.Sprintf("free list misses %d free block(s)", len(freeBlocks)-seen)}
		}
	}
	return nil
}

// Stats is a snapshot of heap accounting. Byte figures count whole blocks
// including their tag overhead; sentinel half-blocks are excluded.
type Stats struct {
	TotalBytes     int // heap extent between the sentinels
	AllocatedBytes int
	FreeBytes      int
	Blocks         int
	FreeBlocks     int
	Allocs         uint64
	Frees          uint64
	Grows          uint64
}

// Stats walks the heap and returns current accounting.
func (h *Heap) Stats() Stats {
	st := Stats{
		TotalBytes: h.end - h.start,
		Allocs:     h.allocs,
		Frees:      h.frees,
		Grows:      h.grows,
	}
	for p := h.start; p < h.end; {
		w := h.word(p)
		sz := h.checkedSize(p, w)
		st.Blocks++
		if w.Free() {
			st.FreeBlocks++
			st.FreeBytes += sz
		} else {
			st.AllocatedBytes += sz
		}
		p += sz
	}
	return st
}
