package heap

import (
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/tag"
)

// alignSize rounds a payload request up to a whole block, reporting ok =
// false when the rounding arithmetic itself would overflow int. A request
// that large can never be satisfied, so callers treat it as reportable.
func alignSize(size int) (int, bool) {
	if _, ok := buf.AddOverflowSafe(size, tag.Overhead+tag.MinBlockSize-1); !ok {
		return 0, false
	}
	return tag.Align(size), true
}

// Alloc returns a reference to a payload of at least size bytes, or NoRef
// when size is not positive or the segment cannot satisfy the request.
// Out-of-memory is reportable, not fatal: the heap stays coherent and the
// caller may retry with a smaller request.
func (h *Heap) Alloc(size int) Ref {
	if size <= 0 {
		return NoRef
	}
	need, ok := alignSize(size)
	if !ok {
		h.log.Info("alloc failed: size overflow", "size", size)
		return NoRef
	}
	h.log.Debug("alloc", "size", size, "block", need)

	hdr, ok := h.findBlock(need)
	if !ok {
		h.log.Info("alloc failed: out of memory", "size", size, "block", need)
		return NoRef
	}
	h.carve(hdr, need)
	h.allocs++
	return Ref(hdr + tag.WordSize)
}

// AllocZero allocates a zero-filled payload of count*size bytes, in the
// manner of calloc. A count*size overflow is a reportable failure, not a
// panic: the request cannot be satisfied, so it returns NoRef.
func (h *Heap) AllocZero(count, size int) Ref {
	if count <= 0 || size <= 0 {
		return NoRef
	}
	total, ok := buf.MulOverflowSafe(count, size)
	if !ok {
		h.log.Info("zeroed alloc failed: size overflow", "count", count, "size", size)
		return NoRef
	}
	ref := h.Alloc(total)
	if ref == NoRef {
		return NoRef
	}
	b := h.prov.Bytes()
	clear(b[int(ref) : int(ref)+total])
	return ref
}

// Realloc resizes the payload at ref to size bytes. Realloc(NoRef, n)
// behaves as Alloc(n); Realloc(ref, 0) behaves as Free(ref) and returns
// NoRef. The block is resized in place when it already fits or when the
// following free block can be absorbed; otherwise the payload moves to a
// fresh block and the old one is freed. A failed move or an overflowing size
// is reportable: Realloc returns NoRef and leaves the original block
// untouched.
func (h *Heap) Realloc(ref Ref, size int) Ref {
	if ref == NoRef {
		return h.Alloc(size)
	}
	if size <= 0 {
		h.Free(ref)
		return NoRef
	}

	hdr := h.headerOf(ref)
	w := h.word(hdr)
	if w.Free() {
		panic(&CorruptionError{Offset: hdr, Reason: "resize of a free block"})
	}
	need, ok := alignSize(size)
	if !ok {
		h.log.Info("realloc failed: size overflow", "ref", int(ref), "size", size)
		return NoRef
	}
	cur := w.Size()
	next := hdr + cur
	nextW := h.word(next)
	h.log.Debug("realloc", "ref", int(ref), "size", size, "block", need, "have", cur)

	switch {
	case need <= cur:
		// Shrink in place. The remainder is a multiple of MinBlockSize, so
		// it is either zero or a standalone free block, merged rightwards
		// when the following block is free too.
		if rem := cur - need; rem > 0 {
			h.setBlock(hdr, need, tag.Allocated)
			merged := h.coalesce(hdr+need, rem)
			if h.policy == BestFitExplicit {
				h.pushFree(merged)
			}
		}
		return ref

	case nextW.Free() && cur+nextW.Size() >= need:
		// Grow in place by absorbing the following free block.
		total := cur + nextW.Size()
		if h.policy == BestFitExplicit {
			h.unlinkFree(next)
		}
		if h.cursor == next {
			// The absorbed header may be the next-fit resume point.
			h.cursor = hdr
		}
		h.setBlock(hdr, need, tag.Allocated)
		if rem := total - need; rem > 0 {
			rest := hdr + need
			h.setBlock(rest, rem, tag.Free)
			if h.policy == BestFitExplicit {
				h.pushFree(rest)
			}
		}
		return ref

	default:
		newRef := h.Alloc(size)
		if newRef == NoRef {
			return NoRef
		}
		b := h.prov.Bytes()
		copy(b[int(newRef):], b[int(ref):int(ref)+tag.PayloadSize(cur)])
		h.Free(ref)
		return newRef
	}
}

// Free releases the payload at ref and immediately coalesces the block with
// any free neighbors. Free(NoRef) is a no-op. Releasing an already-free
// block is a fatal consistency violation and panics with *CorruptionError.
func (h *Heap) Free(ref Ref) {
	if ref == NoRef {
		return
	}
	hdr := h.headerOf(ref)
	w := h.word(hdr)
	if w.Free() {
		panic(&CorruptionError{Offset: hdr, Reason: "double free"})
	}
	h.log.Debug("free", "ref", int(ref), "block", w.Size())

	merged := h.coalesce(hdr, w.Size())
	if h.policy == BestFitExplicit {
		h.pushFree(merged)
	}
	h.frees++
}
