package heap

import (
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/tag"
)

// Explicit free list management. Free blocks reuse their first two payload
// words as next/prev links holding header offsets; 0 terminates the list.
// Only the BestFitExplicit policy maintains the list.

func (h *Heap) listNext(hdr int) int {
	return int(buf.Word(h.prov.Bytes(), hdr+tag.WordSize))
}

func (h *Heap) listPrev(hdr int) int {
	return int(buf.Word(h.prov.Bytes(), hdr+2*tag.WordSize))
}

func (h *Heap) setListNext(hdr, to int) {
	buf.PutWord(h.prov.Bytes(), hdr+tag.WordSize, uint64(to))
}

func (h *Heap) setListPrev(hdr, to int) {
	buf.PutWord(h.prov.Bytes(), hdr+2*tag.WordSize, uint64(to))
}

// pushFree inserts the free block at hdr at the head of the list.
func (h *Heap) pushFree(hdr int) {
	old := h.freeHead
	h.setListNext(hdr, old)
	h.setListPrev(hdr, 0)
	if old != 0 {
		h.setListPrev(old, hdr)
	}
	h.freeHead = hdr
}

// unlinkFree removes the block at hdr from the list. Must run before the
// block's header moves or its payload words are repurposed, or the list
// would keep a stale entry.
func (h *Heap) unlinkFree(hdr int) {
	next := h.listNext(hdr)
	prev := h.listPrev(hdr)
	if h.freeHead == hdr {
		h.freeHead = next
	}
	if prev != 0 {
		h.setListNext(prev, next)
	}
	if next != 0 {
		h.setListPrev(next, prev)
	}
	h.setListNext(hdr, 0)
	h.setListPrev(hdr, 0)
}
