package heap

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/internal/tag"
)

// Dump writes a human-readable block table to w: one line per block with
// its offset, size, payload size and status, plus the free-list links under
// the explicit policy. Intended for tests and debugging, not for the
// allocation hot path.
func (h *Heap) Dump(w io.Writer) {
	pr := message.NewPrinter(language.English)
	segStart, segEnd := h.prov.Extent()

	pr.Fprintf(w, "heap: policy %s, segment %d..%d (%d bytes), page size %d\n",
		h.policy, segStart, segEnd, segEnd-segStart, h.prov.PageSize())
	pr.Fprintf(w, "      heap %#x..%#x, chunk %d, cursor %#x\n",
		h.start, h.end, h.chunkSize, h.cursor)

	explicit := h.policy == BestFitExplicit
	if explicit {
		fmt.Fprintf(w, "  %-10s  %10s  %10s  %-10s  %-10s  %s\n",
			"offset", "size", "payload", "next", "prev", "status")
	} else {
		fmt.Fprintf(w, "  %-10s  %10s  %10s  %s\n",
			"offset", "size", "payload", "status")
	}

	for p := h.start; p < h.end; {
		bw := h.word(p)
		sz := bw.Size()
		if sz == 0 {
			// Stats would panic on the same block; stop here.
			fmt.Fprintf(w, "  WARNING: zero-size block at %#x, aborting traversal\n", p)
			return
		}
		status := "free"
		if bw.Allocated() {
			status = "allocated"
		}
		if explicit {
			next, prev := "-", "-"
			if bw.Free() {
				next = fmt.Sprintf("%#x", h.listNext(p))
				prev = fmt.Sprintf("%#x", h.listPrev(p))
			}
			pr.Fprintf(w, "  %-10s  %10d  %10d  %-10s  %-10s  %s\n",
				fmt.Sprintf("%#x", p), sz, tag.PayloadSize(sz), next, prev, status)
		} else {
			pr.Fprintf(w, "  %-10s  %10d  %10d  %s\n",
				fmt.Sprintf("%#x", p), sz, tag.PayloadSize(sz), status)
		}
		p += sz
	}

	st := h.Stats()
	pr.Fprintf(w, "  %d block(s): %d bytes allocated, %d bytes free, %d grow(s)\n",
		st.Blocks, st.AllocatedBytes, st.FreeBytes, st.Grows)
}
