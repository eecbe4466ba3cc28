package heap

import "fmt"

// Policy selects how the heap searches for a free block.
type Policy int

const (
	// FirstFit scans blocks in address order and takes the first free block
	// large enough. Cheap per call, fragments faster.
	FirstFit Policy = iota + 1
	// NextFit scans like FirstFit but resumes where the previous successful
	// search stopped, wrapping at the heap end.
	NextFit
	// BestFit scans every block and takes the free block with the least
	// leftover, returning early on an exact match.
	BestFit
	// BestFitExplicit applies the BestFit rule over the explicit free list,
	// skipping allocated blocks entirely.
	BestFitExplicit
)

func (p Policy) String() string {
	switch p {
	case FirstFit:
		return "first-fit"
	case NextFit:
		return "next-fit"
	case BestFit:
		return "best-fit"
	case BestFitExplicit:
		return "best-fit-explicit"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy converts a policy name as printed by String back to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "first-fit":
		return FirstFit, nil
	case "next-fit":
		return NextFit, nil
	case "best-fit":
		return BestFit, nil
	case "best-fit-explicit":
		return BestFitExplicit, nil
	default:
		return 0, fmt.Errorf("heap: policy %q: %w", s, ErrUnknownPolicy)
	}
}

// locator finds a free block of at least size total bytes. Implementations
// return the block's header offset, or ok = false when no free block
// qualifies. They never grow the segment themselves.
type locator interface {
	find(h *Heap, size int) (hdr int, ok bool)
}

func (p Policy) locator() (locator, error) {
	switch p {
	case FirstFit:
		return firstFit{}, nil
	case NextFit:
		return nextFit{}, nil
	case BestFit:
		return bestFit{}, nil
	case BestFitExplicit:
		return bestFitList{}, nil
	default:
		return nil, fmt.Errorf("heap: policy %d: %w", int(p), ErrUnknownPolicy)
	}
}

type firstFit struct{}

func (firstFit) find(h *Heap, size int) (int, bool) {
	for p := h.start; p < h.end; {
		w := h.word(p)
		sz := h.checkedSize(p, w)
		if w.Free() && sz >= size {
			return p, true
		}
		p += sz
	}
	return 0, false
}

type nextFit struct{}

func (nextFit) find(h *Heap, size int) (int, bool) {
	if h.cursor < h.start || h.cursor >= h.end {
		h.cursor = h.start
	}
	for p := h.cursor; p < h.end; {
		w := h.word(p)
		sz := h.checkedSize(p, w)
		if w.Free() && sz >= size {
			h.cursor = p
			return p, true
		}
		p += sz
	}
	for p := h.start; p < h.cursor; {
		w := h.word(p)
		sz := h.checkedSize(p, w)
		if w.Free() && sz >= size {
			h.cursor = p
			return p, true
		}
		p += sz
	}
	return 0, false
}

type bestFit struct{}

func (bestFit) find(h *Heap, size int) (int, bool) {
	best, bestDiff := 0, -1
	for p := h.start; p < h.end; {
		w := h.word(p)
		sz := h.checkedSize(p, w)
		if w.Free() && sz >= size {
			diff := sz - size
			if diff == 0 {
				return p, true
			}
			if bestDiff < 0 || diff < bestDiff {
				best, bestDiff = p, diff
			}
		}
		p += sz
	}
	return best, best != 0
}

type bestFitList struct{}

func (bestFitList) find(h *Heap, size int) (int, bool) {
	best, bestDiff := 0, -1
	for p := h.freeHead; p != 0; p = h.listNext(p) {
		w := h.word(p)
		sz := h.checkedSize(p, w)
		if w.Free() && sz >= size {
			diff := sz - size
			if diff == 0 {
				return p, true
			}
			if bestDiff < 0 || diff < bestDiff {
				best, bestDiff = p, diff
			}
		}
	}
	return best, best != 0
}
