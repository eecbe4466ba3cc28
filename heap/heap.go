package heap

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/extent"
	"github.com/joshuapare/heapkit/internal/tag"
)

const (
	// MinBlockSize is the minimum total block size and the alignment
	// granularity of every block.
	MinBlockSize = tag.MinBlockSize

	// Overhead is the per-block bookkeeping cost (header plus footer).
	Overhead = tag.Overhead
)

// Ref is a caller-facing reference to an allocated payload: the payload's
// offset within the segment. NoRef is the "no object" value.
type Ref int

// NoRef is returned for zero-sized requests and reportable allocation
// failures. The heap proper never starts at offset 0, so 0 can never name a
// live payload.
const NoRef Ref = 0

// Heap is one allocator instance over one backing segment. A Heap is not
// safe for concurrent use.
type Heap struct {
	prov   extent.Provider
	policy Policy
	loc    locator

	chunkSize       int
	shrinkThreshold int

	start int // offset of the first real block header
	end   int // offset of the end sentinel tag

	cursor   int // next-fit resume point
	freeHead int // explicit free list head, 0 = list empty

	log   *slog.Logger
	level *slog.LevelVar

	allocs uint64
	frees  uint64
	grows  uint64
}

// New initializes a heap on an empty segment with the given placement
// policy. It performs one initial growth so a usable free block exists,
// bracketed by the two sentinel half-blocks. The segment must be empty and
// must report a positive page size.
func New(prov extent.Provider, policy Policy, opts *Options) (*Heap, error) {
	loc, err := policy.locator()
	if err != nil {
		return nil, err
	}
	start, end := prov.Extent()
	if start != end {
		return nil, fmt.Errorf("%w: extent %d..%d", ErrDirtySegment, start, end)
	}
	if ps := prov.PageSize(); ps <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadPageSize, ps)
	}

	h := &Heap{
		prov:            prov,
		policy:          policy,
		loc:             loc,
		chunkSize:       DefaultChunkSize,
		shrinkThreshold: DefaultShrinkThreshold,
		level:           new(slog.LevelVar),
	}
	logOut := io.Writer(nil)
	if opts != nil {
		if opts.ChunkSize != 0 {
			h.chunkSize = opts.ChunkSize
		}
		if opts.ShrinkThreshold != 0 {
			h.shrinkThreshold = opts.ShrinkThreshold
		}
		logOut = opts.LogOutput
	}
	if logOut == nil {
		logOut = io.Discard
	}
	h.level.Set(slog.LevelInfo)
	h.log = slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: h.level}))

	if h.chunkSize < 3*MinBlockSize || !tag.Aligned(h.chunkSize) {
		return nil, fmt.Errorf("%w: %d", ErrBadChunkSize, h.chunkSize)
	}

	newEnd, err := prov.Grow(h.chunkSize)
	if err != nil {
		return nil, fmt.Errorf("heap: initial growth: %w", err)
	}
	h.grows++
	h.start = start + MinBlockSize
	h.end = newEnd - MinBlockSize
	h.putWord(h.start-tag.WordSize, tag.Sentinel)
	h.putWord(h.end, tag.Sentinel)
	h.setBlock(h.start, h.end-h.start, tag.Free)
	h.cursor = h.start
	if h.policy == BestFitExplicit {
		h.freeHead = h.start
		h.setListNext(h.start, 0)
		h.setListPrev(h.start, 0)
	}
	h.log.Debug("heap initialized",
		"policy", policy.String(), "start", h.start, "end", h.end,
		"chunk", h.chunkSize, "page", prov.PageSize())
	return h, nil
}

// Policy returns the placement policy the heap was initialized with.
func (h *Heap) Policy() Policy {
	return h.policy
}

// SetLogLevel adjusts the verbosity of the heap's diagnostic logger at
// runtime. Output still goes to the writer chosen at construction.
func (h *Heap) SetLogLevel(l slog.Level) {
	h.level.Set(l)
}

// Bytes returns the payload of an allocated block. The slice aliases the
// backing segment and is valid only until the next growth; re-fetch it
// after operations that may grow the heap.
func (h *Heap) Bytes(ref Ref) []byte {
	if ref == NoRef {
		return nil
	}
	hdr := h.headerOf(ref)
	w := h.word(hdr)
	if !w.Allocated() {
		panic(&CorruptionError{Offset: hdr, Reason: "payload view of a free block"})
	}
	return h.prov.Bytes()[int(ref) : hdr+w.Size()-tag.WordSize]
}

// word reads the boundary tag (or free-list link word) at off.
func (h *Heap) word(off int) tag.Word {
	return tag.Word(buf.Word(h.prov.Bytes(), off))
}

func (h *Heap) putWord(off int, w tag.Word) {
	buf.PutWord(h.prov.Bytes(), off, uint64(w))
}

// setBlock writes matching header and footer tags for the block at hdr.
func (h *Heap) setBlock(hdr, size int, s tag.Status) {
	w := tag.Pack(size, s)
	h.putWord(hdr, w)
	h.putWord(hdr+size-tag.WordSize, w)
}

// headerOf maps a payload reference back to its block header, panicking on
// references outside the heap or off the block grid.
func (h *Heap) headerOf(ref Ref) int {
	hdr := int(ref) - tag.WordSize
	if hdr < h.start || hdr >= h.end || !tag.Aligned(hdr-h.start) {
		panic(&CorruptionError{Offset: hdr, Reason: "reference outside heap or misaligned"})
	}
	return hdr
}

// checkedSize returns the block size in w, panicking on a zero size, which
// would otherwise wedge every scan at offset p.
func (h *Heap) checkedSize(p int, w tag.Word) int {
	sz := w.Size()
	if sz == 0 {
		panic(&CorruptionError{Offset: p, Reason: "zero-size block"})
	}
	return sz
}

// findBlock returns the header of a free block of at least size total
// bytes, growing the segment once when no current block qualifies. The
// single retry assumes the chunk size covers any realistic request; callers
// with larger requests must raise Options.ChunkSize.
func (h *Heap) findBlock(size int) (int, bool) {
	if hdr, ok := h.loc.find(h, size); ok {
		return hdr, true
	}
	if !h.grow() {
		return 0, false
	}
	return h.loc.find(h, size)
}

// grow extends the segment by one chunk, moves the end sentinel, and merges
// the fresh space into a trailing free block when one exists. Returns false
// when the segment cannot grow; the heap is unchanged in that case.
func (h *Heap) grow() bool {
	oldEnd := h.end
	newBrk, err := h.prov.Grow(h.chunkSize)
	if err != nil {
		h.log.Warn("heap growth failed", "chunk", h.chunkSize, "err", err)
		return false
	}
	h.grows++
	h.end = newBrk - MinBlockSize
	h.putWord(h.end, tag.Sentinel)

	lastFtr := h.word(oldEnd - tag.WordSize)
	if lastFtr.Free() {
		// The old trailing block absorbs the chunk. Its header does not
		// move, so explicit list membership is unaffected.
		size := lastFtr.Size() + h.chunkSize
		h.setBlock(oldEnd-lastFtr.Size(), size, tag.Free)
	} else {
		h.setBlock(oldEnd, h.chunkSize, tag.Free)
		if h.policy == BestFitExplicit {
			h.pushFree(oldEnd)
		}
	}
	h.log.Debug("heap grown", "chunk", h.chunkSize, "end", h.end)
	return true
}

// carve marks the free block at hdr allocated with exactly need total
// bytes, splitting off the remainder as a fresh free block. Block sizes are
// multiples of MinBlockSize, so any nonzero remainder below one granule is
// a structural impossibility and panics.
func (h *Heap) carve(hdr, need int) {
	blockSize := h.word(hdr).Size()
	if h.policy == BestFitExplicit {
		h.unlinkFree(hdr)
	}
	rem := blockSize - need
	switch {
	case rem >= MinBlockSize:
		h.setBlock(hdr, need, tag.Allocated)
		rest := hdr + need
		h.setBlock(rest, rem, tag.Free)
		if h.policy == BestFitExplicit {
			h.pushFree(rest)
		}
	case rem != 0:
		panic(&CorruptionError{Offset: hdr, Reason: fmt.Sprintf("split remainder %d below minimum block size", rem)})
	default:
		h.setBlock(hdr, blockSize, tag.Allocated)
	}
}

// coalesce merges the block at hdr with free neighbors on either side and
// writes the merged block's tags as FREE. Absorbed neighbors are unlinked
// from the explicit list before the merge; the caller is responsible for
// inserting the returned block. Returns the merged block's header offset.
func (h *Heap) coalesce(hdr, size int) int {
	newHdr, newSize := hdr, size

	if prevFtr := h.word(hdr - tag.WordSize); prevFtr.Free() {
		pHdr := hdr - prevFtr.Size()
		if h.policy == BestFitExplicit {
			h.unlinkFree(pHdr)
		}
		newHdr = pHdr
		newSize += prevFtr.Size()
	}
	if nextW := h.word(hdr + size); nextW.Free() {
		if h.policy == BestFitExplicit {
			h.unlinkFree(hdr + size)
		}
		newSize += nextW.Size()
	}
	h.setBlock(newHdr, newSize, tag.Free)

	// A merge can swallow the header the next-fit cursor parked on; snap it
	// to the merged block so the next scan starts on a real header.
	if h.cursor > newHdr && h.cursor < newHdr+newSize {
		h.cursor = newHdr
	}
	return newHdr
}
