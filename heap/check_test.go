package heap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/tag"
)

// requireCorrupt asserts that Check reports a CorruptionError mentioning
// reason at the given offset.
func requireCorrupt(t *testing.T, h *Heap, offset int, reason string) {
	t.Helper()
	err := h.Check()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCorrupt)
	var ce *CorruptionError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, offset, ce.Offset)
	require.Contains(t, ce.Reason, reason)
}

func TestCheckCleanHeap(t *testing.T) {
	for _, policy := range []Policy{FirstFit, NextFit, BestFit, BestFitExplicit} {
		h := newTestHeap(t, policy, DefaultChunkSize, 0)
		require.NoError(t, h.Check())
		a := h.Alloc(100)
		b := h.Alloc(200)
		require.NoError(t, h.Check())
		h.Free(a)
		require.NoError(t, h.Check())
		h.Free(b)
		require.NoError(t, h.Check())
	}
}

func TestCheckDetectsClobberedSentinels(t *testing.T) {
	h := newTestHeap(t, FirstFit, DefaultChunkSize, 0)

	h.putWord(h.start-tag.WordSize, 0)
	requireCorrupt(t, h, h.start-tag.WordSize, "start sentinel")
	h.putWord(h.start-tag.WordSize, tag.Sentinel)
	require.NoError(t, h.Check())

	h.putWord(h.end, tag.Pack(64, tag.Free))
	requireCorrupt(t, h, h.end, "end sentinel")
}

func TestCheckDetectsFooterMismatch(t *testing.T) {
	h := newTestHeap(t, FirstFit, DefaultChunkSize, 0)
	ref := h.Alloc(100)
	hdr := h.headerOf(ref)
	sz := h.word(hdr).Size()

	h.putWord(hdr+sz-tag.WordSize, tag.Pack(sz, tag.Free))
	requireCorrupt(t, h, hdr, "disagrees with header")
}

func TestCheckDetectsZeroSizeBlock(t *testing.T) {
	h := newTestHeap(t, FirstFit, DefaultChunkSize, 0)
	ref := h.Alloc(100)
	hdr := h.headerOf(ref)

	h.putWord(hdr, tag.Pack(0, tag.Allocated))
	requireCorrupt(t, h, hdr, "zero-size block")
}

func TestCheckDetectsMisalignedSize(t *testing.T) {
	h := newTestHeap(t, FirstFit, DefaultChunkSize, 0)
	ref := h.Alloc(100)
	hdr := h.headerOf(ref)

	h.putWord(hdr, tag.Pack(8, tag.Allocated))
	requireCorrupt(t, h, hdr, "not a multiple")
}

func TestCheckDetectsOverrunningBlock(t *testing.T) {
	h := newTestHeap(t, FirstFit, 512, 512)
	ref := h.Alloc(100)
	hdr := h.headerOf(ref)

	h.putWord(hdr, tag.Pack(1<<20, tag.Allocated))
	requireCorrupt(t, h, hdr, "overruns heap end")
}

func TestCheckDetectsUncoalescedNeighbors(t *testing.T) {
	h := newTestHeap(t, FirstFit, DefaultChunkSize, 0)
	a := h.Alloc(16)
	b := h.Alloc(16)
	aHdr, bHdr := h.headerOf(a), h.headerOf(b)

	// Flip both headers to free behind the heap's back.
	h.setBlock(aHdr, MinBlockSize, tag.Free)
	h.setBlock(bHdr, MinBlockSize, tag.Free)
	requireCorrupt(t, h, bHdr, "adjacent free blocks")
}

func TestCheckDetectsDroppedListEntry(t *testing.T) {
	h := newTestHeap(t, BestFitExplicit, DefaultChunkSize, 0)
	a := h.Alloc(16)
	_ = h.Alloc(16) // keeps a's block from coalescing into the tail
	h.Free(a)
	require.NoError(t, h.Check())

	h.freeHead = h.listNext(h.headerOf(a))
	err := h.Check()
	require.Error(t, err)
	var ce *CorruptionError
	require.ErrorAs(t, err, &ce)
	require.Contains(t, ce.Reason, "free list misses")
}

func TestCheckDetectsListCycle(t *testing.T) {
	h := newTestHeap(t, BestFitExplicit, DefaultChunkSize, 0)
	a := h.Alloc(16)
	_ = h.Alloc(16)
	h.Free(a)
	hdr := h.headerOf(a)

	h.setListNext(hdr, hdr)
	requireCorrupt(t, h, hdr, "cycle")
}

func TestCheckDetectsAllocatedListEntry(t *testing.T) {
	h := newTestHeap(t, BestFitExplicit, DefaultChunkSize, 0)
	a := h.Alloc(16)
	hdr := h.headerOf(a)

	h.setListNext(hdr, 0)
	h.setListPrev(hdr, 0)
	h.freeHead = hdr
	requireCorrupt(t, h, hdr, "not a free block")
}

func TestCheckErrorIsReusableSentinel(t *testing.T) {
	h := newTestHeap(t, FirstFit, DefaultChunkSize, 0)
	h.putWord(h.end, 0)
	err := h.Check()
	require.True(t, errors.Is(err, ErrCorrupt))
}

func TestStatsTracksCounters(t *testing.T) {
	h := newTestHeap(t, BestFit, 1024, 0)

	a := h.Alloc(100) // 128 block
	b := h.Alloc(40)  // 64 block
	h.Free(a)

	st := h.Stats()
	require.Equal(t, uint64(2), st.Allocs)
	require.Equal(t, uint64(1), st.Frees)
	require.Equal(t, uint64(1), st.Grows)
	require.Equal(t, 1024-2*MinBlockSize, st.TotalBytes)
	require.Equal(t, 64, st.AllocatedBytes)
	require.Equal(t, st.TotalBytes-64, st.FreeBytes)
	require.Equal(t, 3, st.Blocks)
	require.Equal(t, 2, st.FreeBlocks)
	_ = b
}
