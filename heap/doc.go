// Package heap implements a dynamic memory allocator over a single
// contiguous, growable byte segment.
//
// Heap organization:
//
//	segment start                                           segment end
//	    |   heap start                               heap end   |
//	    v   v                                               v   v
//	    +---+---+-----------------------------------------+---+---+
//	    |...| S | blocks ...                               | S |...|
//	    +---+---+-----------------------------------------+---+---+
//	        ^                                               ^
//	        32-byte aligned                                 32-byte aligned
//
// Every block carries an identical boundary tag at both ends: its total
// size packed with an allocation status. The heap proper is bracketed by
// two sentinel half-blocks (S) that read as permanently allocated, so block
// operations can inspect either neighbor without special-casing the ends.
//
// Block placement is policy-driven: first-fit, next-fit and best-fit scan
// the blocks in address order, while the explicit best-fit variant threads
// an intrusive doubly-linked list through the free blocks and scans only
// those. Oversized free blocks are split at 32-byte boundaries, and freed
// blocks coalesce with free neighbors immediately.
//
// The allocator assumes a single logical caller; wrap a Heap in external
// locking before sharing it between goroutines.
package heap
