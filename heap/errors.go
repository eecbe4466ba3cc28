package heap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownPolicy indicates a placement policy outside the supported set.
	ErrUnknownPolicy = errors.New("heap: unknown placement policy")
	// ErrDirtySegment indicates the backing segment was not empty at init.
	ErrDirtySegment = errors.New("heap: segment not clean")
	// ErrBadPageSize indicates the segment reported a non-positive page size.
	ErrBadPageSize = errors.New("heap: invalid page size")
	// ErrBadChunkSize indicates a growth unit that is not a positive multiple
	// of MinBlockSize large enough to hold the sentinels plus one block.
	ErrBadChunkSize = errors.New("heap: invalid chunk size")
	// ErrCorrupt indicates a broken structural invariant. CorruptionError
	// values unwrap to it.
	ErrCorrupt = errors.New("heap: block structure corrupt")
)

// CorruptionError reports a broken structural invariant at a specific heap
// offset. Heap operations panic with a *CorruptionError when they detect one
// mid-flight; Check returns them. Neither situation is recoverable: the heap
// must not be used further.
type CorruptionError struct {
	Offset int
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("heap: corruption at offset 0x%x: %s", e.Offset, e.Reason)
}

func (e *CorruptionError) Unwrap() error {
	return ErrCorrupt
}
