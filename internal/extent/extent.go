// Package extent provides the growable byte segment backing a heap. The
// heap only ever asks a segment for its current bounds, the system page
// size, and more space; all block bookkeeping happens above this layer.
package extent

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrExhausted indicates the segment cannot grow any further. The
	// segment is unchanged when this is returned.
	ErrExhausted = errors.New("extent: segment exhausted")
	// ErrBadGrowSize indicates a non-positive grow request.
	ErrBadGrowSize = errors.New("extent: grow size must be positive")
)

// Provider is the contract between a heap and its backing segment.
//
// Extent returns the current segment bounds as offsets into Bytes. Grow
// extends the segment by n bytes and returns the new end offset; on failure
// the segment must be left unchanged. PageSize reports the system page size
// and must be positive for a heap to initialize on top of the segment.
type Provider interface {
	Extent() (start, end int)
	PageSize() int
	Grow(n int) (int, error)
	Bytes() []byte
}

// Segment is an in-memory Provider backed by an ordinary byte slice. A
// positive limit caps the total segment size, which lets callers exercise
// growth failure deterministically.
type Segment struct {
	buf   []byte
	limit int
}

// NewSegment returns an empty in-memory segment. limit <= 0 means unlimited.
func NewSegment(limit int) *Segment {
	return &Segment{limit: limit}
}

// Extent returns the segment bounds. The start of an in-memory segment is
// always offset 0.
func (s *Segment) Extent() (int, int) {
	return 0, len(s.buf)
}

// PageSize reports the system page size.
func (s *Segment) PageSize() int {
	return os.Getpagesize()
}

// Grow extends the segment by n zeroed bytes and returns the new end offset.
func (s *Segment) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("extent: grow(%d): %w", n, ErrBadGrowSize)
	}
	if s.limit > 0 && len(s.buf)+n > s.limit {
		return 0, fmt.Errorf("extent: grow(%d) past limit %d: %w", n, s.limit, ErrExhausted)
	}
	s.buf = append(s.buf, make([]byte, n)...)
	return len(s.buf), nil
}

// Bytes returns the backing slice. The slice may move on Grow; callers must
// re-fetch it after every growth.
func (s *Segment) Bytes() []byte {
	return s.buf
}
