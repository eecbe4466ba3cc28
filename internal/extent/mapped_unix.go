//go:build unix

package extent

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MappedSegment is a Provider backed by an anonymous memory mapping. The
// full reservation is mapped PROT_NONE up front and pages are switched to
// read/write as the segment grows, so the backing slice never moves and
// out-of-segment touches fault instead of silently corrupting memory.
type MappedSegment struct {
	mem  []byte // full reservation
	brk  int    // usable prefix length
	page int
}

// NewMappedSegment reserves an anonymous mapping of the given size. The
// reservation is rounded up to a whole number of pages and caps how far the
// segment can grow.
func NewMappedSegment(reserve int) (*MappedSegment, error) {
	page := unix.Getpagesize()
	if reserve <= 0 {
		return nil, fmt.Errorf("extent: reserve %d: %w", reserve, ErrBadGrowSize)
	}
	reserve = (reserve + page - 1) &^ (page - 1)
	mem, err := unix.Mmap(-1, 0, reserve, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, fmt.Errorf("extent: mmap %d bytes: %w", reserve, err)
	}
	return &MappedSegment{mem: mem, page: page}, nil
}

// Extent returns the segment bounds. The start of a mapped segment is
// always offset 0.
func (m *MappedSegment) Extent() (int, int) {
	return 0, m.brk
}

// PageSize reports the system page size.
func (m *MappedSegment) PageSize() int {
	return m.page
}

// Grow makes n more bytes of the reservation accessible and returns the new
// end offset. Fails with ErrExhausted once the reservation is used up.
func (m *MappedSegment) Grow(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("extent: grow(%d): %w", n, ErrBadGrowSize)
	}
	if m.brk+n > len(m.mem) {
		return 0, fmt.Errorf("extent: grow(%d) past reservation %d: %w", n, len(m.mem), ErrExhausted)
	}
	// Protect whole pages covering [brk, brk+n); re-protecting pages that
	// are already read/write is harmless.
	lo := m.brk &^ (m.page - 1)
	hi := (m.brk + n + m.page - 1) &^ (m.page - 1)
	if hi > len(m.mem) {
		hi = len(m.mem)
	}
	if err := unix.Mprotect(m.mem[lo:hi], unix.PROT_READ|unix.PROT_WRITE); err != nil {
		return 0, fmt.Errorf("extent: mprotect: %w", err)
	}
	m.brk += n
	return m.brk, nil
}

// Bytes returns the accessible prefix of the reservation.
func (m *MappedSegment) Bytes() []byte {
	return m.mem[:m.brk]
}

// Close releases the reservation. The segment must not be used afterwards.
func (m *MappedSegment) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	m.brk = 0
	return err
}

// NewMapped returns a page-backed segment on platforms that support it.
func NewMapped(reserve int) (Provider, error) {
	return NewMappedSegment(reserve)
}
