package extent

import (
	"errors"
	"testing"
)

func TestSegmentGrow(t *testing.T) {
	s := NewSegment(0)
	if start, end := s.Extent(); start != 0 || end != 0 {
		t.Fatalf("fresh segment extent %d..%d, want 0..0", start, end)
	}
	end, err := s.Grow(128)
	if err != nil {
		t.Fatalf("Grow: %v", err)
	}
	if end != 128 || len(s.Bytes()) != 128 {
		t.Fatalf("end=%d len=%d want 128", end, len(s.Bytes()))
	}
	end, err = s.Grow(64)
	if err != nil {
		t.Fatalf("second Grow: %v", err)
	}
	if end != 192 {
		t.Fatalf("end=%d want 192", end)
	}
	for i, b := range s.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}

func TestSegmentLimit(t *testing.T) {
	s := NewSegment(100)
	if _, err := s.Grow(64); err != nil {
		t.Fatalf("Grow within limit: %v", err)
	}
	_, err := s.Grow(64)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	// Failure must leave the segment unchanged.
	if _, end := s.Extent(); end != 64 {
		t.Fatalf("failed Grow changed extent to %d", end)
	}
}

func TestSegmentGrowRejectsBadSize(t *testing.T) {
	s := NewSegment(0)
	if _, err := s.Grow(0); !errors.Is(err, ErrBadGrowSize) {
		t.Fatalf("Grow(0): %v", err)
	}
	if _, err := s.Grow(-8); !errors.Is(err, ErrBadGrowSize) {
		t.Fatalf("Grow(-8): %v", err)
	}
}

func TestSegmentPageSize(t *testing.T) {
	if ps := NewSegment(0).PageSize(); ps <= 0 {
		t.Fatalf("page size %d", ps)
	}
}
