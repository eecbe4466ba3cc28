package buf

import (
	"math"
	"testing"
)

func TestWordRoundTrip(t *testing.T) {
	b := make([]byte, 32)
	PutWord(b, 8, 0x1234567890abcdef)
	if got := Word(b, 8); got != 0x1234567890abcdef {
		t.Fatalf("Word(b,8)=%#x", got)
	}
	if got := Word(b, 0); got != 0 {
		t.Fatalf("untouched word should read 0, got %#x", got)
	}
}

func TestWordOutOfBounds(t *testing.T) {
	b := make([]byte, 16)
	if got := Word(b, 9); got != 0 {
		t.Fatalf("short read should return 0, got %#x", got)
	}
	if got := Word(b, -1); got != 0 {
		t.Fatalf("negative offset should return 0, got %#x", got)
	}
	// Out-of-bounds writes must not alter the slice.
	PutWord(b, 9, math.MaxUint64)
	PutWord(b, -1, math.MaxUint64)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d modified by out-of-bounds write", i)
		}
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if got, ok := MulOverflowSafe(6, 7); !ok || got != 42 {
		t.Fatalf("MulOverflowSafe(6,7)=%d,%v want 42,true", got, ok)
	}
	if got, ok := MulOverflowSafe(0, math.MaxInt); !ok || got != 0 {
		t.Fatalf("MulOverflowSafe(0,MaxInt)=%d,%v want 0,true", got, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt, 2); ok {
		t.Fatalf("expected overflow for MaxInt*2")
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2+1, 2); ok {
		t.Fatalf("expected overflow just past MaxInt")
	}
}

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}
