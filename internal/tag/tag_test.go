package tag

import "testing"

func TestPackRoundTrip(t *testing.T) {
	w := Pack(0x1240, Allocated)
	if w.Size() != 0x1240 {
		t.Fatalf("Size()=%#x want 0x1240", w.Size())
	}
	if !w.Allocated() || w.Free() {
		t.Fatalf("status lost: %#x", uint64(w))
	}

	w = Pack(96, Free)
	if w.Size() != 96 || !w.Free() {
		t.Fatalf("free tag mangled: %#x", uint64(w))
	}
}

func TestSentinel(t *testing.T) {
	if Sentinel.Size() != 0 {
		t.Fatalf("sentinel size %d, want 0", Sentinel.Size())
	}
	if !Sentinel.Allocated() {
		t.Fatalf("sentinel must read as allocated")
	}
}

func TestAlign(t *testing.T) {
	tests := []struct {
		payload, want int
	}{
		{0, MinBlockSize},
		{1, MinBlockSize},
		{16, MinBlockSize},     // payload + overhead exactly one granule
		{17, 2 * MinBlockSize}, // one byte over
		{48, 2 * MinBlockSize}, // 48 + 16 = 64 exactly
		{100, 128},
		{1 << 20, 1<<20 + MinBlockSize}, // overhead pushes into the next granule
	}
	for _, tc := range tests {
		if got := Align(tc.payload); got != tc.want {
			t.Fatalf("Align(%d)=%d want %d", tc.payload, got, tc.want)
		}
	}
}

func TestAlignInvariants(t *testing.T) {
	for payload := 0; payload <= 4096; payload++ {
		got := Align(payload)
		if !Aligned(got) {
			t.Fatalf("Align(%d)=%d not a multiple of %d", payload, got, MinBlockSize)
		}
		if got < payload+Overhead {
			t.Fatalf("Align(%d)=%d smaller than payload+overhead", payload, got)
		}
		if got-payload-Overhead >= MinBlockSize {
			t.Fatalf("Align(%d)=%d wastes a whole granule", payload, got)
		}
	}
}

func TestPayloadSize(t *testing.T) {
	if got := PayloadSize(MinBlockSize); got != MinBlockSize-Overhead {
		t.Fatalf("PayloadSize(%d)=%d", MinBlockSize, got)
	}
}
