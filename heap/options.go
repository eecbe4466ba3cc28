package heap

import "io"

const (
	// DefaultChunkSize is the default arena growth unit (64 KiB).
	DefaultChunkSize = 1 << 16

	// DefaultShrinkThreshold is the default free-tail size below which the
	// heap keeps its memory rather than returning it to the segment (16 KiB).
	DefaultShrinkThreshold = 1 << 14
)

// Options controls heap construction. A nil *Options selects all defaults.
type Options struct {
	// ChunkSize is the arena growth unit in bytes. Must be a multiple of
	// MinBlockSize and large enough for the two sentinel half-blocks plus
	// one minimum block. A single allocation larger than ChunkSize may fail
	// even when the segment could still grow; size it above the largest
	// expected request. Default: DefaultChunkSize.
	ChunkSize int

	// ShrinkThreshold is the free-tail size that would trigger returning
	// memory to the segment. The heap records it but never shrinks.
	// Default: DefaultShrinkThreshold.
	ShrinkThreshold int

	// LogOutput receives diagnostic log lines. If nil, diagnostics are
	// discarded. Verbosity is adjusted at runtime with SetLogLevel.
	LogOutput io.Writer
}
