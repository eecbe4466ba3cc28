package tag

// Alignment utilities for heap blocks. Every block's total size is a
// multiple of MinBlockSize, so splitting always leaves either no remainder
// or a remainder large enough to stand as a block of its own.

// Align returns the total block size required to satisfy a payload request
// of n bytes: n plus Overhead, rounded up to the next MinBlockSize boundary.
// The result is never below MinBlockSize.
//
// Example:
//
//	Align(1)  = 32
//	Align(16) = 32
//	Align(17) = 64
//	Align(48) = 64
func Align(n int) int {
	return (n + Overhead + MinBlockSize - 1) &^ (MinBlockSize - 1)
}

// Aligned reports whether n is a multiple of MinBlockSize.
func Aligned(n int) bool {
	return n&(MinBlockSize-1) == 0
}

// PayloadSize returns the usable payload bytes of a block with the given
// total size.
func PayloadSize(blockSize int) int {
	return blockSize - Overhead
}
