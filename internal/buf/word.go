// Package buf contains helpers for reading and writing heap words in the
// backing byte slice, plus overflow-safe integer arithmetic.
package buf

import "encoding/binary"

// WordSize is the size of one heap word in bytes. Boundary tags and free-list
// links each occupy exactly one word.
const WordSize = 8

// Word reads the little-endian 64-bit word at off. Returns 0 when the slice
// is too short.
func Word(b []byte, off int) uint64 {
	if off < 0 || off+WordSize > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint64(b[off:])
}

// PutWord writes v as a little-endian 64-bit word at off. Out-of-bounds
// writes are silently dropped; callers validate offsets before writing.
func PutWord(b []byte, off int, v uint64) {
	if off < 0 || off+WordSize > len(b) {
		return
	}
	binary.LittleEndian.PutUint64(b[off:], v)
}
