package utils

import "encoding/binary"

// The wire format is big-endian throughout (Devicetree Specification
// v0.4 §5.1); these helpers decode explicitly rather than relying on host
// byte order, mirroring the teacher's ReadUint64 helper but operating
// directly on a byte slice since the raw layer is zero-copy.

// U32 reads a 32-bit big-endian word at off. The caller must have already
// bounds-checked off+4 <= len(b).
func U32(b []byte, off int) uint32 {
	return binary.BigEndian.Uint32(b[off : off+4])
}

// U64 reads a 64-bit big-endian word at off.
func U64(b []byte, off int) uint64 {
	return binary.BigEndian.Uint64(b[off : off+8])
}

// PutU32 writes a 32-bit big-endian word at off.
func PutU32(b []byte, off int, v uint32) {
	binary.BigEndian.PutUint32(b[off:off+4], v)
}

// PutU64 writes a 64-bit big-endian word at off.
func PutU64(b []byte, off int, v uint64) {
	binary.BigEndian.PutUint64(b[off:off+8], v)
}

// Align4 rounds n up to the next multiple of 4.
func Align4(n int) int {
	return (n + 3) &^ 3
}

// Align8 rounds n up to the next multiple of 8.
func Align8(n int) int {
	return (n + 7) &^ 7
}
