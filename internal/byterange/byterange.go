// Package byterange implements the non-owning (pointer, length) view over
// station-name bytes that live inside the file mapping. Names are never
// copied: every ByteRange aliases the mapping for as long as the mapping is
// alive.
package byterange

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// hashPrime mixes the length into the hash; its only property that matters
// is that it is odd.
const hashPrime = 820243

// ByteRange is a non-owning view over a slice of the file mapping. Equality
// is byte-wise sequence equality; Hash is the weak, deliberately fast
// 4-byte-prefix-and-length hash from the aggregation contract.
type ByteRange struct {
	data []byte
}

// Of wraps data without copying it. The caller must guarantee data outlives
// every use of the returned ByteRange.
func Of(data []byte) ByteRange { return ByteRange{data: data} }

// Len returns the number of bytes in the range.
func (b ByteRange) Len() int { return len(b.data) }

// Bytes returns the underlying slice. Callers must not retain it past the
// lifetime of the file mapping, and must not mutate it.
func (b ByteRange) Bytes() []byte { return b.data }

// String returns a zero-copy view of the range as a string, aliasing the
// same memory. This is the "zero-copy keys" design: no allocation, no copy,
// valid for exactly as long as the mapping is.
func (b ByteRange) String() string {
	if len(b.data) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b.data), len(b.data))
}

// Equal reports whether two ranges hold byte-identical contents. bytes.Equal
// is implemented with a vectorized bulk compare on amd64/arm64, satisfying
// the "SIMD-friendly" requirement without hand-rolled assembly.
func (b ByteRange) Equal(other ByteRange) bool {
	return bytes.Equal(b.data, other.data)
}

// Hash computes the weak, fast hash specified for the station table: for
// ranges longer than 3 bytes, the length times a fixed prime XORed with the
// little-endian uint32 at the start of the range; for 2-3 bytes, the
// little-endian uint16 prefix; otherwise the single byte. Station names are
// always at least 1 byte, so the single-byte case never reads past the end.
func (b ByteRange) Hash() uint32 {
	n := uint32(len(b.data))
	switch {
	case n > 3:
		return (n * hashPrime) ^ binary.LittleEndian.Uint32(b.data[:4])
	case n > 1:
		return uint32(binary.LittleEndian.Uint16(b.data[:2]))
	default:
		return uint32(b.data[0])
	}
}

// StrongHash is the alternate, collision-resistant hash the design notes
// permit substituting when measurement shows the weak hash's probe chains
// growing too long. It is not used by the production station table — that
// table is specified against the weak hash above — but is offered for
// callers (internal/verify's reference aggregators) that want a real hash
// function over arbitrary-length keys.
func StrongHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}
