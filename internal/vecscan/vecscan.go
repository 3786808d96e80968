// Package vecscan locates record delimiters inside a mapped byte range.
//
// A 32-byte SIMD compare with a move-mask bit-scan is the fastest way to do
// this, but Go has no portable intrinsics surface for that without cgo or
// per-arch assembly. This is written as SWAR (SIMD Within A Register)
// instead: broadcast the needle across a machine word, XOR, and use a
// has-zero-byte bit trick to get the same move-mask-and-bit-scan shape a
// real vector compare would, just at 8-byte (one word) granularity stepped
// four at a time to approximate a 32-byte window.
package vecscan

import (
	"bytes"
	"math/bits"

	"golang.org/x/sys/cpu"
)

const wordSize = 8

// the classic SWAR has-zero-byte constants (Alan Mycroft / Henry Warren).
const (
	loBits = 0x0101010101010101
	hiBits = 0x8080808080808080
)

// Supported reports whether the host CPU has the vector capability this
// design assumes. On amd64 that's AVX2 (256-bit lanes); on arm64, NEON
// (which every arm64 core has, but we check anyway to keep the contract
// honest on exotic builds). Anything else is unsupported. Callers should
// treat a false return as a fatal environment error and exit before opening
// the input file.
func Supported() bool {
	switch {
	case cpu.X86.HasAVX2:
		return true
	case cpu.ARM64.HasASIMD:
		return true
	default:
		return false
	}
}

// broadcast replicates b into every byte of a 64-bit word.
func broadcast(b byte) uint64 {
	return loBits * uint64(b)
}

// firstZeroByte returns the index (0-7) of the first zero byte in w,
// reading little-endian (byte 0 is the least-significant byte), or -1 if
// there is none. This is the move-mask-and-bit-scan step, just operating on
// an 8-byte word instead of a 32-byte vector register.
func firstZeroByte(w uint64) int {
	// has-zero-byte trick: a byte is (possibly) zero where this expression
	// has its high bit set.
	t := (w - loBits) &^ w & hiBits
	if t == 0 {
		return -1
	}
	return bits.TrailingZeros64(t) / 8
}

// Find returns the index of the first occurrence of needle in data at or
// after start, or len(data) if there is none.
func Find(data []byte, start int, needle byte) int {
	n := len(data)
	i := start
	mask := broadcast(needle)

	// Process 4 words (32 bytes) per iteration, echoing a 32-byte vector
	// window.
	for i+32 <= n {
		for lane := 0; lane < 4; lane++ {
			off := i + lane*wordSize
			w := leUint64(data[off : off+wordSize])
			if z := firstZeroByte(w ^ mask); z >= 0 {
				return off + z
			}
		}
		i += 32
	}

	for i+wordSize <= n {
		w := leUint64(data[i : i+wordSize])
		if z := firstZeroByte(w ^ mask); z >= 0 {
			return i + z
		}
		i += wordSize
	}

	if idx := bytes.IndexByte(data[i:], needle); idx >= 0 {
		return i + idx
	}
	return n
}

// FindTwo returns the first and second occurrence of needle at or after
// start, amortizing one load across adjacent records since the average
// measurement line is short enough for two delimiters to share a window.
// second is len(data) if there is no second occurrence (or no occurrence at
// all, in which case first is also len(data)).
func FindTwo(data []byte, start int, needle byte) (first, second int) {
	n := len(data)
	mask := broadcast(needle)
	i := start

	for i+wordSize <= n {
		w := leUint64(data[i:i+wordSize]) ^ mask
		t := (w - loBits) &^ w & hiBits
		if t != 0 {
			z1 := bits.TrailingZeros64(t) / 8
			first = i + z1

			// Clear the matched byte's high bit and look for a second hit
			// in the same word before falling back to Find for the rest.
			// A bit above a real match can be a borrow artefact of the
			// has-zero-byte trick, so the byte is checked before use.
			cleared := t &^ (uint64(0x80) << uint(z1*8))
			if cleared != 0 {
				z2 := bits.TrailingZeros64(cleared) / 8
				if data[i+z2] == needle {
					second = i + z2
					return first, second
				}
			}
			second = Find(data, first+1, needle)
			return first, second
		}
		i += wordSize
	}

	first = Find(data, i, needle)
	if first == n {
		return n, n
	}
	second = Find(data, first+1, needle)
	return first, second
}

func leUint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
