// Package bittranspose implements the 8x8 bit-matrix transpose over groups
// of eight consecutive bytes: bit i of output byte y_j becomes bit j of
// input byte b_i. After the row/channel differencer most residual bytes
// have their high bits zero; grouping bit positions into whole bytes turns
// that into long runs of zero bytes for the zero-elimination stage to
// remove.
//
// The transform is an involution built from three self-inverse XOR/shift
// butterfly layers, so encode and decode differ only in how the eight
// bytes of a group are addressed (contiguous vs. strided), not in the
// arithmetic applied to them.
package bittranspose

import (
	"encoding/binary"

	"github.com/mrjoshuak/bmpzc/internal/parallel"
)

// butterfly performs the 8x8 bit-matrix transpose of a 64-bit word
// treated as 8 rows of 8 bits each. It is its own inverse.
func butterfly(x uint64) uint64 {
	var t uint64

	t = (x ^ (x >> 7)) & 0x00AA00AA00AA00AA
	x = x ^ t ^ (t << 7)

	t = (x ^ (x >> 14)) & 0x0000CCCC0000CCCC
	x = x ^ t ^ (t << 14)

	t = (x ^ (x >> 28)) & 0x00000000F0F0F0F0
	x = x ^ t ^ (t << 28)

	return x
}

// Encode transposes data in groups of 8 bytes: group g's 8 input bytes
// b0..b7 (b0 least significant) become 8 output bytes y0..y7 written to
// strided positions out[g + j*groups], so the result is 8 "bit-plane"
// slabs of length groups followed by any trailing bytes (data's length
// mod 8) copied verbatim.
func Encode(data []byte, cfg parallel.Config) []byte {
	groups, extra := groupCount(len(data))
	out := make([]byte, len(data))

	parallel.For(groups, cfg, func(g int) {
		x := binary.LittleEndian.Uint64(data[g*8:])
		x = butterfly(x)
		for j := 0; j < 8; j++ {
			out[g+j*groups] = byte(x >> (8 * j))
		}
	})

	if extra > 0 {
		copy(out[groups*8:], data[groups*8:])
	}
	return out
}

// Decode reverses Encode: it reads the 8 strided bytes of group g back
// into a word, applies the same involutive butterfly, and writes the
// word out contiguously.
func Decode(data []byte, cfg parallel.Config) []byte {
	groups, extra := groupCount(len(data))
	out := make([]byte, len(data))

	parallel.For(groups, cfg, func(g int) {
		var x uint64
		for j := 0; j < 8; j++ {
			x |= uint64(data[g+j*groups]) << (8 * j)
		}
		x = butterfly(x)
		binary.LittleEndian.PutUint64(out[g*8:], x)
	})

	if extra > 0 {
		copy(out[groups*8:], data[groups*8:])
	}
	return out
}

// groupCount returns the number of full 8-byte groups in n bytes and the
// size of the verbatim remainder.
func groupCount(n int) (groups, extra int) {
	extra = n % 8
	return (n - extra) / 8, extra
}
