// Package internal holds bit manipulation helpers shared by the decoder and
// the execution engine.
package internal

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Mask returns a value with the low width bits set.
func Mask[T constraints.Unsigned](width uint) T {
	if width == 0 {
		return 0
	}
	return ^T(0) >> (uint(bits.Len64(uint64(^T(0)))) - width)
}

// SignExtend widens the low width bits of value to 32 bits by replicating
// bit width-1.
func SignExtend[T constraints.Unsigned](value T, width uint) uint32 {
	v := uint32(value) & Mask[uint32](width)
	sign := uint32(1) << (width - 1)
	return (v ^ sign) - sign
}

// Bit returns bit n of value as 0 or 1.
func Bit[T constraints.Unsigned](value T, n uint) T {
	return (value >> n) & 1
}
