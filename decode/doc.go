// Package decode splits RV32I instruction words into their operand fields.
//
// Each of the six base instruction formats (R, I, S, B, U and J) is
// described by a Layout: the widths of its fields, counted upward from the
// bit just above the 7-bit opcode. Decoding yields the fields ordered from
// the most significant to the least significant, and Encode performs the
// inverse. The F* constants name the index of every field in that ordering.
package decode
