package decode

import (
	"github.com/ezrec/rvsim/internal"
)

// Format is an RV32I base instruction format.
type Format int

//go:generate go tool stringer -linecomment -type=Format
const (
	FORMAT_R = Format(0) // R
	FORMAT_I = Format(1) // I
	FORMAT_S = Format(2) // S
	FORMAT_B = Format(3) // B
	FORMAT_U = Format(4) // U
	FORMAT_J = Format(5) // J
)

// Field indexes of each format, as returned by Decode.
const (
	FR_FUNCT7 = 0
	FR_RS2    = 1
	FR_RS1    = 2
	FR_FUNCT3 = 3
	FR_RD     = 4

	FI_IMM    = 0
	FI_RS1    = 1
	FI_FUNCT3 = 2
	FI_RD     = 3

	FS_IMM_HI = 0 // imm[11:5]
	FS_RS2    = 1
	FS_RS1    = 2
	FS_FUNCT3 = 3
	FS_IMM_LO = 4 // imm[4:0]

	FB_IMM_12   = 0 // imm[12]
	FB_IMM_10_5 = 1 // imm[10:5]
	FB_RS2      = 2
	FB_RS1      = 3
	FB_FUNCT3   = 4
	FB_IMM_4_1  = 5 // imm[4:1]
	FB_IMM_11   = 6 // imm[11]

	FU_IMM = 0 // imm[31:12]
	FU_RD  = 1

	FJ_IMM_20    = 0 // imm[20]
	FJ_IMM_10_1  = 1 // imm[10:1]
	FJ_IMM_11    = 2 // imm[11]
	FJ_IMM_19_12 = 3 // imm[19:12]
	FJ_RD        = 4
)

// formatWidths holds the field widths of each format, LSB first.
var formatWidths = [...][]uint{
	FORMAT_R: {5, 3, 5, 5, 7},
	FORMAT_I: {5, 3, 5, 12},
	FORMAT_S: {5, 3, 5, 5, 7},
	FORMAT_B: {1, 4, 3, 5, 5, 6, 1},
	FORMAT_U: {5, 20},
	FORMAT_J: {5, 8, 1, 10, 1},
}

var formatLayouts [len(formatWidths)]*Layout

func init() {
	for format, widths := range formatWidths {
		layout, err := NewLayout(widths...)
		if err != nil {
			panic(Format(format).String() + ": " + err.Error())
		}
		formatLayouts[format] = layout
	}
}

// Valid returns true if the format is one of the six base formats.
func (format Format) Valid() bool {
	return format >= FORMAT_R && format <= FORMAT_J
}

// Layout returns the field layout of the format.
func (format Format) Layout() *Layout {
	if !format.Valid() {
		return nil
	}
	return formatLayouts[format]
}

// Decode splits a word using the format's layout.
func (format Format) Decode(word uint32) (fields []uint32, err error) {
	layout := format.Layout()
	if layout == nil {
		err = ErrFormat
		return
	}
	fields = layout.Decode(word)
	return
}

// Encode assembles a word using the format's layout.
func (format Format) Encode(opcode uint32, fields ...uint32) (word uint32, err error) {
	layout := format.Layout()
	if layout == nil {
		err = ErrFormat
		return
	}
	return layout.Encode(opcode, fields...)
}

// ImmI returns the sign-extended immediate of decoded I-format fields.
func ImmI(fields []uint32) uint32 {
	return internal.SignExtend(fields[FI_IMM], 12)
}

// ImmS returns the sign-extended immediate of decoded S-format fields.
func ImmS(fields []uint32) uint32 {
	return internal.SignExtend((fields[FS_IMM_HI]<<5)|fields[FS_IMM_LO], 12)
}

// ImmB returns the sign-extended byte offset of decoded B-format fields.
func ImmB(fields []uint32) uint32 {
	imm := (fields[FB_IMM_12] << 12) |
		(fields[FB_IMM_11] << 11) |
		(fields[FB_IMM_10_5] << 5) |
		(fields[FB_IMM_4_1] << 1)
	return internal.SignExtend(imm, 13)
}

// ImmU returns the upper immediate of decoded U-format fields, in place.
func ImmU(fields []uint32) uint32 {
	return fields[FU_IMM] << 12
}

// ImmJ returns the sign-extended byte offset of decoded J-format fields.
func ImmJ(fields []uint32) uint32 {
	imm := (fields[FJ_IMM_20] << 20) |
		(fields[FJ_IMM_19_12] << 12) |
		(fields[FJ_IMM_11] << 11) |
		(fields[FJ_IMM_10_1] << 1)
	return internal.SignExtend(imm, 21)
}

// SplitB returns the B-format immediate fields for a byte offset, in
// field order. Bit 0 of offset is dropped.
func SplitB(offset uint32) (imm12, imm10_5, imm4_1, imm11 uint32) {
	imm12 = internal.Bit(offset, 12)
	imm10_5 = (offset >> 5) & 0x3f
	imm4_1 = (offset >> 1) & 0xf
	imm11 = internal.Bit(offset, 11)
	return
}

// SplitJ returns the J-format immediate fields for a byte offset, in
// field order. Bit 0 of offset is dropped.
func SplitJ(offset uint32) (imm20, imm10_1, imm11, imm19_12 uint32) {
	imm20 = internal.Bit(offset, 20)
	imm10_1 = (offset >> 1) & 0x3ff
	imm11 = internal.Bit(offset, 11)
	imm19_12 = (offset >> 12) & 0xff
	return
}

// SplitS returns the S-format immediate fields for a 12-bit immediate.
func SplitS(imm uint32) (hi, lo uint32) {
	hi = (imm >> 5) & 0x7f
	lo = imm & 0x1f
	return
}
