package decode

import (
	"fmt"
	"slices"

	"github.com/ezrec/rvsim/internal"
)

const (
	OPCODE_BITS = 7                 // Opcode discriminator width.
	OPCODE_MASK = 0x7f              // Mask of the opcode bits.
	FIELD_BITS  = 32 - OPCODE_BITS // Bits available to a format's fields.
)

// field is a single width and its extraction mask.
type field struct {
	width uint
	mask  uint32
}

// Layout decodes the fields of one instruction format.
type Layout struct {
	fields []field // LSB first
}

// NewLayout builds a layout from field widths, narrowest bit position first.
// The widths must total FIELD_BITS.
func NewLayout(widths ...uint) (layout *Layout, err error) {
	var total uint
	for _, width := range widths {
		if width == 0 || width > FIELD_BITS {
			err = fmt.Errorf("%w: width %d", ErrLayoutWidth, width)
			return
		}
		total += width
	}
	if total != FIELD_BITS {
		err = fmt.Errorf("%w: %v totals %d", ErrLayoutWidth, widths, total)
		return
	}

	layout = &Layout{}
	for _, width := range widths {
		layout.fields = append(layout.fields, field{
			width: width,
			mask:  internal.Mask[uint32](width),
		})
	}

	return
}

// Len returns the number of fields in the layout.
func (layout *Layout) Len() int {
	return len(layout.fields)
}

// Widths returns the field widths, most significant field first.
func (layout *Layout) Widths() (widths []uint) {
	for _, fld := range slices.Backward(layout.fields) {
		widths = append(widths, fld.width)
	}
	return
}

// Decode splits word into its fields, most significant field first.
func (layout *Layout) Decode(word uint32) (fields []uint32) {
	fields = make([]uint32, len(layout.fields))

	word >>= OPCODE_BITS
	for n, fld := range layout.fields {
		fields[len(fields)-1-n] = word & fld.mask
		word >>= fld.width
	}

	return
}

// Encode assembles a word from an opcode and fields given most significant
// first. Each value is truncated to its field width.
func (layout *Layout) Encode(opcode uint32, fields ...uint32) (word uint32, err error) {
	if len(fields) != len(layout.fields) {
		err = fmt.Errorf("%w: %d != %d", ErrLayoutFields, len(fields), len(layout.fields))
		return
	}

	shift := uint(OPCODE_BITS)
	for n, fld := range layout.fields {
		word |= (fields[len(fields)-1-n] & fld.mask) << shift
		shift += fld.width
	}
	word |= opcode & OPCODE_MASK

	return
}
