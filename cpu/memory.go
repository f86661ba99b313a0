package cpu

import (
	"encoding/binary"
)

// Access widths, in bytes.
const (
	WIDTH_BYTE = 1
	WIDTH_HALF = 2
	WIDTH_WORD = 4
)

// Memory is a flat little-endian byte-addressable memory.
type Memory struct {
	Data []byte
}

// check validates an access of width bytes at addr.
func (mem *Memory) check(addr uint32, width uint32) (err error) {
	if uint64(addr)+uint64(width) > uint64(len(mem.Data)) {
		err = &ErrAddress{Addr: addr, Width: width}
	}
	return
}

// Read returns the zero-extended value of width bytes at addr.
func (mem *Memory) Read(addr uint32, width uint32) (value uint32, err error) {
	err = mem.check(addr, width)
	if err != nil {
		return
	}

	data := mem.Data[addr : addr+width]
	switch width {
	case WIDTH_BYTE:
		value = uint32(data[0])
	case WIDTH_HALF:
		value = uint32(binary.LittleEndian.Uint16(data))
	case WIDTH_WORD:
		value = binary.LittleEndian.Uint32(data)
	default:
		err = &ErrAddress{Addr: addr, Width: width}
	}

	return
}

// Write stores the low width bytes of value at addr. Bytes outside the
// access are untouched.
func (mem *Memory) Write(addr uint32, width uint32, value uint32) (err error) {
	err = mem.check(addr, width)
	if err != nil {
		return
	}

	data := mem.Data[addr : addr+width]
	switch width {
	case WIDTH_BYTE:
		data[0] = byte(value)
	case WIDTH_HALF:
		binary.LittleEndian.PutUint16(data, uint16(value))
	case WIDTH_WORD:
		binary.LittleEndian.PutUint32(data, value)
	default:
		err = &ErrAddress{Addr: addr, Width: width}
	}

	return
}

// Len returns the memory size in bytes.
func (mem *Memory) Len() int {
	return len(mem.Data)
}
