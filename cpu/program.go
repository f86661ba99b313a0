package cpu

import (
	"encoding/binary"
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instructions.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Codes     []Code
	LinkLabel string
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the opcode covering a PC.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode, and the index of the code within it, at pc.
func (prog *Program) Debug(pc uint32) (dbg Debug) {
	for n, op := range prog.Opcodes {
		start := uint32(op.Pc)
		end := start + uint32(len(op.Codes))*INSTRUCTION_SIZE
		if pc >= start && pc < end {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc-start) / INSTRUCTION_SIZE,
			}
			break
		}
	}

	return
}

// Codes iterates over every code in the program, by PC.
func (prog *Program) Codes() iter.Seq2[uint32, Code] {
	return func(yield func(pc uint32, code Code) bool) {
		for _, op := range prog.Opcodes {
			pc := uint32(op.Pc)
			for n, code := range op.Codes {
				if !yield(pc+uint32(n)*INSTRUCTION_SIZE, code) {
					return
				}
			}
		}
	}
}

// Binary returns the little-endian binary image of the program.
func (prog *Program) Binary() (image []byte) {
	for pc, code := range prog.Codes() {
		end := int(pc) + INSTRUCTION_SIZE
		if len(image) < end {
			image = append(image, make([]byte, end-len(image))...)
		}
		binary.LittleEndian.PutUint32(image[pc:], code.Word)
	}

	return
}
