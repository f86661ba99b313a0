// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/rvsim/decode"
	"github.com/ezrec/rvsim/internal"
)

const (
	INSTRUCTION_SIZE = 4 // Bytes per instruction word.
)

var _cpu_defines = map[string]string{
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", INSTRUCTION_SIZE),
	"REGISTER_COUNT":   fmt.Sprintf("%d", REGISTER_COUNT),
}

// Cpu is the simulation context for an RV32I hart.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Entry    uint32    // PC after a reset.
	Pc       uint32    // Current program counter.
	Register Registers // Register bank.
	Memory   Memory    // Code and data memory.

	Ticks int // Instructions retired since reset.

	image []byte // Image restored on reset.
}

// NewCpu creates a new CPU executing a binary image. The image is copied;
// it also serves as the data memory, so callers needing more data space
// zero-pad the image first.
func NewCpu(image []byte) (cpu *Cpu) {
	cpu = &Cpu{
		image: slices.Clone(image),
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Image returns the binary image restored on reset.
func (cpu *Cpu) Image() []byte {
	return cpu.image
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %04X_%04X\n", "pc", cpu.Pc>>16, cpu.Pc&0xffff)
	for n := range uint32(REGISTER_COUNT) {
		val := cpu.Register.Get(n)
		text += fmt.Sprintf("% 5s: %04X_%04X\n", RegisterName(n), val>>16, val&0xffff)
	}

	return
}

// Reset the CPU state.
// - Clears the registers.
// - Restores memory to the loaded image.
// - Zeros statistics counters.
// - Sets the PC to the entry point.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.Memory.Data = slices.Clone(cpu.image)
	if cpu.Memory.Data == nil {
		cpu.Memory.Data = []byte{}
	}
	cpu.Ticks = 0
	cpu.Pc = cpu.Entry
}

// FetchCode fetches the instruction at the PC.
// Returns ErrPcEnd once the PC has left the image.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if uint64(cpu.Pc) >= uint64(cpu.Memory.Len()) {
		err = ErrPcEnd
		return
	}

	word, err := cpu.Memory.Read(cpu.Pc, INSTRUCTION_SIZE)
	if err != nil {
		return
	}

	code = Code{Word: word}
	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		if err != ErrPcEnd {
			err = &ErrInstruction{Pc: cpu.Pc, Err: err}
		}
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks += 1

	return
}

// Execute executes a single instruction at the current PC.
// On error no architectural state has been changed.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = &ErrInstruction{Pc: cpu.Pc, Code: code, Err: err}
		}
	}()
	if cpu.Verbose {
		log.Printf("%08x: %08x %v", cpu.Pc, code.Word, code)
	}

	fields, err := code.Fields()
	if err != nil {
		return
	}

	switch code.Class() {
	case CLASS_LUI:
		cpu.execLui(fields)
	case CLASS_JAL:
		cpu.execJal(fields)
	case CLASS_JALR:
		err = cpu.execJalr(fields)
	case CLASS_BRANCH:
		err = cpu.execBranch(fields)
	case CLASS_LOAD:
		err = cpu.execLoad(fields)
	case CLASS_STORE:
		err = cpu.execStore(fields)
	case CLASS_OP_IMM:
		err = cpu.execOpImm(fields)
	case CLASS_OP:
		err = cpu.execOp(fields)
	default:
		err = ErrOpcodeUnknown
	}

	return
}

// execLui: rd = imm << 12
func (cpu *Cpu) execLui(fields []uint32) {
	cpu.Register.Set(fields[decode.FU_RD], decode.ImmU(fields))
	cpu.Pc += INSTRUCTION_SIZE
}

// execJal: rd = pc + 4; pc += imm
func (cpu *Cpu) execJal(fields []uint32) {
	target := cpu.Pc + decode.ImmJ(fields)
	cpu.Register.Set(fields[decode.FJ_RD], cpu.Pc+INSTRUCTION_SIZE)
	cpu.Pc = target
}

// execJalr: rd = pc + 4; pc = (rs1 + imm) & ~1
func (cpu *Cpu) execJalr(fields []uint32) (err error) {
	if fields[decode.FI_FUNCT3] != 0 {
		err = ErrOpcodeFunct
		return
	}

	target := (cpu.Register.Get(fields[decode.FI_RS1]) + decode.ImmI(fields)) &^ 1
	cpu.Register.Set(fields[decode.FI_RD], cpu.Pc+INSTRUCTION_SIZE)
	cpu.Pc = target

	return
}

// execBranch: if rs1 <op> rs2 { pc += imm }
func (cpu *Cpu) execBranch(fields []uint32) (err error) {
	a := cpu.Register.Get(fields[decode.FB_RS1])
	b := cpu.Register.Get(fields[decode.FB_RS2])

	var taken bool
	switch CodeBranchOp(fields[decode.FB_FUNCT3]) {
	case BRANCH_OP_EQ:
		taken = a == b
	case BRANCH_OP_NE:
		taken = a != b
	case BRANCH_OP_LT:
		taken = int32(a) < int32(b)
	case BRANCH_OP_GE:
		taken = int32(a) >= int32(b)
	case BRANCH_OP_LTU:
		taken = a < b
	case BRANCH_OP_GEU:
		taken = a >= b
	default:
		err = ErrOpcodeFunct
		return
	}

	if taken {
		cpu.Pc += decode.ImmB(fields)
	} else {
		cpu.Pc += INSTRUCTION_SIZE
	}

	return
}

// execLoad: rd = mem[rs1 + imm]
func (cpu *Cpu) execLoad(fields []uint32) (err error) {
	rd := fields[decode.FI_RD]
	if rd == 0 {
		err = ErrRegisterZero
		return
	}

	var width uint32
	var signed bool
	switch CodeLoadOp(fields[decode.FI_FUNCT3]) {
	case LOAD_OP_B:
		width, signed = WIDTH_BYTE, true
	case LOAD_OP_H:
		width, signed = WIDTH_HALF, true
	case LOAD_OP_W:
		width = WIDTH_WORD
	case LOAD_OP_BU:
		width = WIDTH_BYTE
	case LOAD_OP_HU:
		width = WIDTH_HALF
	default:
		err = ErrOpcodeFunct
		return
	}

	addr := cpu.Register.Get(fields[decode.FI_RS1]) + decode.ImmI(fields)
	value, err := cpu.Memory.Read(addr, width)
	if err != nil {
		return
	}
	if signed {
		value = internal.SignExtend(value, uint(width*8))
	}

	cpu.Register.Set(rd, value)
	cpu.Pc += INSTRUCTION_SIZE

	return
}

// execStore: mem[rs1 + imm] = rs2
func (cpu *Cpu) execStore(fields []uint32) (err error) {
	var width uint32
	switch CodeStoreOp(fields[decode.FS_FUNCT3]) {
	case STORE_OP_B:
		width = WIDTH_BYTE
	case STORE_OP_H:
		width = WIDTH_HALF
	case STORE_OP_W:
		width = WIDTH_WORD
	default:
		err = ErrOpcodeFunct
		return
	}

	addr := cpu.Register.Get(fields[decode.FS_RS1]) + decode.ImmS(fields)
	err = cpu.Memory.Write(addr, width, cpu.Register.Get(fields[decode.FS_RS2]))
	if err != nil {
		return
	}

	cpu.Pc += INSTRUCTION_SIZE

	return
}

// execOpImm: rd = rs1 <op> imm
func (cpu *Cpu) execOpImm(fields []uint32) (err error) {
	rd := fields[decode.FI_RD]
	if rd == 0 {
		err = ErrRegisterZero
		return
	}

	op := CodeAluOp(fields[decode.FI_FUNCT3])
	imm := decode.ImmI(fields)

	// Shifts carry funct7 above a 5-bit shift amount.
	var funct7 uint32
	switch op {
	case ALU_OP_SLL, ALU_OP_SRL:
		funct7 = (fields[decode.FI_IMM] >> 5) & 0x7f
		imm &= 0x1f
	}

	value, ok := doAlu(op, funct7, cpu.Register.Get(fields[decode.FI_RS1]), imm)
	if !ok {
		err = ErrOpcodeUnsupported
		return
	}

	cpu.Register.Set(rd, value)
	cpu.Pc += INSTRUCTION_SIZE

	return
}

// execOp: rd = rs1 <op> rs2
func (cpu *Cpu) execOp(fields []uint32) (err error) {
	op := CodeAluOp(fields[decode.FR_FUNCT3])
	a := cpu.Register.Get(fields[decode.FR_RS1])
	b := cpu.Register.Get(fields[decode.FR_RS2])

	value, ok := doAlu(op, fields[decode.FR_FUNCT7], a, b)
	if !ok {
		err = ErrOpcodeUnsupported
		return
	}

	cpu.Register.Set(fields[decode.FR_RD], value)
	cpu.Pc += INSTRUCTION_SIZE

	return
}

// doAlu performs the requested ALU action, and returns the output value.
// ok is false for funct7 variants that are not part of RV32I.
func doAlu(op CodeAluOp, funct7 uint32, a, b uint32) (output uint32, ok bool) {
	ok = funct7 == FUNCT7_BASE

	switch op {
	case ALU_OP_ADD:
		switch funct7 {
		case FUNCT7_BASE:
			output = a + b
		case FUNCT7_ALT:
			output = a - b
			ok = true
		}
	case ALU_OP_SLL:
		output = a << (b & 0x1f)
	case ALU_OP_SLT:
		if int32(a) < int32(b) {
			output = 1
		}
	case ALU_OP_SLTU:
		if a < b {
			output = 1
		}
	case ALU_OP_XOR:
		output = a ^ b
	case ALU_OP_SRL:
		switch funct7 {
		case FUNCT7_BASE:
			output = a >> (b & 0x1f)
		case FUNCT7_ALT:
			output = uint32(int32(a) >> (b & 0x1f))
			ok = true
		}
	case ALU_OP_OR:
		output = a | b
	case ALU_OP_AND:
		output = a & b
	default:
		ok = false
	}

	if !ok {
		output = 0
	}

	return
}
