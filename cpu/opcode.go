package cpu

import (
	"fmt"

	"github.com/ezrec/rvsim/decode"
)

// CodeClass is the opcode class, the low 7 bits of an instruction word.
type CodeClass uint32

//go:generate go tool stringer -linecomment -type=CodeClass
const (
	CLASS_LOAD   = CodeClass(0x03) // load
	CLASS_OP_IMM = CodeClass(0x13) // op-imm
	CLASS_STORE  = CodeClass(0x23) // store
	CLASS_OP     = CodeClass(0x33) // op
	CLASS_LUI    = CodeClass(0x37) // lui
	CLASS_BRANCH = CodeClass(0x63) // branch
	CLASS_JALR   = CodeClass(0x67) // jalr
	CLASS_JAL    = CodeClass(0x6f) // jal
)

// CodeBranchOp is a branch comparison (funct3).
type CodeBranchOp uint32

//go:generate go tool stringer -linecomment -type=CodeBranchOp
const (
	BRANCH_OP_EQ  = CodeBranchOp(0) // beq
	BRANCH_OP_NE  = CodeBranchOp(1) // bne
	BRANCH_OP_LT  = CodeBranchOp(4) // blt
	BRANCH_OP_GE  = CodeBranchOp(5) // bge
	BRANCH_OP_LTU = CodeBranchOp(6) // bltu
	BRANCH_OP_GEU = CodeBranchOp(7) // bgeu
)

// CodeLoadOp is a load width and extension (funct3).
type CodeLoadOp uint32

//go:generate go tool stringer -linecomment -type=CodeLoadOp
const (
	LOAD_OP_B  = CodeLoadOp(0) // lb
	LOAD_OP_H  = CodeLoadOp(1) // lh
	LOAD_OP_W  = CodeLoadOp(2) // lw
	LOAD_OP_BU = CodeLoadOp(4) // lbu
	LOAD_OP_HU = CodeLoadOp(5) // lhu
)

// CodeStoreOp is a store width (funct3).
type CodeStoreOp uint32

//go:generate go tool stringer -linecomment -type=CodeStoreOp
const (
	STORE_OP_B = CodeStoreOp(0) // sb
	STORE_OP_H = CodeStoreOp(1) // sh
	STORE_OP_W = CodeStoreOp(2) // sw
)

// CodeAluOp is an ALU operation (funct3) of the op and op-imm classes.
type CodeAluOp uint32

//go:generate go tool stringer -linecomment -type=CodeAluOp
const (
	ALU_OP_ADD  = CodeAluOp(0) // add
	ALU_OP_SLL  = CodeAluOp(1) // sll
	ALU_OP_SLT  = CodeAluOp(2) // slt
	ALU_OP_SLTU = CodeAluOp(3) // sltu
	ALU_OP_XOR  = CodeAluOp(4) // xor
	ALU_OP_SRL  = CodeAluOp(5) // srl
	ALU_OP_OR   = CodeAluOp(6) // or
	ALU_OP_AND  = CodeAluOp(7) // and
)

// funct7 values of the op class.
const (
	FUNCT7_BASE = 0x00 // add, srl, ...
	FUNCT7_ALT  = 0x20 // sub, sra
)

// Code is a single 32-bit instruction word.
type Code struct {
	Word uint32
}

// Class returns the opcode class of the instruction.
func (code Code) Class() CodeClass {
	return CodeClass(code.Word & decode.OPCODE_MASK)
}

// Format returns the instruction format of the opcode class.
func (class CodeClass) Format() (format decode.Format, ok bool) {
	ok = true
	switch class {
	case CLASS_LUI:
		format = decode.FORMAT_U
	case CLASS_JAL:
		format = decode.FORMAT_J
	case CLASS_JALR, CLASS_LOAD, CLASS_OP_IMM:
		format = decode.FORMAT_I
	case CLASS_BRANCH:
		format = decode.FORMAT_B
	case CLASS_STORE:
		format = decode.FORMAT_S
	case CLASS_OP:
		format = decode.FORMAT_R
	default:
		ok = false
	}
	return
}

// Fields decodes the operand fields of the instruction.
func (code Code) Fields() (fields []uint32, err error) {
	format, ok := code.Class().Format()
	if !ok {
		err = ErrOpcodeUnknown
		return
	}
	return format.Decode(code.Word)
}

// makeCode encodes an instruction of a class from its fields.
func makeCode(class CodeClass, fields ...uint32) Code {
	format, ok := class.Format()
	if !ok {
		panic(fmt.Sprintf("class %v has no format", class))
	}
	word, err := format.Encode(uint32(class), fields...)
	if err != nil {
		panic(err)
	}
	return Code{Word: word}
}

// MakeCodeLui creates a load-upper-immediate instruction.
func MakeCodeLui(rd uint32, imm20 uint32) Code {
	return makeCode(CLASS_LUI, imm20, rd)
}

// MakeCodeJal creates a jump-and-link instruction to a PC relative offset.
func MakeCodeJal(rd uint32, offset uint32) Code {
	imm20, imm10_1, imm11, imm19_12 := decode.SplitJ(offset)
	return makeCode(CLASS_JAL, imm20, imm10_1, imm11, imm19_12, rd)
}

// MakeCodeJalr creates a jump-and-link-register instruction.
func MakeCodeJalr(rd, rs1 uint32, imm uint32) Code {
	return makeCode(CLASS_JALR, imm, rs1, 0, rd)
}

// MakeCodeBranch creates a conditional branch to a PC relative offset.
func MakeCodeBranch(op CodeBranchOp, rs1, rs2 uint32, offset uint32) Code {
	imm12, imm10_5, imm4_1, imm11 := decode.SplitB(offset)
	return makeCode(CLASS_BRANCH, imm12, imm10_5, rs2, rs1, uint32(op), imm4_1, imm11)
}

// MakeCodeLoad creates a memory load instruction.
func MakeCodeLoad(op CodeLoadOp, rd, rs1 uint32, imm uint32) Code {
	return makeCode(CLASS_LOAD, imm, rs1, uint32(op), rd)
}

// MakeCodeStore creates a memory store instruction.
func MakeCodeStore(op CodeStoreOp, rs1, rs2 uint32, imm uint32) Code {
	hi, lo := decode.SplitS(imm)
	return makeCode(CLASS_STORE, hi, rs2, rs1, uint32(op), lo)
}

// MakeCodeAluImm creates an ALU operation against an immediate.
// For shifts, imm carries the funct7 bits above the shift amount.
func MakeCodeAluImm(op CodeAluOp, rd, rs1 uint32, imm uint32) Code {
	return makeCode(CLASS_OP_IMM, imm, rs1, uint32(op), rd)
}

// MakeCodeAlu creates a register-register ALU operation.
func MakeCodeAlu(op CodeAluOp, funct7 uint32, rd, rs1, rs2 uint32) Code {
	return makeCode(CLASS_OP, funct7, rs2, rs1, uint32(op), rd)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	fields, err := code.Fields()
	if err != nil {
		return fmt.Sprintf(".word %#08x", code.Word)
	}

	reg := func(n uint32) string { return RegisterName(n) }

	switch code.Class() {
	case CLASS_LUI:
		out = fmt.Sprintf("lui %v %#x", reg(fields[decode.FU_RD]), fields[decode.FU_IMM])
	case CLASS_JAL:
		out = fmt.Sprintf("jal %v %d", reg(fields[decode.FJ_RD]), int32(decode.ImmJ(fields)))
	case CLASS_JALR:
		out = fmt.Sprintf("jalr %v %d(%v)", reg(fields[decode.FI_RD]), int32(decode.ImmI(fields)), reg(fields[decode.FI_RS1]))
	case CLASS_BRANCH:
		op := CodeBranchOp(fields[decode.FB_FUNCT3])
		out = fmt.Sprintf("%v %v %v %d", op, reg(fields[decode.FB_RS1]), reg(fields[decode.FB_RS2]), int32(decode.ImmB(fields)))
	case CLASS_LOAD:
		op := CodeLoadOp(fields[decode.FI_FUNCT3])
		out = fmt.Sprintf("%v %v %d(%v)", op, reg(fields[decode.FI_RD]), int32(decode.ImmI(fields)), reg(fields[decode.FI_RS1]))
	case CLASS_STORE:
		op := CodeStoreOp(fields[decode.FS_FUNCT3])
		out = fmt.Sprintf("%v %v %d(%v)", op, reg(fields[decode.FS_RS2]), int32(decode.ImmS(fields)), reg(fields[decode.FS_RS1]))
	case CLASS_OP_IMM:
		op := CodeAluOp(fields[decode.FI_FUNCT3])
		imm := decode.ImmI(fields)
		name := op.String() + "i"
		switch op {
		case ALU_OP_SLTU:
			name = "sltiu"
		case ALU_OP_SRL:
			if (imm>>5)&0x7f == FUNCT7_ALT {
				name = "srai"
			}
			fallthrough
		case ALU_OP_SLL:
			imm &= 0x1f
		}
		out = fmt.Sprintf("%v %v %v %d", name, reg(fields[decode.FI_RD]), reg(fields[decode.FI_RS1]), int32(imm))
	case CLASS_OP:
		op := CodeAluOp(fields[decode.FR_FUNCT3])
		name := op.String()
		if fields[decode.FR_FUNCT7] == FUNCT7_ALT {
			switch op {
			case ALU_OP_ADD:
				name = "sub"
			case ALU_OP_SRL:
				name = "sra"
			}
		}
		out = fmt.Sprintf("%v %v %v %v", name, reg(fields[decode.FR_RD]), reg(fields[decode.FR_RS1]), reg(fields[decode.FR_RS2]))
	}

	return
}
