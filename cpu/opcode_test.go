package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvsim/decode"
)

func TestCode_Encoding(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code     Code
		expected uint32
	}){
		{MakeCodeLui(A0, 0x12345), 0x12345537},
		{MakeCodeJal(RA, 8), 0x008000ef},
		{MakeCodeJalr(0, RA, 0), 0x00008067},
		{MakeCodeBranch(BRANCH_OP_EQ, A0, A1, 8), 0x00b50463},
		{MakeCodeBranch(BRANCH_OP_NE, A0, 0, 0xfffffffc), 0xfe051ee3},
		{MakeCodeLoad(LOAD_OP_W, A0, SP, 8), 0x00812503},
		{MakeCodeStore(STORE_OP_W, SP, A0, 8), 0x00a12423},
		{MakeCodeAluImm(ALU_OP_ADD, A0, 0, 1), 0x00100513},
		{MakeCodeAluImm(ALU_OP_ADD, 1, 2, 0xfff), 0xfff10093},
		{MakeCodeAluImm(ALU_OP_SRL, A0, A0, (FUNCT7_ALT<<5)|3), 0x40355513},
		{MakeCodeAlu(ALU_OP_ADD, FUNCT7_BASE, A0, A1, A2), 0x00c58533},
		{MakeCodeAlu(ALU_OP_ADD, FUNCT7_ALT, A0, A1, A2), 0x40c58533},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, entry.code.Word, "%08x", entry.expected)
	}
}

func TestCode_Class(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		word   uint32
		class  CodeClass
		format decode.Format
		ok     bool
	}){
		{0x12345537, CLASS_LUI, decode.FORMAT_U, true},
		{0x008000ef, CLASS_JAL, decode.FORMAT_J, true},
		{0x00008067, CLASS_JALR, decode.FORMAT_I, true},
		{0x00b50463, CLASS_BRANCH, decode.FORMAT_B, true},
		{0x00812503, CLASS_LOAD, decode.FORMAT_I, true},
		{0x00a12423, CLASS_STORE, decode.FORMAT_S, true},
		{0x00100513, CLASS_OP_IMM, decode.FORMAT_I, true},
		{0x00c58533, CLASS_OP, decode.FORMAT_R, true},
		{0x00000517, CodeClass(0x17), 0, false},
	}

	for _, entry := range table {
		code := Code{Word: entry.word}
		assert.Equal(entry.class, code.Class())
		format, ok := code.Class().Format()
		assert.Equal(entry.ok, ok)
		if ok {
			assert.Equal(entry.format, format)
		}
	}
}

func TestCode_Fields(t *testing.T) {
	assert := assert.New(t)

	fields, err := Code{Word: 0x00c58533}.Fields()
	assert.NoError(err)
	assert.Equal([]uint32{0, A2, A1, 0, A0}, fields)

	_, err = Code{Word: 0x00000073}.Fields()
	assert.ErrorIs(err, ErrOpcodeUnknown)
}

func TestCode_String(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code     Code
		expected string
	}){
		{MakeCodeLui(A0, 0x12345), "lui a0 0x12345"},
		{MakeCodeJal(RA, 8), "jal ra 8"},
		{MakeCodeJal(0, 0xfffffff0), "jal zero -16"},
		{MakeCodeJalr(0, RA, 0), "jalr zero 0(ra)"},
		{MakeCodeBranch(BRANCH_OP_NE, A0, 0, 0xfffffffc), "bne a0 zero -4"},
		{MakeCodeBranch(BRANCH_OP_GEU, A0, A1, 32), "bgeu a0 a1 32"},
		{MakeCodeLoad(LOAD_OP_W, A0, SP, 8), "lw a0 8(sp)"},
		{MakeCodeLoad(LOAD_OP_BU, A0, SP, 0xfff), "lbu a0 -1(sp)"},
		{MakeCodeStore(STORE_OP_H, SP, A0, 0xffe), "sh a0 -2(sp)"},
		{MakeCodeAluImm(ALU_OP_ADD, A0, 0, 1), "addi a0 zero 1"},
		{MakeCodeAluImm(ALU_OP_SLTU, A0, A1, 5), "sltiu a0 a1 5"},
		{MakeCodeAluImm(ALU_OP_SLL, A0, A1, 5), "slli a0 a1 5"},
		{MakeCodeAluImm(ALU_OP_SRL, A0, A1, 5), "srli a0 a1 5"},
		{MakeCodeAluImm(ALU_OP_SRL, A0, A1, (FUNCT7_ALT<<5)|5), "srai a0 a1 5"},
		{MakeCodeAlu(ALU_OP_ADD, FUNCT7_ALT, A0, A1, A2), "sub a0 a1 a2"},
		{MakeCodeAlu(ALU_OP_SRL, FUNCT7_ALT, A0, A1, A2), "sra a0 a1 a2"},
		{MakeCodeAlu(ALU_OP_AND, FUNCT7_BASE, A0, A1, A2), "and a0 a1 a2"},
	}

	for _, entry := range table {
		assert.Equal(entry.expected, entry.code.String())
	}

	assert.Contains(Code{Word: 0x00000073}.String(), ".word")
}

func TestCodeClass_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("lui", CLASS_LUI.String())
	assert.Equal("op-imm", CLASS_OP_IMM.String())
	assert.Equal("CodeClass(23)", CodeClass(0x17).String())
	assert.Equal("CodeClass(4294967295)", CodeClass(0xffffffff).String())
	assert.Equal("CodeAluOp(4294967295)", CodeAluOp(0xffffffff).String())
	assert.Equal("CodeBranchOp(2147483648)", CodeBranchOp(0x80000000).String())
	assert.Equal("CodeLoadOp(7)", CodeLoadOp(7).String())
	assert.Equal("CodeStoreOp(4294967295)", CodeStoreOp(0xffffffff).String())
}
