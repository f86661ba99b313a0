// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rvsim/decode"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":           "0",
	"INSTRUCTION_SIZE": fmt.Sprintf("%d", INSTRUCTION_SIZE),
}

// Assembler is a single pass RV32I assembler. Jump and branch labels are
// linked once the whole input has been read.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to PCs.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// registerMap maps register names, numeric and ABI, to indexes.
var registerMap = func() map[string]uint32 {
	regs := map[string]uint32{"fp": 8}
	for n := range uint32(REGISTER_COUNT) {
		regs[fmt.Sprintf("x%d", n)] = n
		regs[RegisterName(n)] = n
	}
	return regs
}()

// aluMap maps register-register ALU mnemonics to operation and funct7.
var aluMap = map[string]struct {
	op     CodeAluOp
	funct7 uint32
}{
	"add":  {ALU_OP_ADD, FUNCT7_BASE},
	"sub":  {ALU_OP_ADD, FUNCT7_ALT},
	"sll":  {ALU_OP_SLL, FUNCT7_BASE},
	"slt":  {ALU_OP_SLT, FUNCT7_BASE},
	"sltu": {ALU_OP_SLTU, FUNCT7_BASE},
	"xor":  {ALU_OP_XOR, FUNCT7_BASE},
	"srl":  {ALU_OP_SRL, FUNCT7_BASE},
	"sra":  {ALU_OP_SRL, FUNCT7_ALT},
	"or":   {ALU_OP_OR, FUNCT7_BASE},
	"and":  {ALU_OP_AND, FUNCT7_BASE},
}

// aluImmMap maps register-immediate ALU mnemonics.
var aluImmMap = map[string]CodeAluOp{
	"addi":  ALU_OP_ADD,
	"slti":  ALU_OP_SLT,
	"sltiu": ALU_OP_SLTU,
	"xori":  ALU_OP_XOR,
	"ori":   ALU_OP_OR,
	"andi":  ALU_OP_AND,
}

// shiftImmMap maps shift-immediate mnemonics to operation and funct7.
var shiftImmMap = map[string]struct {
	op     CodeAluOp
	funct7 uint32
}{
	"slli": {ALU_OP_SLL, FUNCT7_BASE},
	"srli": {ALU_OP_SRL, FUNCT7_BASE},
	"srai": {ALU_OP_SRL, FUNCT7_ALT},
}

var branchMap = map[string]CodeBranchOp{
	"beq":  BRANCH_OP_EQ,
	"bne":  BRANCH_OP_NE,
	"blt":  BRANCH_OP_LT,
	"bge":  BRANCH_OP_GE,
	"bltu": BRANCH_OP_LTU,
	"bgeu": BRANCH_OP_GEU,
}

var loadMap = map[string]CodeLoadOp{
	"lb":  LOAD_OP_B,
	"lh":  LOAD_OP_H,
	"lw":  LOAD_OP_W,
	"lbu": LOAD_OP_BU,
	"lhu": LOAD_OP_HU,
}

var storeMap = map[string]CodeStoreOp{
	"sb": STORE_OP_B,
	"sh": STORE_OP_H,
	"sw": STORE_OP_W,
}

var (
	reLabel      = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reOffsetBase = regexp.MustCompile(`^([^()]*)\(([^()]+)\)$`)
)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value uint32, err error) {
	invert := false
	if len(word) > 0 && word[0] == '~' {
		invert = true
		word = word[1:]
	}
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > 0xffffffff || v64 < -int64(0x80000000) {
		err = ErrRange{Value: v64, Bits: 32}
		return
	}

	value = uint32(v64)

	if invert {
		value = ^value
	}

	return
}

// signed returns a value that must fit a signed field of bits width,
// truncated to the field.
func (asm *Assembler) signed(word string, bits int) (value uint32, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	v := int64(int32(value))
	if v < -(int64(1)<<(bits-1)) || v >= int64(1)<<(bits-1) {
		err = ErrRange{Value: v, Bits: bits}
		return
	}

	value &= (uint32(1) << bits) - 1
	return
}

// unsigned returns a value that must fit an unsigned field of bits width.
func (asm *Assembler) unsigned(word string, bits int) (value uint32, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	if uint64(value) >= uint64(1)<<bits {
		err = ErrRange{Value: int64(value), Bits: bits}
		return
	}

	return
}

// register returns the index of a register name.
func (asm *Assembler) register(word string) (reg uint32, err error) {
	reg, ok := registerMap[word]
	if !ok {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
	}
	return
}

// registers parses a list of register names.
func (asm *Assembler) registers(words ...string) (regs []uint32, err error) {
	for _, word := range words {
		var reg uint32
		reg, err = asm.register(word)
		if err != nil {
			return
		}
		regs = append(regs, reg)
	}
	return
}

// offsetBase parses a memory operand, either 'imm(reg)' or 'reg imm'.
func (asm *Assembler) offsetBase(words ...string) (imm uint32, base uint32, err error) {
	switch len(words) {
	case 0:
		err = ErrOpcodeMissing
		return
	case 1:
		match := reOffsetBase.FindStringSubmatch(words[0])
		if match == nil {
			err = fmt.Errorf("%w: %v", ErrRegisterInvalid, words[0])
			return
		}
		offset := match[1]
		if len(offset) == 0 {
			offset = "0"
		}
		base, err = asm.register(match[2])
		if err != nil {
			return
		}
		imm, err = asm.signed(offset, 12)
	case 2:
		base, err = asm.register(words[0])
		if err != nil {
			return
		}
		imm, err = asm.signed(words[1], 12)
	default:
		err = ErrOpcodeExtraArgs
	}

	return
}

// target parses a jump or branch target, either a label or a numeric
// PC relative offset.
func (asm *Assembler) target(word string, bits int) (offset uint32, label string, err error) {
	_, err = asm.valueOf(word)
	if err != nil {
		if !reLabel.MatchString(word) {
			err = fmt.Errorf("%w: %v", ErrTargetInvalid, word)
			return
		}
		err = nil
		label = word
		return
	}

	offset, err = asm.signed(word, bits)
	if err != nil {
		return
	}
	if offset&1 != 0 {
		err = fmt.Errorf("%w: %v", ErrTargetInvalid, word)
		return
	}

	// Keep the full sign-extended offset for encoding.
	offset, _ = asm.valueOf(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint32, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value32 uint32
		value32, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(int64(int32(value32)))
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt(pc)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = uint32(st_int64)
	return
}

// parenExpand replaces each $(...) in line with its value. The expression
// ends at the matching close parenthesis, so '$(OFF)(sp)' keeps its base.
func (asm *Assembler) parenExpand(line string) (out string, err error) {
	var sb strings.Builder

	for {
		start := strings.Index(line, "$(")
		if start < 0 {
			break
		}

		end := -1
		depth := 0
		for n := start + 1; n < len(line) && end < 0; n++ {
			switch line[n] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = n
				}
			}
		}
		if end < 0 {
			err = ErrParseExpression(line[start+2:])
			return
		}

		var value uint32
		value, err = asm.parenEval(line[start+2 : end])
		if err != nil {
			return
		}

		sb.WriteString(line[:start])
		sb.WriteString(strconv.Itoa(int(int32(value))))
		line = line[end+1:]
	}

	sb.WriteString(line)
	out = sb.String()
	return
}

// parseLine parses a single line into words, handling expressions,
// equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line, err = asm.parenExpand(line)
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentPc gets the current PC
func (asm *Assembler) currentPc() int {
	if len(asm.Opcode) == 0 {
		return 0
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Pc + len(last.Codes)*INSTRUCTION_SIZE
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		if n := strings.IndexAny(text, ";#"); n >= 0 {
			text = text[:n]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		err = asm.link(op, uint32(pc-op.Pc))
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link patches the PC relative offset of a jump or branch opcode.
func (asm *Assembler) link(op *Opcode, offset uint32) (err error) {
	linked := &op.Codes[len(op.Codes)-1]
	fields, err := linked.Fields()
	if err != nil {
		return
	}

	word := fmt.Sprintf("%d", int32(offset))
	switch linked.Class() {
	case CLASS_JAL:
		_, _, err = asm.target(word, 21)
		if err != nil {
			return
		}
		*linked = MakeCodeJal(fields[decode.FJ_RD], offset)
	case CLASS_BRANCH:
		_, _, err = asm.target(word, 13)
		if err != nil {
			return
		}
		*linked = MakeCodeBranch(CodeBranchOp(fields[decode.FB_FUNCT3]),
			fields[decode.FB_RS1], fields[decode.FB_RS2], offset)
	default:
		err = ErrTargetInvalid
	}

	return
}

// expect checks the operand count of a mnemonic.
func expect(words []string, count int) (err error) {
	switch {
	case len(words) < count+1:
		err = ErrOpcodeMissing
	case len(words) > count+1:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.currentPc(), Words: initial_words, Codes: codes, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	// Pseudo instruction substitutions
	switch {
	case len(words) == 2 && words[0] == "j":
		words = []string{"jal", "zero", words[1]}
	case len(words) == 2 && words[0] == "call":
		words = []string{"jal", "ra", words[1]}
	case len(words) == 2 && words[0] == "jal":
		words = []string{"jal", "ra", words[1]}
	case len(words) == 1 && words[0] == "ret":
		words = []string{"jalr", "zero", "ra", "0"}
	case len(words) == 2 && words[0] == "jalr":
		words = []string{"jalr", "ra", words[1], "0"}
	case len(words) == 3 && words[0] == "mv":
		words = []string{"addi", words[1], words[2], "0"}
	case len(words) == 3 && words[0] == "li":
		words = []string{"addi", words[1], "zero", words[2]}
	default:
		// unchanged
	}

	mnemonic := words[0]

	if alu, ok := aluMap[mnemonic]; ok {
		err = expect(words, 3)
		if err != nil {
			return
		}
		var regs []uint32
		regs, err = asm.registers(words[1:]...)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAlu(alu.op, alu.funct7, regs[0], regs[1], regs[2]))
		return
	}

	if op, ok := aluImmMap[mnemonic]; ok {
		err = expect(words, 3)
		if err != nil {
			return
		}
		var regs []uint32
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		var imm uint32
		imm, err = asm.signed(words[3], 12)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAluImm(op, regs[0], regs[1], imm))
		return
	}

	if shift, ok := shiftImmMap[mnemonic]; ok {
		err = expect(words, 3)
		if err != nil {
			return
		}
		var regs []uint32
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		var shamt uint32
		shamt, err = asm.unsigned(words[3], 5)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeAluImm(shift.op, regs[0], regs[1], (shift.funct7<<5)|shamt))
		return
	}

	if op, ok := branchMap[mnemonic]; ok {
		err = expect(words, 3)
		if err != nil {
			return
		}
		var regs []uint32
		regs, err = asm.registers(words[1:3]...)
		if err != nil {
			return
		}
		var offset uint32
		offset, label, err = asm.target(words[3], 13)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeBranch(op, regs[0], regs[1], offset))
		return
	}

	if op, ok := loadMap[mnemonic]; ok {
		if len(words) < 3 {
			err = ErrOpcodeMissing
			return
		}
		var rd, imm, base uint32
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, base, err = asm.offsetBase(words[2:]...)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeLoad(op, rd, base, imm))
		return
	}

	if op, ok := storeMap[mnemonic]; ok {
		if len(words) < 3 {
			err = ErrOpcodeMissing
			return
		}
		var rs2, imm, base uint32
		rs2, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, base, err = asm.offsetBase(words[2:]...)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeStore(op, base, rs2, imm))
		return
	}

	switch mnemonic {
	case "lui":
		err = expect(words, 2)
		if err != nil {
			return
		}
		var rd, imm uint32
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, err = asm.unsigned(words[2], 20)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeLui(rd, imm))
	case "jal":
		err = expect(words, 2)
		if err != nil {
			return
		}
		var rd, offset uint32
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		offset, label, err = asm.target(words[2], 21)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeJal(rd, offset))
	case "jalr":
		if len(words) < 3 {
			err = ErrOpcodeMissing
			return
		}
		var rd, imm, base uint32
		rd, err = asm.register(words[1])
		if err != nil {
			return
		}
		imm, base, err = asm.offsetBase(words[2:]...)
		if err != nil {
			return
		}
		codes = append(codes, MakeCodeJalr(rd, base, imm))
	case ".word":
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word)
			if err != nil {
				return
			}
			codes = append(codes, Code{Word: value})
		}
	case ".zero":
		err = expect(words, 1)
		if err != nil {
			return
		}
		var size uint32
		size, err = asm.unsigned(words[1], 20)
		if err != nil {
			return
		}
		codes = make([]Code, (size+INSTRUCTION_SIZE-1)/INSTRUCTION_SIZE)
	default:
		err = fmt.Errorf("%w: %v", ErrInstructionInvalid, mnemonic)
	}

	return
}
