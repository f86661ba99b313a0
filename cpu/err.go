package cpu

import (
	"errors"

	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEnd             = errors.New(f("pc past end of image"))
	ErrOpcodeUnknown     = errors.New(f("opcode unknown"))
	ErrOpcodeFunct       = errors.New(f("function code unknown"))
	ErrOpcodeUnsupported = errors.New(f("operation unsupported"))
	ErrRegisterZero      = errors.New(f("x0 destination prohibited"))
	ErrMemoryBounds      = errors.New(f("memory out of bounds"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeMissing      = errors.New(f("operand missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrTargetInvalid      = errors.New(f("target invalid"))
)

// ErrInstruction locates a failing instruction.
type ErrInstruction struct {
	Pc   uint32
	Code Code
	Err  error
}

func (err *ErrInstruction) Error() string {
	return f("pc %08x word %08x (%v) %v", err.Pc, err.Code.Word, err.Code.Class(), err.Err)
}

func (err *ErrInstruction) Unwrap() error {
	return err.Err
}

// ErrAddress is an out of bounds memory access.
type ErrAddress struct {
	Addr  uint32
	Width uint32
}

func (err *ErrAddress) Error() string {
	return f("address %08x width %d out of bounds", err.Addr, err.Width)
}

func (err *ErrAddress) Is(target error) bool {
	return target == ErrMemoryBounds
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrRange is an immediate or offset that does not fit its field.
type ErrRange struct {
	Value int64
	Bits  int
}

func (err ErrRange) Error() string {
	return f("%d does not fit in %d bits", err.Value, err.Bits)
}
