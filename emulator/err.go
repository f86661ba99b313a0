package emulator

import (
	"errors"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/translate"
)

var f = translate.From

var (
	ErrStepLimit = errors.New(f("step limit reached"))
	ErrTrace     = errors.New(f("step trace failed"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc    uint32        // PC of the failing instruction.
	Word  uint32        // Raw failing instruction word.
	Class cpu.CodeClass // Opcode class of Word.
	Err   error
}

func (err *ErrRuntime) Error() string {
	return f("pc %08x word %08x (%v) %v", err.Pc, err.Word, err.Class, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
