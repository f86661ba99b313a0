package cpu

import (
	"errors"
)

// Result is the outcome of executing an instruction.
type Result int

//go:generate go tool stringer -linecomment -type=Result
const (
	RESULT_OK                 = Result(0) // ok
	RESULT_HALT               = Result(1) // halt
	RESULT_OPCODE_UNKNOWN     = Result(2) // opcode unknown
	RESULT_OPCODE_FUNCT       = Result(3) // function code unknown
	RESULT_REGISTER_ZERO      = Result(4) // x0 destination
	RESULT_OPCODE_UNSUPPORTED = Result(5) // unsupported
	RESULT_MEMORY_BOUNDS      = Result(6) // memory bounds
	RESULT_FAULT              = Result(7) // fault
)

var resultErrors = []struct {
	err    error
	result Result
}{
	{ErrPcEnd, RESULT_HALT},
	{ErrOpcodeUnknown, RESULT_OPCODE_UNKNOWN},
	{ErrOpcodeFunct, RESULT_OPCODE_FUNCT},
	{ErrRegisterZero, RESULT_REGISTER_ZERO},
	{ErrOpcodeUnsupported, RESULT_OPCODE_UNSUPPORTED},
	{ErrMemoryBounds, RESULT_MEMORY_BOUNDS},
}

// ResultOf classifies an error returned by Tick or Execute.
func ResultOf(err error) Result {
	if err == nil {
		return RESULT_OK
	}

	for _, re := range resultErrors {
		if errors.Is(err, re.err) {
			return re.result
		}
	}

	return RESULT_FAULT
}

// Failed returns true if the result ends a run abnormally.
func (result Result) Failed() bool {
	return result != RESULT_OK && result != RESULT_HALT
}
