// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/decode"
	"github.com/ezrec/rvsim/internal"
	"github.com/ezrec/rvsim/io"
)

// Defines returns the assembler predefines of an emulator with size bytes
// of memory.
func Defines(size int) iter.Seq2[string, string] {
	var proc cpu.Cpu
	return internal.IterSeq2Concat(maps.All(map[string]string{
		"MEMORY_SIZE": fmt.Sprintf("%d", size),
	}), proc.Defines())
}

// Emulator state. CPU + step accounting + tracing.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing, if any.

	MaxSteps int           // If non-zero, the maximum steps before ErrStepLimit.
	Tracer   io.StepTracer // If set, receives every executed step.

	Steps int // Steps executed since reset.

	result cpu.Result
	fault  cpu.Code
	err    error
}

// NewEmulator creates a new emulator for a binary image.
func NewEmulator(image []byte) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(image),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return Defines(emu.Cpu.Memory.Len())
}

// Reset the emulator to the loaded image.
func (emu *Emulator) Reset() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()

	emu.Steps = 0
	emu.result = cpu.RESULT_OK
	emu.fault = cpu.Code{}
	emu.err = nil
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint32 {
	return emu.Cpu.Pc
}

// Registers returns a copy of the register file.
func (emu *Emulator) Registers() [cpu.REGISTER_COUNT]uint32 {
	return emu.Cpu.Register.Values()
}

// Result returns the result of the last step.
func (emu *Emulator) Result() cpu.Result {
	return emu.result
}

// Fault returns the raw word and opcode class of the failing instruction.
func (emu *Emulator) Fault() (word uint32, class cpu.CodeClass) {
	word = emu.fault.Word
	class = emu.fault.Class()
	return
}

// Err returns the runtime error that stopped the emulator, if any.
func (emu *Emulator) Err() error {
	return emu.err
}

// Code returns the instruction at the current PC.
func (emu *Emulator) Code() (code cpu.Code) {
	code, _ = emu.Cpu.FetchCode()
	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator. done is set once the PC
// has left the image, or an instruction has failed; the emulator then
// stays stopped until Reset.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.result != cpu.RESULT_OK {
		done = true
		err = emu.err
		return
	}

	if emu.MaxSteps > 0 && emu.Steps >= emu.MaxSteps {
		err = &ErrRuntime{Pc: emu.Cpu.Pc, Err: ErrStepLimit}
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	code := emu.Code()

	err = emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrPcEnd) {
		if emu.Verbose {
			log.Printf("emulator: halt at pc %08x after %d steps", pc, emu.Steps)
		}
		emu.result = cpu.RESULT_HALT
		err = nil
		done = true
		return
	}
	if err != nil {
		cause := err
		var ei *cpu.ErrInstruction
		if errors.As(err, &ei) {
			code = ei.Code
			cause = ei.Err
		}
		emu.result = cpu.ResultOf(err)
		emu.fault = code
		emu.err = &ErrRuntime{Pc: pc, Word: code.Word, Class: code.Class(), Err: cause}
		if emu.Verbose {
			log.Printf("emulator: %v", emu.err)
		}
		err = emu.err
		done = true
		return
	}

	emu.Steps++

	if emu.Tracer != nil {
		err = emu.trace(pc, code)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrTrace, err)
		}
	}

	return
}

// trace records a retired instruction.
func (emu *Emulator) trace(pc uint32, code cpu.Code) (err error) {
	step := &io.Step{
		Step:  emu.Steps,
		Pc:    pc,
		Word:  code.Word,
		Class: code.Class().String(),
		Next:  emu.Cpu.Pc,
	}

	if rd, ok := destination(code); ok && rd != 0 {
		value := emu.Cpu.Register.Get(rd)
		step.Rd = &rd
		step.Value = &value
	}

	err = emu.Tracer.TraceStep(step)
	return
}

// destination returns the destination register of an instruction.
func destination(code cpu.Code) (rd uint32, ok bool) {
	format, ok := code.Class().Format()
	if !ok {
		return
	}

	fields, err := format.Decode(code.Word)
	if err != nil {
		ok = false
		return
	}

	switch format {
	case decode.FORMAT_R:
		rd = fields[decode.FR_RD]
	case decode.FORMAT_I:
		rd = fields[decode.FI_RD]
	case decode.FORMAT_U:
		rd = fields[decode.FU_RD]
	case decode.FORMAT_J:
		rd = fields[decode.FJ_RD]
	default:
		ok = false
	}

	return
}

// Run steps the emulator until the PC leaves the image, an instruction
// fails, or ctx is done. ctx is checked between steps.
//
// Tracer errors do not stop the run; the first one is returned once
// the run ends, joined with any other error.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	var traceErr error

	defer func() {
		if traceErr != nil {
			err = errors.Join(err, traceErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		var done bool
		done, err = emu.Tick()
		if !done && errors.Is(err, ErrTrace) {
			if traceErr == nil {
				traceErr = err
			}
			err = nil
			continue
		}
		if err != nil || done {
			return
		}
	}
}
