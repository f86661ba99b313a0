package emulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/io"
)

// assemble creates an emulator running a program.
func assemble(t *testing.T, program ...string) (emu *Emulator) {
	asm := &cpu.Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	emu = NewEmulator(prog.Binary())
	emu.Program = prog
	return
}

var sumProgram = []string{
	"li a1 10",
	"li a0 0",
	"loop: add a0 a0 a1",
	"addi a1 a1 -1",
	"bne a1 zero loop",
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(nil)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(uint32(0), emu.Pc())
	assert.Equal(cpu.RESULT_OK, emu.Result())
	assert.NoError(emu.Err())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(cpu.RESULT_HALT, emu.Result())
}

func TestEmulatorRun(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t, sumProgram...)

	err := emu.Run(context.Background())
	assert.NoError(err)
	assert.Equal(cpu.RESULT_HALT, emu.Result())
	assert.Equal(uint32(55), emu.Registers()[10])
	assert.Equal(uint32(0), emu.Registers()[11])
	assert.Equal(uint32(20), emu.Pc())
	assert.Equal(32, emu.Steps)
	assert.Equal(32, emu.Cpu.Ticks)

	// Stays halted.
	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(32, emu.Steps)
}

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t, sumProgram...)

	for n := range 32 {
		assert.Equal(cpu.RESULT_OK, emu.Result())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done, "step %d", n)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t,
		"li a0 1",
		".word 0x00000073",
		"li a0 2",
	)

	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)

	var er *ErrRuntime
	assert.True(errors.As(err, &er))
	if er != nil {
		assert.Equal(uint32(4), er.Pc)
		assert.Equal(uint32(0x73), er.Word)
		assert.Equal(cpu.CodeClass(0x73), er.Class)
	}

	assert.Equal(cpu.RESULT_OPCODE_UNKNOWN, emu.Result())
	assert.True(emu.Result().Failed())
	word, class := emu.Fault()
	assert.Equal(uint32(0x73), word)
	assert.Equal(cpu.CodeClass(0x73), class)
	assert.Equal(err, emu.Err())

	// No partial update.
	assert.Equal(uint32(4), emu.Pc())
	assert.Equal(uint32(1), emu.Registers()[10])
	assert.Equal(1, emu.Steps)

	// Stays stopped.
	done, err2 := emu.Tick()
	assert.True(done)
	assert.Equal(err, err2)
	assert.Equal(uint32(4), emu.Pc())
}

func TestEmulatorFaultClasses(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		result  cpu.Result
		err     error
	}){
		{"bounds", []string{"lw a0 0x100(zero)"}, cpu.RESULT_MEMORY_BOUNDS, cpu.ErrMemoryBounds},
		{"store", []string{"sw a0 -4(zero)"}, cpu.RESULT_MEMORY_BOUNDS, cpu.ErrMemoryBounds},
		{"x0", []string{"addi zero zero 1"}, cpu.RESULT_REGISTER_ZERO, cpu.ErrRegisterZero},
		{"load_x0", []string{"lw zero 0(zero)"}, cpu.RESULT_REGISTER_ZERO, cpu.ErrRegisterZero},
		{"mul", []string{".word 0x02c58533"}, cpu.RESULT_OPCODE_UNSUPPORTED, cpu.ErrOpcodeUnsupported},
		{"jalr", []string{".word 0x00001067"}, cpu.RESULT_OPCODE_FUNCT, cpu.ErrOpcodeFunct},
	}

	for _, entry := range table {
		emu := assemble(t, entry.program...)
		err := emu.Run(context.Background())
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Equal(entry.result, emu.Result(), entry.name)
		assert.Equal(uint32(0), emu.Pc(), entry.name)
		assert.Equal(0, emu.Steps, entry.name)
	}
}

func TestEmulatorStepLimit(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t, "loop: j loop")
	emu.MaxSteps = 10

	err := emu.Run(context.Background())
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(10, emu.Steps)
	assert.Equal(cpu.RESULT_OK, emu.Result())

	// Resumable with a higher limit.
	emu.MaxSteps = 20
	err = emu.Run(context.Background())
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(20, emu.Steps)
}

type cancelTracer struct {
	after  int
	cancel context.CancelFunc
	steps  int
}

func (ct *cancelTracer) TraceStep(step *io.Step) error {
	ct.steps++
	if ct.steps == ct.after {
		ct.cancel()
	}
	return nil
}

func TestEmulatorContext(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t, "loop: j loop")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := emu.Run(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(0, emu.Steps)

	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()
	emu.Tracer = &cancelTracer{after: 5, cancel: cancel}
	err = emu.Run(ctx)
	assert.ErrorIs(err, context.Canceled)
	assert.Equal(5, emu.Steps)
	assert.Equal(cpu.RESULT_OK, emu.Result())
}

type failTracer struct{}

var errTracer = errors.New("tracer failed")

func (failTracer) TraceStep(step *io.Step) error {
	return errTracer
}

func TestEmulatorTraceError(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t, sumProgram...)
	emu.Tracer = failTracer{}

	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, ErrTrace)
	assert.ErrorIs(err, errTracer)
	assert.Equal(1, emu.Steps)
	assert.Equal(cpu.RESULT_OK, emu.Result())
	assert.NoError(emu.Err())

	// Run keeps stepping, and reports the tracer failure at the end.
	err = emu.Run(context.Background())
	assert.ErrorIs(err, ErrTrace)
	assert.ErrorIs(err, errTracer)
	assert.Equal(32, emu.Steps)
	assert.Equal(cpu.RESULT_HALT, emu.Result())
	assert.Equal(uint32(55), emu.Registers()[10])

	// Failures are still reported alongside the tracer error.
	emu = assemble(t, "li a0 1", ".word 0x00000073")
	emu.Tracer = failTracer{}
	err = emu.Run(context.Background())
	assert.ErrorIs(err, ErrTrace)
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)
	assert.Equal(cpu.RESULT_OPCODE_UNKNOWN, emu.Result())
}

func TestEmulatorTrace(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t, sumProgram...)

	buf := &bytes.Buffer{}
	trace := io.NewTrace(buf)
	emu.Tracer = trace

	assert.NoError(emu.Run(context.Background()))
	assert.NoError(trace.Close())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(emu.Steps, len(lines))

	var first io.Step
	assert.NoError(json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(1, first.Step)
	assert.Equal(uint32(0), first.Pc)
	assert.Equal("op-imm", first.Class)
	assert.Equal(uint32(4), first.Next)
	if assert.NotNil(first.Rd) && assert.NotNil(first.Value) {
		assert.Equal(uint32(11), *first.Rd)
		assert.Equal(uint32(10), *first.Value)
	}

	// First taken branch back to the loop.
	var branch io.Step
	assert.NoError(json.Unmarshal([]byte(lines[4]), &branch))
	assert.Equal("branch", branch.Class)
	assert.Equal(uint32(16), branch.Pc)
	assert.Equal(uint32(8), branch.Next)
	assert.Nil(branch.Rd)
	assert.Nil(branch.Value)
}

func TestEmulatorLineNo(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t,
		"; comment",
		"li a0 1",
		"",
		"li a1 2",
	)

	assert.Equal(2, emu.LineNo())
	assert.Equal(uint32(0x00100513), emu.Code().Word)

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(4, emu.LineNo())

	done, err = emu.Tick()
	assert.NoError(err)
	assert.False(done)
	assert.Equal(0, emu.LineNo())

	emu.Program = nil
	assert.Equal(0, emu.LineNo())
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := assemble(t,
		"li a0 7",
		"sw a0 0(zero)",
		".word 0",
	)

	err := emu.Run(context.Background())
	assert.ErrorIs(err, cpu.ErrOpcodeUnknown)
	assert.Equal(uint32(7), emu.Registers()[10])
	assert.Equal(uint32(8), emu.Pc())
	assert.Equal([]byte{7, 0, 0, 0}, emu.Cpu.Memory.Data[0:4])

	emu.Reset()
	assert.Equal(uint32(0), emu.Pc())
	assert.Equal(0, emu.Steps)
	assert.Equal(cpu.RESULT_OK, emu.Result())
	assert.NoError(emu.Err())
	assert.Equal(uint32(0), emu.Registers()[10])
	assert.Equal(uint32(0x00700513), emu.Code().Word)
	word, _ := emu.Fault()
	assert.Equal(uint32(0), word)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator(make([]byte, 256))

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}

	assert.Equal("256", defines["MEMORY_SIZE"])
	assert.Equal("4", defines["INSTRUCTION_SIZE"])
	assert.Equal("32", defines["REGISTER_COUNT"])
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	emu := assemble(t, "li a0 1")
	emu.Verbose = true
	assert.NoError(emu.Run(context.Background()))

	assert.Contains(buf.String(), "addi a0 zero 1")
	assert.Contains(buf.String(), "emulator: halt at pc 00000004 after 1 steps")
}
