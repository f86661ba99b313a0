package cpu

import (
	"fmt"
)

const (
	REGISTER_COUNT = 32 // Number of integer registers.
)

// ABI names of the integer registers.
var registerNames = [REGISTER_COUNT]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegisterName returns the ABI name of register n.
func RegisterName(n uint32) string {
	if n >= REGISTER_COUNT {
		return fmt.Sprintf("x%d", n)
	}
	return registerNames[n]
}

// Registers is the integer register file. x0 always reads as zero.
type Registers [REGISTER_COUNT]uint32

// Get returns the value of register n.
func (regs *Registers) Get(n uint32) uint32 {
	if n == 0 || n >= REGISTER_COUNT {
		return 0
	}
	return regs[n]
}

// Set writes register n. Writes to x0 are discarded.
func (regs *Registers) Set(n uint32, value uint32) {
	if n == 0 || n >= REGISTER_COUNT {
		return
	}
	regs[n] = value
}

// Values returns a copy of the register file, with x0 as zero.
func (regs *Registers) Values() (values [REGISTER_COUNT]uint32) {
	values = *regs
	values[0] = 0
	return
}
