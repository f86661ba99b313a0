// Package cpu implements the RV32I execution engine and assembler.
//
// The CPU consists of a program counter (PC), thirty-two 32-bit registers
// (x0-x31, with x0 hardwired to zero), and a flat byte-addressable memory
// that holds both the program image and its data. Each Tick fetches one
// little-endian instruction word at the PC, classifies it by its 7-bit
// opcode, decodes its operand fields, and applies it. A failing instruction
// leaves the PC, registers and memory untouched.
//
// The assembler translates a small RV32I assembly language, with labels,
// equates and compile-time expression evaluation, into a binary image.
package cpu
