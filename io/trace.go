package io

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Step is the record of a single executed instruction.
type Step struct {
	Step  int     `json:"step"`            // Step number, from 1.
	Pc    uint32  `json:"pc"`              // PC of the instruction.
	Word  uint32  `json:"word"`            // Raw instruction word.
	Class string  `json:"class"`           // Opcode class name.
	Rd    *uint32 `json:"rd,omitempty"`    // Destination register, if written.
	Value *uint32 `json:"value,omitempty"` // Value written to Rd.
	Next  uint32  `json:"next"`            // PC after the instruction.
}

// StepTracer receives every executed step.
type StepTracer interface {
	TraceStep(step *Step) error
}

// Trace writes steps as JSON lines, one object per line.
// It is safe for concurrent use.
type Trace struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	enc    *json.Encoder
	closed bool
}

var _ StepTracer = (*Trace)(nil)

// NewTrace creates a new JSON lines trace on w. The caller owns w, and
// must Close the trace to flush it.
func NewTrace(w io.Writer) (trace *Trace) {
	buf := bufio.NewWriter(w)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	trace = &Trace{
		buf: buf,
		enc: enc,
	}

	return
}

// TraceStep writes a single step.
func (trace *Trace) TraceStep(step *Step) (err error) {
	trace.mu.Lock()
	defer trace.mu.Unlock()

	if trace.closed {
		err = ErrTraceClosed
		return
	}

	err = trace.enc.Encode(step)
	return
}

// Flush writes any buffered steps.
func (trace *Trace) Flush() (err error) {
	trace.mu.Lock()
	defer trace.mu.Unlock()

	if trace.closed {
		err = ErrTraceClosed
		return
	}

	err = trace.buf.Flush()
	return
}

// Close flushes the trace. The underlying writer is not closed.
func (trace *Trace) Close() (err error) {
	trace.mu.Lock()
	defer trace.mu.Unlock()

	if trace.closed {
		return
	}
	trace.closed = true

	err = trace.buf.Flush()
	return
}
