// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/k0kubun/pp/v3"

	"github.com/ezrec/rvsim/cpu"
	"github.com/ezrec/rvsim/emulator"
	"github.com/ezrec/rvsim/io"
	"github.com/ezrec/rvsim/translate"
)

// State is the final emulator state, as pretty printed by -p.
type State struct {
	Pc        uint32
	Steps     int
	Result    string
	Fault     string
	Registers map[string]string
}

func main() {
	var compile string
	var binary string
	var output string
	var save bool
	var list bool
	var memory int
	var steps int
	var trace string
	var verbose bool
	var pretty bool
	var language string

	flag.StringVar(&compile, "c", "", ".s file to assemble")
	flag.StringVar(&binary, "b", "", ".bin image to load")
	flag.StringVar(&output, "o", "", "Save image to file")
	flag.BoolVar(&save, "s", false, "Save image only, do not execute")
	flag.BoolVar(&list, "l", false, "List the image words")
	flag.IntVar(&memory, "m", 64*1024, "Memory size in bytes (zero padded)")
	flag.IntVar(&steps, "n", 0, "Step limit (0 is unlimited)")
	flag.StringVar(&trace, "t", "", "JSONL step trace file")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&pretty, "p", false, "Pretty print the final state")
	flag.StringVar(&language, "lang", "", "Message language (BCP 47)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(language) != 0 {
		translate.SetLanguage(language)
	}

	prog := &cpu.Program{}
	var image io.Image

	switch {
	case len(compile) != 0:
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emulator.Defines(memory) {
			asm.Predefine(key, value)
		}
		prog, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		image = io.Image(prog.Binary())
	case len(binary) != 0:
		inf, err := os.Open(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
		defer inf.Close()

		image, err = io.LoadImage(inf, 0)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	default:
		log.Fatalf("%v: one of -c or -b is required", os.Args[0])
	}

	if len(output) != 0 {
		ouf, err := os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		_, err = image.WriteTo(ouf)
		if err == nil {
			err = ouf.Close()
		}
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if list {
		for offset, word := range image.Words() {
			line := ""
			if dbg := prog.Debug(offset); dbg.Opcode != nil {
				line = fmt.Sprintf("%d", dbg.LineNo)
			}
			fmt.Printf("%08x: %08x %5s  %v\n", offset, word, line, cpu.Code{Word: word})
		}
	}

	if save {
		return
	}

	emu := emulator.NewEmulator(image.Pad(memory))
	emu.Program = prog
	emu.Verbose = verbose
	emu.MaxSteps = steps

	var tracer *io.Trace
	if len(trace) != 0 {
		ouf, err := os.Create(trace)
		if err != nil {
			log.Fatalf("%v: %v", trace, err)
		}
		defer ouf.Close()
		tracer = io.NewTrace(ouf)
		emu.Tracer = tracer
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	emu.Reset()
	err := emu.Run(ctx)

	if tracer != nil {
		terr := tracer.Close()
		if terr != nil {
			log.Printf("%v: %v", trace, terr)
		}
	}

	if pretty {
		pp.Println(state(emu))
	} else if verbose || err != nil {
		fmt.Print(emu.Cpu.String())
	}

	if err != nil {
		if line := emu.LineNo(); line != 0 {
			log.Printf("%v:%d: %v", compile, line, err)
		} else {
			log.Printf("%v", err)
		}
		stop()
		os.Exit(1)
	}
}

// state collects the final emulator state.
func state(emu *emulator.Emulator) (st State) {
	st = State{
		Pc:        emu.Pc(),
		Steps:     emu.Steps,
		Result:    emu.Result().String(),
		Registers: map[string]string{},
	}

	if emu.Result().Failed() {
		word, class := emu.Fault()
		st.Fault = fmt.Sprintf("%08x (%v) %v", word, class, cpu.Code{Word: word})
	}

	for n, value := range emu.Registers() {
		st.Registers[cpu.RegisterName(uint32(n))] = fmt.Sprintf("%#08x", value)
	}

	return
}
