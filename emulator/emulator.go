// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator is the public entry surface of the golc3 machine:
// construction, image loading, assembly, verbose tracing, running to
// completion, and register inspection.
package emulator

import (
	"io"
	"iter"
	"os"

	"golc3/console"
	"golc3/cpu"
	"golc3/internal"
)

// Emulator binds a machine to a console backend.
type Emulator struct {
	Verbose  bool // If set, enables verbose instruction tracing.
	*cpu.Cpu      // The machine being emulated.

	// Terminal is the interactive console backend, nil for headless
	// emulators. Raw-mode configuration is the caller's business; the
	// machine assumes a byte-oriented console.
	Terminal *console.Terminal
}

// NewEmulator creates an emulator on the process's terminal.
func NewEmulator() (emu *Emulator) {
	terminal := console.NewTerminal()
	return &Emulator{
		Cpu:      cpu.NewCpu(terminal),
		Terminal: terminal,
	}
}

// NewHeadlessEmulator creates an emulator over arbitrary input and output
// streams, for tests and non-interactive runs.
func NewHeadlessEmulator(input io.Reader, output io.Writer) (emu *Emulator) {
	return &Emulator{
		Cpu: cpu.NewCpu(&console.Buffer{Input: input, Output: output}),
	}
}

// Defines returns an iterator over all of the machine's assembler defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		emu.Cpu.Defines(),
		emu.Cpu.Mem.Defines(),
		cpu.TrapDefines(),
	)
}

// LoadImageFile loads an object image from a file into memory. A failure is
// surfaced before any execution begins.
func (emu *Emulator) LoadImageFile(path string) (err error) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	return emu.Cpu.LoadImage(file)
}

// Assemble assembles a source stream and loads the result into memory.
// The machine's defines are predefined for the program's expressions.
func (emu *Emulator) Assemble(r io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	im, err := asm.Parse(r)
	if err != nil {
		return
	}

	emu.Cpu.Load(im)
	return
}

// Run executes the loaded program to completion.
func (emu *Emulator) Run() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Run()
}

// Register returns a register's value for inspection.
func (emu *Emulator) Register(id cpu.RegID) uint16 {
	return emu.Cpu.Reg.Get(id)
}
