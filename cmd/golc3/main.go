// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"golc3/console"
	"golc3/emulator"
)

func main() {
	var assemble bool
	var verbose bool

	flag.BoolVar(&assemble, "a", false, "Assemble the input instead of loading an object image")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %v [-a] [-v] image", os.Args[0])
	}
	path := flag.Arg(0)

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	inf, err := os.Open(path)
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	if assemble {
		err = emu.Assemble(inf)
	} else {
		err = emu.Cpu.LoadImage(inf)
	}
	inf.Close()
	if err != nil {
		log.Fatalf("%v: %v", path, err)
	}

	// The machine expects a byte-oriented console: no echo, no line
	// buffering. Piped input runs as-is.
	err = emu.Terminal.EnableRaw()
	if err != nil && !errors.Is(err, console.ErrNotTerminal) {
		log.Fatalf("raw mode: %v", err)
	}
	defer emu.Terminal.DisableRaw()

	emu.Run()
}
