package cpu

import (
	"fmt"
	"iter"
	"maps"

	"golc3/console"
)

const (
	MEMORY_SIZE = 1 << 16 // Addressable words, 0x0000..0xFFFF.

	KBSR = uint16(0xFE00) // Keyboard status register address.
	KBDR = uint16(0xFE02) // Keyboard data register address.

	KB_READY = uint16(0x8000) // Status bit: one input byte is available.
)

var _memory_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
	"KBSR":        fmt.Sprintf("0x%04x", KBSR),
	"KBDR":        fmt.Sprintf("0x%04x", KBDR),
	"KB_READY":    fmt.Sprintf("0x%04x", KB_READY),
}

// Memory is the machine's 65536-word address space. The 16-bit address type
// is the bounds check; no address can fall outside the array.
//
// Two addresses are memory-mapped device registers. Reading KBSR polls the
// console for one input byte, updating both KBSR and KBDR before the status
// value is returned; on a real terminal this read blocks until a key is
// pressed. Reading KBDR consumes the byte by clearing the ready bit. All
// other addresses are plain storage.
type Memory struct {
	words [MEMORY_SIZE]uint16
	con   console.Console
}

// NewMemory creates a zeroed Memory serviced by the given console.
func NewMemory(con console.Console) (mem *Memory) {
	return &Memory{con: con}
}

// Defines returns an iterator over the memory map's assembler defines.
func (mem *Memory) Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Read returns the word at addr, performing the keyboard device side effects
// for the mapped addresses.
func (mem *Memory) Read(addr uint16) uint16 {
	switch addr {
	case KBSR:
		mem.pollKeyboard()
	case KBDR:
		mem.words[KBSR] &^= KB_READY
	}

	return mem.words[addr]
}

// Write stores value at addr.
func (mem *Memory) Write(addr uint16, value uint16) {
	mem.words[addr] = value
}

// pollKeyboard reads one byte from the console into the keyboard registers.
// At end of input the ready bit reads as clear.
func (mem *Memory) pollKeyboard() {
	value, err := mem.con.ReadByte()
	if err != nil {
		mem.words[KBSR] &^= KB_READY
		return
	}

	mem.words[KBSR] |= KB_READY
	mem.words[KBDR] = uint16(value)
}
