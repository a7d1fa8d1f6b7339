package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"
)

// Trap vectors, dispatched from the low byte of a TRAP instruction.
const (
	TRAP_GETC  = uint16(0x20) // Read one input byte into R0, no echo.
	TRAP_OUT   = uint16(0x21) // Write the low byte of R0.
	TRAP_PUTS  = uint16(0x22) // Write a word-per-character string at R0.
	TRAP_IN    = uint16(0x23) // Prompt, read one byte into R0, echoed.
	TRAP_PUTSP = uint16(0x24) // Write a packed two-characters-per-word string at R0.
	TRAP_HALT  = uint16(0x25) // Stop the machine.
)

var _trap_defines = map[string]string{
	"GETC":  fmt.Sprintf("0x%02x", TRAP_GETC),
	"OUT":   fmt.Sprintf("0x%02x", TRAP_OUT),
	"PUTS":  fmt.Sprintf("0x%02x", TRAP_PUTS),
	"IN":    fmt.Sprintf("0x%02x", TRAP_IN),
	"PUTSP": fmt.Sprintf("0x%02x", TRAP_PUTSP),
	"HALT":  fmt.Sprintf("0x%02x", TRAP_HALT),
}

// TrapDefines returns an iterator over the trap vector assembler defines.
func TrapDefines() iter.Seq2[string, string] {
	return maps.All(_trap_defines)
}

// trap dispatches a system routine by vector. An unknown vector logs a
// diagnostic and execution continues with registers and memory untouched.
//
// GETC and IN load R0 as a device side effect and do not change COND.
// Console input can only run out on a headless backend; when it does, the
// machine halts rather than spin on a dead device.
func (cpu *Cpu) trap(vector uint16) {
	switch vector {
	case TRAP_GETC:
		value, err := cpu.con.ReadByte()
		if err != nil {
			log.Printf("cpu: input closed during trap GETC: %v", err)
			cpu.Halt()
			return
		}
		cpu.Reg.Set(R0, uint16(value))

	case TRAP_OUT:
		cpu.con.WriteByte(byte(cpu.Reg.Get(R0)))
		cpu.con.Flush()

	case TRAP_PUTS:
		addr := cpu.Reg.Get(R0)
		for word := cpu.Mem.Read(addr); word != 0; {
			cpu.con.WriteByte(byte(word))
			addr++
			word = cpu.Mem.Read(addr)
		}
		cpu.con.Flush()

	case TRAP_IN:
		cpu.con.WriteString("Enter a character: ")
		cpu.con.Flush()
		value, err := cpu.con.ReadByte()
		if err != nil {
			log.Printf("cpu: input closed during trap IN: %v", err)
			cpu.Halt()
			return
		}
		cpu.con.WriteByte(value)
		cpu.con.Flush()
		cpu.Reg.Set(R0, uint16(value))

	case TRAP_PUTSP:
		addr := cpu.Reg.Get(R0)
		for word := cpu.Mem.Read(addr); word != 0; {
			cpu.con.WriteByte(byte(word))
			if word>>8 != 0 {
				cpu.con.WriteByte(byte(word >> 8))
			}
			addr++
			word = cpu.Mem.Read(addr)
		}
		cpu.con.Flush()

	case TRAP_HALT:
		cpu.con.WriteString("Machine Halted")
		cpu.con.Flush()
		cpu.Halt()

	default:
		log.Printf("cpu: unknown trap vector 0x%02x", vector)
	}
}
