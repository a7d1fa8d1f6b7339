package cpu

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"golc3/console"
)

var _cpu_defines = map[string]string{
	"PC_START": fmt.Sprintf("0x%04x", PC_START),
}

// Cpu is the execution engine: it exclusively owns the register file and
// memory, and runs the fetch-decode-execute loop. All mutation of machine
// state happens through its methods; nothing here is safe for concurrent
// use, and nothing needs to be.
type Cpu struct {
	Verbose bool // Set to enable verbose instruction tracing.

	Reg Registers // Register file.
	Mem *Memory   // Flat word-addressed memory.

	con     console.Console
	running bool
}

// NewCpu creates a machine in the not-running state with zeroed memory,
// PC at PC_START, and the given console servicing traps and the keyboard
// device registers.
func NewCpu(con console.Console) (cpu *Cpu) {
	return &Cpu{
		Reg: NewRegisters(),
		Mem: NewMemory(con),
		con: con,
	}
}

// Defines returns an iterator over the cpu's assembler defines.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Running reports whether the run loop is active.
func (cpu *Cpu) Running() bool {
	return cpu.running
}

// Halt stops the run loop after the current instruction completes.
func (cpu *Cpu) Halt() {
	cpu.running = false
}

// String returns the current register state, one register per line.
func (cpu *Cpu) String() (text string) {
	for id := R0; id < NUM_REGS; id++ {
		text += fmt.Sprintf("% 5v: 0x%04x\n", id, cpu.Reg.Get(id))
	}

	return
}

// Run executes instructions until a HALT trap stops the machine. The PC is
// 16 bits wide and wraps with the address space, so it can never leave the
// addressable range; HALT is the sole terminal condition.
func (cpu *Cpu) Run() {
	cpu.running = true

	for cpu.running {
		cpu.Step()
	}
}

// Step fetches the word at PC, advances PC past it, and executes it.
// PC-relative operands therefore see the already-incremented PC.
func (cpu *Cpu) Step() {
	in := Instruction(cpu.Mem.Read(cpu.Reg.Get(PC)))
	cpu.Reg.Incr(PC)
	cpu.Execute(in)
}

// Execute applies a single instruction word to the machine state.
// An all-zero word is a no-op before any decoding happens: zero-filled
// memory regions are common and must execute harmlessly.
func (cpu *Cpu) Execute(in Instruction) {
	if in == 0 {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %04x: %v", cpu.Reg.Get(PC), in)
	}

	switch in.Opcode() {
	case OP_ADD:
		if in.Imm() {
			cpu.Reg.Set(in.DR(), cpu.Reg.Get(in.SR1())+in.Imm5())
		} else {
			cpu.Reg.Set(in.DR(), cpu.Reg.Get(in.SR1())+cpu.Reg.Get(in.SR2()))
		}
		cpu.updateFlags(in.DR())

	case OP_AND:
		if in.Imm() {
			cpu.Reg.Set(in.DR(), cpu.Reg.Get(in.SR1())&in.Imm5())
		} else {
			cpu.Reg.Set(in.DR(), cpu.Reg.Get(in.SR1())&cpu.Reg.Get(in.SR2()))
		}
		cpu.updateFlags(in.DR())

	case OP_NOT:
		cpu.Reg.Set(in.DR(), ^cpu.Reg.Get(in.SR1()))
		cpu.updateFlags(in.DR())

	case OP_BR:
		if in.NZP()&uint16(cpu.Reg.Get(COND)) != 0 {
			cpu.Reg.IncrBy(PC, in.Off9())
		}

	case OP_JMP:
		// Base register R7 encodes RET.
		cpu.Reg.Copy(PC, in.BaseR())

	case OP_JSR:
		// The return address is the PC already advanced past this
		// instruction.
		cpu.Reg.Copy(R7, PC)
		if in.Subroutine() {
			cpu.Reg.IncrBy(PC, in.Off11())
		} else {
			cpu.Reg.Copy(PC, in.BaseR())
		}

	case OP_LD:
		cpu.Reg.Set(in.DR(), cpu.Mem.Read(cpu.Reg.Get(PC)+in.Off9()))
		cpu.updateFlags(in.DR())

	case OP_LDI:
		addr := cpu.Mem.Read(cpu.Reg.Get(PC) + in.Off9())
		cpu.Reg.Set(in.DR(), cpu.Mem.Read(addr))
		cpu.updateFlags(in.DR())

	case OP_LDR:
		cpu.Reg.Set(in.DR(), cpu.Mem.Read(cpu.Reg.Get(in.BaseR())+in.Off6()))
		cpu.updateFlags(in.DR())

	case OP_LEA:
		cpu.Reg.Set(in.DR(), cpu.Reg.Get(PC)+in.Off9())
		cpu.updateFlags(in.DR())

	case OP_ST:
		cpu.Mem.Write(cpu.Reg.Get(PC)+in.Off9(), cpu.Reg.Get(in.SR()))

	case OP_STI:
		addr := cpu.Mem.Read(cpu.Reg.Get(PC) + in.Off9())
		cpu.Mem.Write(addr, cpu.Reg.Get(in.SR()))

	case OP_STR:
		cpu.Mem.Write(cpu.Reg.Get(in.BaseR())+in.Off6(), cpu.Reg.Get(in.SR()))

	case OP_TRAP:
		cpu.trap(in.Vector())

	case OP_NOOP:
		// No effect.

	case OP_RESERVED:
		// Not a defined instruction. Execution continues; the
		// diagnostic makes runaway images visible under -v.
		log.Printf("cpu: %04x: reserved opcode 0x%04x", cpu.Reg.Get(PC), uint16(in))
	}
}

// updateFlags stores the condition flag for the register's new value.
func (cpu *Cpu) updateFlags(id RegID) {
	cpu.Reg.Set(COND, uint16(FlagFor(cpu.Reg.Get(id))))
}
