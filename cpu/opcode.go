package cpu

import (
	"fmt"
)

// Opcode is the 4-bit operation selector in bits 15-12 of an instruction
// word. Values 0-14 are defined; value 15 is reserved and decodes to
// OP_RESERVED rather than aborting, so no 16-bit pattern is undecodable.
type Opcode uint16

const (
	OP_BR   = Opcode(0)  // br
	OP_ADD  = Opcode(1)  // add
	OP_LD   = Opcode(2)  // ld
	OP_ST   = Opcode(3)  // st
	OP_JSR  = Opcode(4)  // jsr
	OP_AND  = Opcode(5)  // and
	OP_LDR  = Opcode(6)  // ldr
	OP_STR  = Opcode(7)  // str
	OP_NOT  = Opcode(8)  // not
	OP_LDI  = Opcode(9)  // ldi
	OP_STI  = Opcode(10) // sti
	OP_JMP  = Opcode(11) // jmp
	OP_NOOP = Opcode(12) // noop
	OP_LEA  = Opcode(13) // lea
	OP_TRAP = Opcode(14) // trap

	OP_RESERVED = Opcode(15) // reserved, not a defined instruction
)

var _opNames = [16]string{
	"br", "add", "ld", "st", "jsr", "and", "ldr", "str",
	"not", "ldi", "sti", "jmp", "noop", "lea", "trap", "reserved",
}

// String returns the opcode's assembly mnemonic.
func (op Opcode) String() string {
	return _opNames[op&0xf]
}

// Instruction is a single 16-bit instruction word. The field accessors
// decode the opcode-specific operand layouts; sign-extended fields come back
// already widened to 16 bits.
type Instruction uint16

// Opcode returns the operation selector from bits 15-12.
func (in Instruction) Opcode() Opcode {
	return Opcode(in >> 12)
}

// DR returns the destination register field (bits 11-9).
func (in Instruction) DR() RegID {
	return RegID((in >> 9) & 0x7)
}

// SR returns the source register field sharing bits 11-9 with DR.
func (in Instruction) SR() RegID {
	return RegID((in >> 9) & 0x7)
}

// SR1 returns the first source register field (bits 8-6).
func (in Instruction) SR1() RegID {
	return RegID((in >> 6) & 0x7)
}

// SR2 returns the second source register field (bits 2-0).
func (in Instruction) SR2() RegID {
	return RegID(in & 0x7)
}

// BaseR returns the base register field (bits 8-6).
func (in Instruction) BaseR() RegID {
	return RegID((in >> 6) & 0x7)
}

// Imm reports whether the immediate-mode flag (bit 5) is set.
func (in Instruction) Imm() bool {
	return (in>>5)&1 != 0
}

// Imm5 returns the sign-extended 5-bit immediate.
func (in Instruction) Imm5() uint16 {
	return SignExtend(uint16(in)&0x1F, 5)
}

// Off6 returns the sign-extended 6-bit base-relative offset.
func (in Instruction) Off6() uint16 {
	return SignExtend(uint16(in)&0x3F, 6)
}

// Off9 returns the sign-extended 9-bit PC-relative offset.
func (in Instruction) Off9() uint16 {
	return SignExtend(uint16(in)&0x1FF, 9)
}

// Off11 returns the sign-extended 11-bit PC-relative offset.
func (in Instruction) Off11() uint16 {
	return SignExtend(uint16(in)&0x7FF, 11)
}

// NZP returns the branch test bits (bits 11-9) in Flag form.
func (in Instruction) NZP() uint16 {
	return uint16((in >> 9) & 0x7)
}

// Subroutine reports whether bit 11 selects the PC-relative JSR form
// rather than the register JSRR form.
func (in Instruction) Subroutine() bool {
	return (in>>11)&1 != 0
}

// Vector returns the trap vector from the low byte.
func (in Instruction) Vector() uint16 {
	return uint16(in) & 0xFF
}

// String returns the assembly representation of the instruction word.
func (in Instruction) String() (out string) {
	op := in.Opcode()

	switch op {
	case OP_ADD, OP_AND:
		if in.Imm() {
			out = fmt.Sprintf("%v %v, %v, #%d", op, in.DR(), in.SR1(), int16(in.Imm5()))
		} else {
			out = fmt.Sprintf("%v %v, %v, %v", op, in.DR(), in.SR1(), in.SR2())
		}
	case OP_NOT:
		out = fmt.Sprintf("%v %v, %v", op, in.DR(), in.SR1())
	case OP_BR:
		cond := ""
		if in.NZP()&uint16(FLAG_NEG) != 0 {
			cond += "n"
		}
		if in.NZP()&uint16(FLAG_ZRO) != 0 {
			cond += "z"
		}
		if in.NZP()&uint16(FLAG_POS) != 0 {
			cond += "p"
		}
		out = fmt.Sprintf("%v%v #%d", op, cond, int16(in.Off9()))
	case OP_JMP:
		if in.BaseR() == R7 {
			out = "ret"
		} else {
			out = fmt.Sprintf("%v %v", op, in.BaseR())
		}
	case OP_JSR:
		if in.Subroutine() {
			out = fmt.Sprintf("%v #%d", op, int16(in.Off11()))
		} else {
			out = fmt.Sprintf("jsrr %v", in.BaseR())
		}
	case OP_LD, OP_LDI, OP_LEA:
		out = fmt.Sprintf("%v %v, #%d", op, in.DR(), int16(in.Off9()))
	case OP_ST, OP_STI:
		out = fmt.Sprintf("%v %v, #%d", op, in.SR(), int16(in.Off9()))
	case OP_LDR:
		out = fmt.Sprintf("%v %v, %v, #%d", op, in.DR(), in.BaseR(), int16(in.Off6()))
	case OP_STR:
		out = fmt.Sprintf("%v %v, %v, #%d", op, in.SR(), in.BaseR(), int16(in.Off6()))
	case OP_TRAP:
		out = fmt.Sprintf("%v x%02x", op, in.Vector())
	default:
		out = op.String()
	}

	return
}
