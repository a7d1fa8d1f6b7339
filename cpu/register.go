package cpu

// RegID indexes a register in the register file.
type RegID uint16

const (
	R0 = RegID(iota) // r0
	R1               // r1
	R2               // r2
	R3               // r3
	R4               // r4
	R5               // r5
	R6               // r6
	R7               // r7
	PC               // pc
	COND             // cond

	NUM_REGS = 10
)

// PC_START is the fixed program-counter reset address.
const PC_START = uint16(0x3000)

var _regNames = [NUM_REGS]string{
	"r0", "r1", "r2", "r3", "r4", "r5", "r6", "r7", "pc", "cond",
}

// String returns the register's assembly name.
func (id RegID) String() string {
	if int(id) < len(_regNames) {
		return _regNames[id]
	}
	return "r?"
}

// Flag is a condition-flag value. COND always holds exactly one Flag.
type Flag uint16

const (
	FLAG_POS = Flag(1 << 0) // last written value was positive
	FLAG_ZRO = Flag(1 << 1) // last written value was zero
	FLAG_NEG = Flag(1 << 2) // last written value was negative
)

// FlagFor classifies a register value into its condition flag.
func FlagFor(value uint16) Flag {
	switch {
	case value == 0:
		return FLAG_ZRO
	case value>>15 != 0:
		return FLAG_NEG
	default:
		return FLAG_POS
	}
}

// Registers is the machine's register file: R0-R7, PC, and COND.
// All arithmetic on registers wraps modulo 2^16; overflow is a behavioral
// contract of the machine, never an error.
type Registers [NUM_REGS]uint16

// NewRegisters returns a register file zeroed except for PC at PC_START.
func NewRegisters() (reg Registers) {
	reg[PC] = PC_START
	return
}

// Get returns the value of a register.
func (reg *Registers) Get(id RegID) uint16 {
	return reg[id]
}

// Set stores a value into a register.
func (reg *Registers) Set(id RegID, value uint16) {
	reg[id] = value
}

// Incr adds one to a register, wrapping.
func (reg *Registers) Incr(id RegID) {
	reg[id]++
}

// IncrBy adds delta to a register, wrapping.
func (reg *Registers) IncrBy(id RegID, delta uint16) {
	reg[id] += delta
}

// Copy copies the src register's value into dst.
func (reg *Registers) Copy(dst, src RegID) {
	reg[dst] = reg[src]
}
