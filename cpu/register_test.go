package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisters_New(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegisters()

	for id := R0; id <= R7; id++ {
		assert.Equal(uint16(0), reg.Get(id))
	}
	assert.Equal(PC_START, reg.Get(PC))
	assert.Equal(uint16(0), reg.Get(COND))
}

func TestRegisters_SetGet(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegisters()
	reg.Set(R3, 0xBEEF)
	assert.Equal(uint16(0xBEEF), reg.Get(R3))

	reg.Copy(R5, R3)
	assert.Equal(uint16(0xBEEF), reg.Get(R5))
}

func TestRegisters_Incr_Wraps(t *testing.T) {
	assert := assert.New(t)

	reg := NewRegisters()
	reg.Set(PC, 0xFFFF)
	reg.Incr(PC)
	assert.Equal(uint16(0), reg.Get(PC))

	reg.Set(R0, 0xFFFE)
	reg.IncrBy(R0, 5)
	assert.Equal(uint16(3), reg.Get(R0))

	// A negative offset is its two's-complement image.
	reg.Set(R1, 10)
	reg.IncrBy(R1, SignExtend(0b1_1101, 5)) // -3
	assert.Equal(uint16(7), reg.Get(R1))
}

func TestFlagFor(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(FLAG_ZRO, FlagFor(0))
	assert.Equal(FLAG_POS, FlagFor(1))
	assert.Equal(FLAG_POS, FlagFor(0x7FFF))
	assert.Equal(FLAG_NEG, FlagFor(0x8000))
	assert.Equal(FLAG_NEG, FlagFor(0xFFFF))
}
