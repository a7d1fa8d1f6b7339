package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"golc3/console"
)

func TestMemory_ReadWrite(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(&console.Buffer{})

	assert.Equal(uint16(0), mem.Read(0x3000))

	mem.Write(0x3000, 0xCAFE)
	assert.Equal(uint16(0xCAFE), mem.Read(0x3000))

	mem.Write(0xFFFF, 0x1234)
	assert.Equal(uint16(0x1234), mem.Read(0xFFFF))
}

func TestMemory_KeyboardStatus(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(&console.Buffer{Input: strings.NewReader("k")})

	// A status read polls the console and latches the byte.
	status := mem.Read(KBSR)
	assert.Equal(KB_READY, status&KB_READY)
	assert.Equal(uint16('k'), mem.Read(KBDR))

	// Reading the data register consumed the byte; with input exhausted
	// the status reads not-ready.
	status = mem.Read(KBSR)
	assert.Equal(uint16(0), status&KB_READY)
}

func TestMemory_KeyboardDataConsumes(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(&console.Buffer{Input: strings.NewReader("ab")})

	assert.Equal(KB_READY, mem.Read(KBSR)&KB_READY)
	assert.Equal(uint16('a'), mem.Read(KBDR))

	// The ready bit is clear until the next status poll.
	assert.Equal(uint16(0), mem.words[KBSR]&KB_READY)

	assert.Equal(KB_READY, mem.Read(KBSR)&KB_READY)
	assert.Equal(uint16('b'), mem.Read(KBDR))
}

func TestMemory_Defines(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(&console.Buffer{})

	defines := map[string]string{}
	for key, value := range mem.Defines() {
		defines[key] = value
	}

	assert.Equal("0xfe00", defines["KBSR"])
	assert.Equal("0xfe02", defines["KBDR"])
}
