// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parse(t *testing.T, source string) (*Image, error) {
	t.Helper()
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(source))
}

func TestParse(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
; greeting
	.ORIG x3000
	LEA r0, msg
	PUTS
	HALT
msg:	.STRINGZ "Hi"
	.END
`)
	assert.NoError(err)
	assert.Equal(uint16(0x3000), im.Origin)
	assert.Equal([]uint16{
		0xD002, // LEA r0, msg
		0xE022, // PUTS
		0xE025, // HALT
		'H', 'i', 0,
	}, im.Words)
}

func TestParse_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
	ADD r3, r0, r1
	ADD r4, r2, #-15
	AND r2, r4, x6
	NOT r3, r0
`)
	assert.NoError(err)
	assert.Equal([]uint16{
		0x1601,
		0x18B1,
		0x5526,
		0x863F,
	}, im.Words)
}

func TestParse_Branches(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
loop:	ADD r0, r0, #-1
	BRp loop
	BR loop
`)
	assert.NoError(err)
	assert.Equal([]uint16{
		0x103F, // ADD r0, r0, #-1
		0x03FE, // BRp loop  (offset -2)
		0x0FFD, // BR loop   (offset -3, all test bits)
	}, im.Words)
}

func TestParse_Subroutines(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
	JSR sub
	JSRR r2
	HALT
sub:	RET
`)
	assert.NoError(err)
	assert.Equal([]uint16{
		0x4802, // JSR sub (offset +2)
		0x4080, // JSRR r2
		0xE025, // HALT
		0xB1C0, // RET
	}, im.Words)
}

func TestParse_DataDirectives(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
	.FILL xBEEF
	.FILL #-1
	.FILL 'A'
	.BLKW 2
	.FILL here
here:	.FILL 0
`)
	assert.NoError(err)
	assert.Equal([]uint16{
		0xBEEF,
		0xFFFF,
		'A',
		0, 0,
		0x3006, // address of here
		0,
	}, im.Words)
}

func TestParse_EquateChain(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
	.EQU A B
	.EQU B #3
	ADD r0, r0, A
`)
	assert.NoError(err)
	assert.Equal([]uint16{0x1023}, im.Words)
}

func TestParse_StringzMultibyte(t *testing.T) {
	assert := assert.New(t)

	// A multi-byte rune occupies one word per UTF-8 byte, so the label
	// after the string lands right on the terminator's successor.
	im, err := parse(t, `
	.ORIG x3000
	.STRINGZ "é"
end:	.FILL end
`)
	assert.NoError(err)
	assert.Equal([]uint16{0xC3, 0xA9, 0, 0x3003}, im.Words)
}

func TestParse_Equates(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
	.EQU COUNT #5
	ADD r0, r0, COUNT
	ADD r1, r1, $(COUNT + 2)
`)
	assert.NoError(err)
	assert.Equal([]uint16{
		0x1025, // ADD r0, r0, #5
		0x1267, // ADD r1, r1, #7
	}, im.Words)
}

func TestParse_Predefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("VEC_HALT", "0x25")

	im, err := asm.Parse(strings.NewReader(`
	.ORIG x3000
	TRAP VEC_HALT
`))
	assert.NoError(err)
	assert.Equal([]uint16{0xE025}, im.Words)
}

func TestParse_RegisterOffsets(t *testing.T) {
	assert := assert.New(t)

	im, err := parse(t, `
	.ORIG x3000
	LDR r5, r0, #-27
	STR r6, r0, #11
`)
	assert.NoError(err)
	assert.Equal([]uint16{
		0x6A25, // LDR r5, r0, #-27
		0x7C0B, // STR r6, r0, #11
	}, im.Words)
}

func TestParse_Errors(t *testing.T) {
	assert := assert.New(t)

	for _, tc := range []struct {
		name   string
		source string
		want   error
	}{
		{"empty", ``, ErrOriginMissing},
		{"code before origin", `ADD r0, r0, r1`, ErrOriginMissing},
		{"duplicate origin", ".ORIG x3000\n.ORIG x4000", ErrOriginDuplicate},
		{"duplicate label", ".ORIG x3000\na: NOP\na: NOP", ErrLabelDuplicate},
		{"duplicate equate", ".ORIG x3000\n.EQU A #1\n.EQU A #2", ErrEquateDuplicate},
		{"equate cycle", ".ORIG x3000\n.EQU A B\n.EQU B A\nADD r0, r0, A", ErrEquateCycle},
		{"equate syntax", ".ORIG x3000\n.EQU A", ErrEquateSyntax},
		{"unknown opcode", ".ORIG x3000\nFROB r0", ErrOpcodeInvalid},
		{"extra args", ".ORIG x3000\nHALT r0", ErrOpcodeExtraArgs},
		{"missing operand", ".ORIG x3000\nADD r0, r0", ErrOperandMissing},
		{"bad register", ".ORIG x3000\nADD r9, r0, r1", ErrRegisterInvalid},
		{"imm5 overflow", ".ORIG x3000\nADD r0, r0, #16", ErrOperandRange},
		{"offset6 overflow", ".ORIG x3000\nLDR r0, r1, #32", ErrOperandRange},
		{"trap vector overflow", ".ORIG x3000\nTRAP x100", ErrOperandRange},
		{"unterminated string", ".ORIG x3000\n.STRINGZ \"abc", ErrStringUnterminated},
		{"missing label", ".ORIG x3000\nLD r0, nowhere", ErrLabelMissing("nowhere")},
	} {
		_, err := parse(t, tc.source)
		assert.ErrorIs(err, tc.want, tc.name)
	}
}

func TestParse_SyntaxErrorLocation(t *testing.T) {
	assert := assert.New(t)

	_, err := parse(t, ".ORIG x3000\nFROB r0")

	var serr ErrSyntax
	assert.ErrorAs(err, &serr)
	assert.Equal(2, serr.LineNo)
	assert.Equal("FROB r0", serr.Line)
}
