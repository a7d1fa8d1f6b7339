package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuffer_Read(t *testing.T) {
	assert := assert.New(t)

	bc := &Buffer{Input: strings.NewReader("ab")}

	value, err := bc.ReadByte()
	assert.NoError(err)
	assert.Equal(byte('a'), value)

	value, err = bc.ReadByte()
	assert.NoError(err)
	assert.Equal(byte('b'), value)

	_, err = bc.ReadByte()
	assert.ErrorIs(err, io.EOF)
}

func TestBuffer_Read_NilInput(t *testing.T) {
	assert := assert.New(t)

	bc := &Buffer{}

	_, err := bc.ReadByte()
	assert.ErrorIs(err, io.EOF)
}

func TestBuffer_Write(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	bc := &Buffer{Output: output}

	assert.NoError(bc.WriteByte('H'))
	assert.NoError(bc.WriteString("alt"))
	assert.NoError(bc.Flush())

	assert.Equal("Halt", output.String())
}

func TestBuffer_Write_NilOutput(t *testing.T) {
	assert := assert.New(t)

	bc := &Buffer{}

	assert.NoError(bc.WriteByte('x'))
	assert.NoError(bc.WriteString("discarded"))
}
