package console

import (
	"io"
)

// Buffer is a Console over an arbitrary reader and writer. It is the backend
// for headless runs and tests; a nil Input reads as exhausted and a nil
// Output discards.
type Buffer struct {
	Input  io.Reader
	Output io.Writer
}

// ReadByte reads one byte from the input, or io.EOF once it is exhausted.
func (bc *Buffer) ReadByte() (value byte, err error) {
	if bc.Input == nil {
		err = io.EOF
		return
	}

	var one [1]byte
	for {
		var n int
		n, err = bc.Input.Read(one[:])
		if n == 1 {
			return one[0], nil
		}
		if err != nil {
			return
		}
	}
}

// WriteByte writes one byte to the output.
func (bc *Buffer) WriteByte(value byte) (err error) {
	if bc.Output == nil {
		return
	}

	_, err = bc.Output.Write([]byte{value})
	return
}

// WriteString writes a string to the output.
func (bc *Buffer) WriteString(text string) (err error) {
	if bc.Output == nil {
		return
	}

	_, err = io.WriteString(bc.Output, text)
	return
}

// Flush is a no-op; Buffer output is unbuffered.
func (bc *Buffer) Flush() (err error) {
	return
}
