// Package console provides the byte-oriented console boundary of the golc3
// machine. The Terminal backend talks to a real tty (optionally in raw mode),
// while the Buffer backend wraps an io.Reader and io.Writer for headless runs
// and tests.
package console

// Console defines the interface for the machine's console device.
// Input is consumed one byte at a time; a read blocks until a byte is
// available and reports an error once the input source is exhausted.
type Console interface {
	// ReadByte blocks until a single input byte is available.
	ReadByte() (byte, error)
	// WriteByte writes a single output byte.
	WriteByte(value byte) error
	// WriteString writes a prompt or notice string.
	WriteString(text string) error
	// Flush pushes any buffered output to the device.
	Flush() error
}
