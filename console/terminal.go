package console

import (
	"bufio"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Terminal is a Console over the process's stdin and stdout. Raw mode is the
// caller's choice: the machine itself assumes an already-configured
// byte-oriented console.
type Terminal struct {
	in  *bufio.Reader
	out *bufio.Writer

	saved unix.Termios
	raw   bool
}

// NewTerminal creates a Terminal console over stdin and stdout.
func NewTerminal() (tc *Terminal) {
	return &Terminal{
		in:  bufio.NewReader(os.Stdin),
		out: bufio.NewWriter(os.Stdout),
	}
}

// EnableRaw switches the controlling terminal to raw (no echo, no line
// buffering) mode, saving the prior configuration for DisableRaw.
// Returns ErrNotTerminal when stdin is not a tty.
func (tc *Terminal) EnableRaw() (err error) {
	fd := os.Stdin.Fd()
	if !term.IsTerminal(int(fd)) {
		return ErrNotTerminal
	}

	err = termios.Tcgetattr(fd, &tc.saved)
	if err != nil {
		return
	}

	attr := tc.saved
	attr.Lflag &^= unix.ICANON | unix.ECHO
	err = termios.Tcsetattr(fd, termios.TCSANOW, &attr)
	if err == nil {
		tc.raw = true
	}

	return
}

// DisableRaw restores the terminal configuration saved by EnableRaw.
func (tc *Terminal) DisableRaw() (err error) {
	if !tc.raw {
		return
	}

	tc.raw = false
	return termios.Tcsetattr(os.Stdin.Fd(), termios.TCSANOW, &tc.saved)
}

// ReadByte blocks until one byte of input is available.
func (tc *Terminal) ReadByte() (value byte, err error) {
	return tc.in.ReadByte()
}

// WriteByte writes one byte of output.
func (tc *Terminal) WriteByte(value byte) (err error) {
	return tc.out.WriteByte(value)
}

// WriteString writes a string to the output.
func (tc *Terminal) WriteString(text string) (err error) {
	_, err = tc.out.WriteString(text)
	return
}

// Flush pushes buffered output to the terminal.
func (tc *Terminal) Flush() (err error) {
	return tc.out.Flush()
}
